package client

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/models"
	"github.com/dakka24/dakka/internal/view"
)

var medals = []string{"🥇", "🥈", "🥉"}

// cards builds the elements for each collection in one locale.
type cards struct {
	catalog *i18n.Catalog
	locale  string
	clock   RelativeTime
}

func (c cards) t(key string, args ...any) string {
	return c.catalog.T(c.locale, key, args...)
}

func (c cards) uploadCard() view.Element {
	return view.Element{
		Kind:   view.KindUploadCard,
		Key:    "upload",
		Title:  c.t("upload.card"),
		OnOpen: &view.Action{Name: view.ActionOpenUpload},
	}
}

func (c cards) placeholder(key string) func() view.Element {
	return func() view.Element {
		return view.Element{Kind: view.KindPlaceholder, Key: key, Body: c.t(key)}
	}
}

func (c cards) videos() Renderer[models.MediaItem] {
	return Renderer[models.MediaItem]{
		Build: func(item models.MediaItem, _ int) view.Element {
			owner := orFallback(item.OwnerUsername, c.t("owner.fallback"))
			return view.Element{
				Kind:     view.KindVideoCard,
				Key:      item.ID,
				Title:    item.Title,
				Subtitle: owner,
				Meta:     c.clock.Date(item.CreatedAt),
				Body:     deref(item.Description),
				MediaURL: item.MediaURL,
				Initial:  initial(owner),
				OnOpen:   &view.Action{Name: view.ActionOpenComments, Target: item.ID},
				OnPlay:   &view.Action{Name: view.ActionPlayMedia, Target: item.ID},
			}
		},
		Empty: c.placeholder("videos.empty"),
	}
}

func (c cards) leaderboard() Renderer[models.User] {
	return Renderer[models.User]{
		Build: func(user models.User, index int) view.Element {
			name := user.Username
			if strings.TrimSpace(name) == "" {
				name = c.t("user.fallback")
			}
			el := view.Element{
				Kind:      view.KindUserCard,
				Key:       user.ID,
				Title:     name,
				Meta:      c.catalog.N(c.locale, "leaderboard.count", user.VideoCount),
				AvatarURL: deref(user.AvatarURL),
				Initial:   initial(name),
			}
			if index < len(medals) {
				el.Badge = medals[index]
			}
			return el
		},
		Empty: c.placeholder("leaderboard.empty"),
	}
}

func (c cards) comments() Renderer[models.Comment] {
	return Renderer[models.Comment]{
		Build: func(comment models.Comment, _ int) view.Element {
			owner := orFallback(comment.OwnerUsername, c.t("owner.fallback"))
			return view.Element{
				Kind:      view.KindComment,
				Key:       comment.ID,
				Title:     owner,
				Meta:      c.clock.Format(comment.CreatedAt),
				Body:      comment.Text,
				AvatarURL: deref(comment.OwnerAvatarURL),
				Initial:   initial(owner),
			}
		},
		Empty: c.placeholder("comments.empty"),
	}
}

func orFallback(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

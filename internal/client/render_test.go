package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/models"
	"github.com/dakka24/dakka/internal/view"
)

type sliceLoader[T any] struct {
	records []T
	err     error
	calls   int
}

func (l *sliceLoader[T]) Load(context.Context) ([]T, error) {
	l.calls++
	return l.records, l.err
}

func testCards(locale string) cards {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	catalog := i18n.MustLoad()
	return cards{
		catalog: catalog,
		locale:  locale,
		clock:   RelativeTime{Now: func() time.Time { return now }, Locale: locale, Catalog: catalog},
	}
}

func strPtr(s string) *string { return &s }

func TestRenderVideosInOrderWithFallbackOwner(t *testing.T) {
	c := testCards("en")
	list := view.NewList(c.uploadCard())
	items := []models.MediaItem{
		{ID: "v2", Title: "Second", OwnerUsername: strPtr("alice"), MediaURL: "https://cdn/2.mp4"},
		{ID: "v1", Title: "First"},
	}

	c.videos().Render(list, items)

	children := list.Children()
	if len(children) != 3 {
		t.Fatalf("expected upload card plus two videos, got %d", len(children))
	}
	if children[0].Kind != view.KindUploadCard {
		t.Fatalf("expected upload card first, got %s", children[0].Kind)
	}
	if children[1].Key != "v2" || children[2].Key != "v1" {
		t.Fatalf("expected backend order, got %s, %s", children[1].Key, children[2].Key)
	}
	if children[2].Subtitle != "Anonymous" {
		t.Fatalf("expected fallback owner, got %q", children[2].Subtitle)
	}
	if children[1].OnOpen == nil || children[1].OnOpen.Name != view.ActionOpenComments || children[1].OnOpen.Target != "v2" {
		t.Fatalf("unexpected open action: %+v", children[1].OnOpen)
	}
	if children[1].OnPlay == nil || children[1].OnPlay.Target != "v2" {
		t.Fatalf("unexpected play action: %+v", children[1].OnPlay)
	}
}

func TestRenderEmptyShowsPlaceholder(t *testing.T) {
	c := testCards("tr")
	list := view.NewList(c.uploadCard())

	c.videos().Render(list, nil)

	items := list.Items()
	if len(items) != 1 || items[0].Kind != view.KindPlaceholder {
		t.Fatalf("expected a single placeholder, got %+v", items)
	}
	if items[0].Body != "Henüz video yok. İlk videoyu siz yükleyin!" {
		t.Fatalf("unexpected placeholder text %q", items[0].Body)
	}
}

func TestRenderLeaderboardMedals(t *testing.T) {
	c := testCards("en")
	list := view.NewList()
	users := []models.User{
		{ID: "a", Username: "ada", VideoCount: 9},
		{ID: "b", Username: "bob", VideoCount: 5},
		{ID: "c", Username: "cem", VideoCount: 3},
		{ID: "d", Username: "", VideoCount: 1},
	}

	c.leaderboard().Render(list, users)

	items := list.Items()
	wantBadges := []string{"🥇", "🥈", "🥉", ""}
	for i, want := range wantBadges {
		if items[i].Badge != want {
			t.Fatalf("item %d: expected badge %q got %q", i, want, items[i].Badge)
		}
	}
	if items[0].Meta != "9 videos" || items[0].Initial != "A" {
		t.Fatalf("unexpected first card: %+v", items[0])
	}
	if items[3].Title != "User" || items[3].Initial != "U" {
		t.Fatalf("unexpected fallback card: %+v", items[3])
	}
}

func TestRenderCommentsRelativeTime(t *testing.T) {
	c := testCards("en")
	list := view.NewList()
	comments := []models.Comment{
		{ID: "c1", Text: "first", OwnerUsername: strPtr("zeynep"), CreatedAt: time.Date(2026, time.March, 20, 11, 55, 0, 0, time.UTC)},
	}

	c.comments().Render(list, comments)

	items := list.Items()
	if len(items) != 1 || items[0].Meta != "5 minutes ago" || items[0].Initial != "Z" || items[0].Body != "first" {
		t.Fatalf("unexpected comment element: %+v", items)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	c := testCards("en")
	list := view.NewList()
	loader := &sliceLoader[models.User]{records: []models.User{{ID: "a", Username: "ada"}, {ID: "b", Username: "bob"}}}

	for i := 0; i < 2; i++ {
		if _, err := Refresh[models.User](context.Background(), loader, c.leaderboard(), list); err != nil {
			t.Fatalf("refresh: %v", err)
		}
	}
	if len(list.Items()) != 2 {
		t.Fatalf("expected no duplicates after two refreshes, got %d", len(list.Items()))
	}
	if loader.calls != 2 {
		t.Fatalf("expected each refresh to hit the backend, got %d calls", loader.calls)
	}
}

func TestRefreshErrorKeepsPreviousContent(t *testing.T) {
	c := testCards("en")
	list := view.NewList()
	c.leaderboard().Render(list, []models.User{{ID: "a", Username: "ada"}})

	loader := &sliceLoader[models.User]{err: errors.New("boom")}
	if _, err := Refresh[models.User](context.Background(), loader, c.leaderboard(), list); err == nil {
		t.Fatal("expected error")
	}
	if items := list.Items(); len(items) != 1 || items[0].Key != "a" {
		t.Fatalf("expected previous content kept, got %+v", items)
	}
}

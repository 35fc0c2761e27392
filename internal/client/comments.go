package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dakka24/dakka/internal/logging"
	"github.com/dakka24/dakka/internal/models"
)

// OpenComments shows the comments sidebar for a media item in the feed and
// loads its comments.
func (a *App) OpenComments(ctx context.Context, mediaID string) error {
	ctx, done := a.begin(ctx, "comments.open")
	defer done()

	item, ok := a.media[mediaID]
	if !ok {
		return a.violation(ctx, "guard.unknown_media")
	}
	if a.detail != nil && a.detail.ID != mediaID {
		a.clearDetail()
	}
	a.overlays.OpenSidebar()
	a.detail = &item
	a.reloadComments(ctx)
	return nil
}

// CloseComments hides the sidebar and drops the detail context.
func (a *App) CloseComments() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlays.CloseSidebar()
}

// SubmitComment posts text on the media item in the sidebar, then re-fetches
// its comments. The draft is kept when the post fails.
func (a *App) SubmitComment(ctx context.Context, text string) error {
	ctx, done := a.begin(ctx, "comments.submit")
	defer done()

	a.draft = text
	identity, ok := a.session.Identity()
	if !ok {
		a.overlays.Open(OverlayAuth)
		return a.violation(ctx, "guard.signin_required")
	}
	if a.detail == nil || !a.overlays.SidebarOpen() {
		return a.violation(ctx, "guard.no_detail")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return a.violation(ctx, "guard.blank_comment")
	}

	created, err := a.backend.Comments.InsertComment(ctx, models.Comment{
		VideoID: a.detail.ID,
		UserID:  identity.UserID,
		Text:    text,
	})
	if err != nil {
		return a.gatewayFailure(ctx, "insert comment", "error.gateway", err)
	}

	logging.FromContext(ctx).Info("comment posted", slog.String("comment_id", created.ID), slog.String("media_id", a.detail.ID))
	a.draft = ""
	a.reloadComments(ctx)
	return nil
}

package client

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/logging"
)

// PlayMedia opens the full media modal for a media item in the feed.
func (a *App) PlayMedia(ctx context.Context, mediaID string) error {
	ctx, done := a.begin(ctx, "media.play")
	defer done()

	item, ok := a.media[mediaID]
	if !ok {
		return a.violation(ctx, "guard.unknown_media")
	}
	a.overlays.Open(OverlayMedia)
	a.playing = &item
	return nil
}

// CloseMedia hides the full media modal.
func (a *App) CloseMedia() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlays.Close(OverlayMedia)
}

// OpenProfile shows the profile overlay, or the auth overlay when signed out.
func (a *App) OpenProfile(ctx context.Context) error {
	ctx, done := a.begin(ctx, "profile.open")
	defer done()

	if !a.session.SignedIn() {
		a.overlays.Open(OverlayAuth)
		return nil
	}
	a.overlays.Open(OverlayProfile)
	a.reloadProfile(ctx)
	return nil
}

// OpenAuth shows the auth overlay.
func (a *App) OpenAuth() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlays.Open(OverlayAuth)
}

// CloseOverlay hides overlay if it is the open one.
func (a *App) CloseOverlay(overlay Overlay) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlays.Close(overlay)
}

// ClickOutside closes the open modal.
func (a *App) ClickOutside() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlays.ClickOutside()
}

// ChangeAvatar replaces the signed-in user's avatar and re-fetches the profile.
func (a *App) ChangeAvatar(ctx context.Context, file LocalFile) error {
	ctx, done := a.begin(ctx, "profile.avatar")
	defer done()

	identity, ok := a.session.Identity()
	if !ok {
		a.overlays.Open(OverlayAuth)
		return a.violation(ctx, "guard.signin_required")
	}
	if file.Empty() {
		return a.violation(ctx, "guard.no_file")
	}
	contentType := file.MediaType()
	if !strings.HasPrefix(contentType, "image/") {
		return a.violation(ctx, "guard.not_image")
	}

	objectPath := AvatarPath(identity.UserID, file.Name)
	err := a.backend.Objects.Put(ctx, objectPath, bytes.NewReader(file.Data), gateway.PutOptions{
		Overwrite:   true,
		ContentType: contentType,
		Size:        int64(len(file.Data)),
	})
	if err != nil {
		return a.gatewayFailure(ctx, "put avatar", "error.avatar", err)
	}
	if err := a.backend.Users.UpdateAvatar(ctx, identity.UserID, a.backend.Objects.PublicURL(objectPath)); err != nil {
		return a.gatewayFailure(ctx, "update avatar", "error.avatar", err)
	}

	logging.FromContext(ctx).Info("avatar updated", slog.String("path", objectPath))
	a.notify(NoticeInfo, a.t("notice.avatar_ok"))
	a.reloadProfile(ctx)
	a.reloadLeaderboard(ctx)
	return nil
}

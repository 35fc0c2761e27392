package client

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/logging"
	"github.com/dakka24/dakka/internal/models"
)

// UploadForm is the metadata entered in the upload overlay.
type UploadForm struct {
	Title       string
	Description string
}

// OpenUpload shows the upload overlay, or the auth overlay when signed out.
func (a *App) OpenUpload(ctx context.Context) error {
	ctx, done := a.begin(ctx, "upload.open")
	defer done()

	if !a.session.SignedIn() {
		a.overlays.Open(OverlayAuth)
		return a.violation(ctx, "guard.signin_required")
	}
	a.overlays.Open(OverlayUpload)
	return nil
}

// SelectFile records the file picked for upload and opens the upload overlay.
func (a *App) SelectFile(ctx context.Context, file LocalFile) error {
	ctx, done := a.begin(ctx, "upload.select")
	defer done()

	if !a.session.SignedIn() {
		a.overlays.Open(OverlayAuth)
		return a.violation(ctx, "guard.signin_required")
	}
	if file.Empty() {
		return a.violation(ctx, "guard.no_file")
	}
	a.overlays.Open(OverlayUpload)
	a.pending = &file
	return nil
}

// CloseUpload hides the upload overlay and drops the pending file.
func (a *App) CloseUpload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlays.Close(OverlayUpload)
}

// Upload stores the pending file and records it as a media item. On success
// the overlay closes and the feed and leaderboard are re-fetched, in that order.
func (a *App) Upload(ctx context.Context, form UploadForm) error {
	ctx, done := a.begin(ctx, "upload")
	defer done()
	return a.upload(ctx, form)
}

// UploadFile selects file and uploads it as one event, so nothing can drop
// the selection in between. An empty file uploads the pending one, if any.
func (a *App) UploadFile(ctx context.Context, file LocalFile, form UploadForm) error {
	ctx, done := a.begin(ctx, "upload")
	defer done()

	if !file.Empty() && a.session.SignedIn() {
		a.overlays.Open(OverlayUpload)
		a.pending = &file
	}
	return a.upload(ctx, form)
}

func (a *App) upload(ctx context.Context, form UploadForm) error {
	identity, ok := a.session.Identity()
	if !ok {
		a.overlays.Open(OverlayAuth)
		return a.violation(ctx, "guard.signin_required")
	}
	if a.pending == nil {
		return a.violation(ctx, "guard.no_file")
	}
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return a.violation(ctx, "guard.no_title")
	}

	file := *a.pending
	objectPath := MediaPath(identity.UserID, a.newToken(a.now()), file.Name)
	logger := logging.FromContext(ctx).With(slog.String("path", objectPath))

	err := a.backend.Objects.Put(ctx, objectPath, bytes.NewReader(file.Data), gateway.PutOptions{
		Overwrite:   false,
		ContentType: file.MediaType(),
		Size:        int64(len(file.Data)),
	})
	if err != nil {
		return a.gatewayFailure(ctx, "put object", "error.upload", err)
	}

	item := models.MediaItem{
		UserID:   identity.UserID,
		Title:    title,
		MediaURL: a.backend.Objects.PublicURL(objectPath),
	}
	if desc := strings.TrimSpace(form.Description); desc != "" {
		item.Description = &desc
	}
	created, err := a.backend.Media.InsertMediaItem(ctx, item)
	if err != nil {
		logger.Error("object stored without media row", slog.Any("error", err))
		a.span.Fail(err)
		a.notify(NoticeError, a.t("error.upload", err.Error()))
		return &PartialFailure{Path: objectPath, Err: err}
	}

	logger.Info("media uploaded", slog.String("media_id", created.ID))
	a.notify(NoticeInfo, a.t("notice.upload_ok"))
	a.overlays.Close(OverlayUpload)
	a.reloadVideos(ctx)
	a.reloadLeaderboard(ctx)
	a.reloadProfile(ctx)
	return nil
}

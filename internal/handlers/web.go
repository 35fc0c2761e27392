package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"

	"github.com/dakka24/dakka/internal/client"
	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/logging"
	"github.com/dakka24/dakka/internal/middleware"
	"github.com/dakka24/dakka/internal/views"
)

// WebHandler serves the page and turns form posts into app events. Each
// browser session owns one client.App; after an event the browser is
// redirected back to the page, which renders the app's current snapshot.
type WebHandler struct {
	Apps           *AppRegistry
	Sessions       sessions.Store
	Catalog        *i18n.Catalog
	MaxUploadBytes int64

	validate *validator.Validate
}

// NewWebHandler returns a WebHandler with its form validator ready.
func NewWebHandler(apps *AppRegistry, store sessions.Store, catalog *i18n.Catalog, maxUploadBytes int64) *WebHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 200 << 20
	}
	return &WebHandler{
		Apps:           apps,
		Sessions:       store,
		Catalog:        catalog,
		MaxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
	}
}

type commentRequest struct {
	Text string `validate:"max=500"`
}

type uploadRequest struct {
	Title       string `validate:"max=120"`
	Description string `validate:"max=1000"`
}

// Page handles GET /.
func (h *WebHandler) Page(w http.ResponseWriter, r *http.Request) {
	app, sess, ctx, err := h.appFor(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	snap := app.View()
	if err := h.save(w, r.WithContext(ctx), sess, app); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(views.Page(snap, h.Catalog)).ServeHTTP(w, r.WithContext(ctx))
}

// Refresh handles POST /refresh.
func (h *WebHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "refresh", func(ctx context.Context, app *client.App) error {
		app.Refresh(ctx)
		return nil
	})
}

// OpenOverlay handles POST /overlays/{name}/open.
func (h *WebHandler) OpenOverlay(w http.ResponseWriter, r *http.Request) {
	overlay, ok := client.ParseOverlay(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.act(w, r, "overlay.open", func(ctx context.Context, app *client.App) error {
		switch overlay {
		case client.OverlayAuth:
			app.OpenAuth()
		case client.OverlayUpload:
			return app.OpenUpload(ctx)
		case client.OverlayProfile:
			return app.OpenProfile(ctx)
		default:
			return fmt.Errorf("overlay %s cannot be opened directly", overlay)
		}
		return nil
	})
}

// CloseOverlay handles POST /overlays/{name}/close.
func (h *WebHandler) CloseOverlay(w http.ResponseWriter, r *http.Request) {
	overlay, ok := client.ParseOverlay(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.act(w, r, "overlay.close", func(_ context.Context, app *client.App) error {
		app.CloseOverlay(overlay)
		return nil
	})
}

// ClickOutside handles POST /overlays/outside.
func (h *WebHandler) ClickOutside(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "overlay.outside", func(_ context.Context, app *client.App) error {
		app.ClickOutside()
		return nil
	})
}

// Upload handles POST /upload. A file in the request replaces any pending one.
func (h *WebHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "upload", func(ctx context.Context, app *client.App) error {
		file, err := h.readFile(w, r, "file")
		if err != nil {
			return h.reject(app, err)
		}
		req := uploadRequest{Title: r.FormValue("title"), Description: r.FormValue("description")}
		if err := h.validate.Struct(req); err != nil {
			return h.reject(app, err)
		}
		return app.UploadFile(ctx, file, client.UploadForm{Title: req.Title, Description: req.Description})
	})
}

// OpenComments handles POST /videos/{id}/comments/open.
func (h *WebHandler) OpenComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, "comments.open", func(ctx context.Context, app *client.App) error {
		return app.OpenComments(ctx, id)
	})
}

// CloseComments handles POST /comments/close.
func (h *WebHandler) CloseComments(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "comments.close", func(_ context.Context, app *client.App) error {
		app.CloseComments()
		return nil
	})
}

// SubmitComment handles POST /comments.
func (h *WebHandler) SubmitComment(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "comments.submit", func(ctx context.Context, app *client.App) error {
		req := commentRequest{Text: r.FormValue("text")}
		if err := h.validate.Struct(req); err != nil {
			return h.reject(app, err)
		}
		return app.SubmitComment(ctx, req.Text)
	})
}

// PlayMedia handles POST /videos/{id}/play.
func (h *WebHandler) PlayMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, "media.play", func(ctx context.Context, app *client.App) error {
		return app.PlayMedia(ctx, id)
	})
}

// CloseMedia handles POST /media/close.
func (h *WebHandler) CloseMedia(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "media.close", func(_ context.Context, app *client.App) error {
		app.CloseMedia()
		return nil
	})
}

// ChangeAvatar handles POST /profile/avatar.
func (h *WebHandler) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "profile.avatar", func(ctx context.Context, app *client.App) error {
		file, err := h.readFile(w, r, "avatar")
		if err != nil {
			return h.reject(app, err)
		}
		return app.ChangeAvatar(ctx, file)
	})
}

type statusResponse struct {
	Busy string `json:"busy"`
}

// Status handles GET /status, reporting the action the session's app is
// running. It never creates an app and does not wait for a running event.
func (h *WebHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := h.Sessions.Get(r, SessionCookieName)
	var id string
	if sess != nil {
		id, _ = sess.Values[keyAppID].(string)
	}
	app, ok := h.Apps.Get(id)
	if !ok {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	respondJSON(ctx, w, http.StatusOK, statusResponse{Busy: app.Busy()})
}

// act runs one app event and redirects back to the page.
func (h *WebHandler) act(w http.ResponseWriter, r *http.Request, action string, event func(context.Context, *client.App) error) {
	app, sess, ctx, err := h.appFor(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	err = event(ctx, app)
	result := outcome(err)
	middleware.ObserveAction(action, result)
	if err != nil {
		logging.FromContext(ctx).Info("action rejected", slog.String("action", action), slog.String("outcome", result), slog.Any("error", err))
	}

	if err := h.save(w, r.WithContext(ctx), sess, app); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// appFor returns the app bound to the browser session, creating and starting
// one from the cookie's tokens when there is none.
func (h *WebHandler) appFor(w http.ResponseWriter, r *http.Request) (*client.App, *sessions.Session, context.Context, error) {
	ctx := r.Context()
	sess, err := h.Sessions.Get(r, SessionCookieName)
	if err != nil {
		// A cookie from an older secret decodes to a fresh session.
		logging.FromContext(ctx).Warn("discarding unreadable session cookie", slog.Any("error", err))
	}
	if sess == nil {
		return nil, nil, ctx, errors.New("session store returned no session")
	}

	id, _ := sess.Values[keyAppID].(string)
	if app, ok := h.Apps.Get(id); ok {
		return app, sess, logging.WithAppID(ctx, id), nil
	}

	id, app, err := h.Apps.Create()
	if err != nil {
		return nil, nil, ctx, fmt.Errorf("create app: %w", err)
	}
	ctx = logging.WithAppID(ctx, id)
	sess.Values[keyAppID] = id
	if err := app.Start(ctx, tokensFromSession(sess)); err != nil {
		logging.FromContext(ctx).Warn("session restore failed", slog.Any("error", err))
	}
	return app, sess, ctx, nil
}

func (h *WebHandler) save(w http.ResponseWriter, r *http.Request, sess *sessions.Session, app *client.App) error {
	storeTokens(sess, app.Tokens())
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// readFile reads an optional multipart file field. A missing field yields an
// empty LocalFile so the app's own guard reports it.
func (h *WebHandler) readFile(w http.ResponseWriter, r *http.Request, field string) (client.LocalFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return client.LocalFile{}, fmt.Errorf("parse upload: %w", err)
	}

	part, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return client.LocalFile{}, nil
	}
	if err != nil {
		return client.LocalFile{}, fmt.Errorf("read %s: %w", field, err)
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return client.LocalFile{}, fmt.Errorf("read %s: %w", field, err)
	}
	return client.LocalFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// reject reports input refused before it reached the app.
func (h *WebHandler) reject(app *client.App, err error) error {
	app.Notify(client.NoticeError, h.Catalog.T(app.Locale(), "guard.invalid_input", describe(err)))
	return &client.GuardViolation{Reason: "guard.invalid_input"}
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		names := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			names = append(names, strings.ToLower(fe.Field()))
		}
		return strings.Join(names, ", ")
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("file exceeds %d MB", tooLarge.Limit>>20)
	}
	return err.Error()
}

func (h *WebHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("web request failed", slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

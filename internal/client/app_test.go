package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dakka24/dakka/internal/auth"
	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/gateway/memory"
	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/models"
	"github.com/dakka24/dakka/internal/view"
)

// recordingGateway forwards to the memory backend, recording every call and
// failing the ones configured to fail.
type recordingGateway struct {
	identity gateway.Identity
	rows     *memory.Rows
	objects  *memory.Objects

	calls []string
	fail  map[string]error
	onPut func()
}

func (g *recordingGateway) record(name string) error {
	g.calls = append(g.calls, name)
	return g.fail[name]
}

func (g *recordingGateway) reset() {
	g.calls = nil
}

func (g *recordingGateway) SignUp(ctx context.Context, creds models.Credentials) (models.AuthSession, error) {
	if err := g.record("SignUp"); err != nil {
		return models.AuthSession{}, err
	}
	return g.identity.SignUp(ctx, creds)
}

func (g *recordingGateway) SignIn(ctx context.Context, creds models.Credentials) (models.AuthSession, error) {
	if err := g.record("SignIn"); err != nil {
		return models.AuthSession{}, err
	}
	return g.identity.SignIn(ctx, creds)
}

func (g *recordingGateway) CurrentSession(ctx context.Context, tokens models.SessionTokens) (models.AuthSession, bool, error) {
	if err := g.record("CurrentSession"); err != nil {
		return models.AuthSession{}, false, err
	}
	return g.identity.CurrentSession(ctx, tokens)
}

func (g *recordingGateway) SignOut(ctx context.Context, tokens models.SessionTokens) error {
	if err := g.record("SignOut"); err != nil {
		return err
	}
	return g.identity.SignOut(ctx, tokens)
}

func (g *recordingGateway) InsertProfile(ctx context.Context, user models.User) error {
	if err := g.record("InsertProfile"); err != nil {
		return err
	}
	return g.rows.InsertProfile(ctx, user)
}

func (g *recordingGateway) GetProfile(ctx context.Context, userID string) (models.User, bool, error) {
	if err := g.record("GetProfile"); err != nil {
		return models.User{}, false, err
	}
	return g.rows.GetProfile(ctx, userID)
}

func (g *recordingGateway) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	if err := g.record("UpdateAvatar"); err != nil {
		return err
	}
	return g.rows.UpdateAvatar(ctx, userID, avatarURL)
}

func (g *recordingGateway) ListLeaderboard(ctx context.Context, limit int) ([]models.User, error) {
	if err := g.record("ListLeaderboard"); err != nil {
		return nil, err
	}
	return g.rows.ListLeaderboard(ctx, limit)
}

func (g *recordingGateway) InsertMediaItem(ctx context.Context, item models.MediaItem) (models.MediaItem, error) {
	if err := g.record("InsertMediaItem"); err != nil {
		return models.MediaItem{}, err
	}
	return g.rows.InsertMediaItem(ctx, item)
}

func (g *recordingGateway) ListMediaItems(ctx context.Context) ([]models.MediaItem, error) {
	if err := g.record("ListMediaItems"); err != nil {
		return nil, err
	}
	return g.rows.ListMediaItems(ctx)
}

func (g *recordingGateway) InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	if err := g.record("InsertComment"); err != nil {
		return models.Comment{}, err
	}
	return g.rows.InsertComment(ctx, comment)
}

func (g *recordingGateway) ListComments(ctx context.Context, videoID string) ([]models.Comment, error) {
	if err := g.record("ListComments"); err != nil {
		return nil, err
	}
	return g.rows.ListComments(ctx, videoID)
}

func (g *recordingGateway) Put(ctx context.Context, path string, body io.Reader, opts gateway.PutOptions) error {
	if err := g.record("Put"); err != nil {
		return err
	}
	if g.onPut != nil {
		g.onPut()
	}
	return g.objects.Put(ctx, path, body, opts)
}

func (g *recordingGateway) PublicURL(path string) string {
	return g.objects.PublicURL(path)
}

var testNow = time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *recordingGateway) {
	t.Helper()

	manager := auth.NewManager(auth.Config{
		SigningKey: []byte("test-signing-key"),
		BcryptCost: bcrypt.MinCost,
	}, auth.NewInMemoryAccountStore(), auth.NewInMemorySessionStore())

	rec := &recordingGateway{
		identity: manager,
		rows:     memory.NewRows(),
		objects:  memory.NewObjects("https://cdn.example.com/videos"),
		fail:     map[string]error{},
	}
	app, err := NewApp(Options{
		Backend:  gateway.Backend{Identity: rec, Users: rec, Media: rec, Comments: rec, Objects: rec},
		Catalog:  i18n.MustLoad(),
		Locale:   "en",
		Now:      func() time.Time { return testNow },
		NewToken: func(time.Time) string { return "01TOKEN" },
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app, rec
}

func signUp(t *testing.T, app *App, rec *recordingGateway, email string) {
	t.Helper()
	if err := app.SignUp(context.Background(), AuthForm{Email: email, Password: "secret"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	app.View()
	rec.reset()
}

func selectVideo(t *testing.T, app *App) {
	t.Helper()
	file := LocalFile{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("video-bytes")}
	if err := app.SelectFile(context.Background(), file); err != nil {
		t.Fatalf("select file: %v", err)
	}
}

func itemsOf(elements []view.Element, kind view.Kind) []view.Element {
	var out []view.Element
	for _, el := range elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

func assertGuard(t *testing.T, err error, reason string) {
	t.Helper()
	var gv *GuardViolation
	if !errors.As(err, &gv) {
		t.Fatalf("expected guard violation %q, got %v", reason, err)
	}
	if gv.Reason != reason {
		t.Fatalf("expected guard reason %q, got %q", reason, gv.Reason)
	}
}

func assertCalls(t *testing.T, rec *recordingGateway, want ...string) {
	t.Helper()
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("expected calls %v, got %v", want, rec.calls)
	}
}

func TestStartWithoutTokensOpensAuth(t *testing.T) {
	app, rec := newTestApp(t)

	if err := app.Start(context.Background(), models.SessionTokens{}); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := app.View()
	if snap.Overlay != OverlayAuth || snap.SignedIn {
		t.Fatalf("expected auth overlay for signed out start, got %+v", snap)
	}
	assertCalls(t, rec)
}

func TestStartRestoresSession(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	tokens := app.Tokens()

	restored, _ := newTestApp(t)
	restored.backend = app.backend
	if err := restored.Start(context.Background(), tokens); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := restored.View()
	if !snap.SignedIn || snap.Overlay != OverlayNone {
		t.Fatalf("expected restored session, got %+v", snap)
	}
	if snap.Profile == nil || snap.Profile.Username != "alice" {
		t.Fatalf("expected profile loaded, got %+v", snap.Profile)
	}
	assertCalls(t, rec, "CurrentSession", "GetProfile", "ListLeaderboard", "ListMediaItems")
}

func TestSignUpCreatesProfileAndLoads(t *testing.T) {
	app, rec := newTestApp(t)
	app.OpenAuth()
	app.ToggleAuthMode()

	err := app.Authenticate(context.Background(), AuthForm{Email: "alice@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	assertCalls(t, rec, "SignUp", "InsertProfile", "GetProfile", "ListLeaderboard", "ListMediaItems")
	snap := app.View()
	if snap.Overlay != OverlayNone {
		t.Fatalf("expected auth overlay closed, got %s", snap.Overlay)
	}
	if snap.Profile == nil || snap.Profile.Username != "alice" {
		t.Fatalf("expected username from email local part, got %+v", snap.Profile)
	}
	if len(snap.Notices) != 1 || snap.Notices[0].Level != NoticeInfo {
		t.Fatalf("expected welcome notice, got %+v", snap.Notices)
	}
	if placeholders := itemsOf(snap.Videos, view.KindPlaceholder); len(placeholders) != 1 {
		t.Fatalf("expected empty feed placeholder, got %+v", snap.Videos)
	}
	if len(app.View().Notices) != 0 {
		t.Fatal("expected notices to be drained")
	}
}

func TestSignInRejectsMissingCredentials(t *testing.T) {
	app, rec := newTestApp(t)

	err := app.SignIn(context.Background(), AuthForm{Email: "  ", Password: "x"})
	assertGuard(t, err, "guard.credentials")
	assertCalls(t, rec)
}

func TestSignInWrongPasswordIsGatewayError(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	_ = app.SignOut(context.Background())
	rec.reset()

	err := app.SignIn(context.Background(), AuthForm{Email: "alice@example.com", Password: "wrong"})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected gateway error wrapping invalid credentials, got %v", err)
	}
	snap := app.View()
	if snap.Overlay != OverlayAuth || snap.SignedIn {
		t.Fatalf("expected auth overlay to stay open, got %+v", snap)
	}
	if app.Busy() != "" {
		t.Fatalf("expected busy cleared, got %q", app.Busy())
	}
}

func TestUploadEndToEnd(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	rec.reset()

	if err := app.Upload(context.Background(), UploadForm{Title: "T1", Description: "first"}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	assertCalls(t, rec, "Put", "InsertMediaItem", "ListMediaItems", "ListLeaderboard", "GetProfile")

	snap := app.View()
	if snap.Overlay != OverlayNone || snap.PendingFile != "" {
		t.Fatalf("expected upload overlay closed and file reset, got overlay=%s file=%q", snap.Overlay, snap.PendingFile)
	}

	videos := itemsOf(snap.Videos, view.KindVideoCard)
	if len(videos) != 1 || videos[0].Title != "T1" || videos[0].Subtitle != "alice" || videos[0].Body != "first" {
		t.Fatalf("unexpected feed: %+v", videos)
	}
	wantPath := snap.Identity.UserID + "/01TOKEN.mp4"
	if videos[0].MediaURL != "https://cdn.example.com/videos/"+wantPath {
		t.Fatalf("unexpected media url %q", videos[0].MediaURL)
	}
	if _, ok := rec.objects.Get(wantPath); !ok {
		t.Fatalf("expected object stored at %s", wantPath)
	}

	board := itemsOf(snap.Leaderboard, view.KindUserCard)
	if len(board) != 1 || board[0].Title != "alice" || board[0].Meta != "1 video" || board[0].Badge != "🥇" {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
	if snap.Profile == nil || snap.Profile.VideoCount != 1 {
		t.Fatalf("expected profile count re-fetched, got %+v", snap.Profile)
	}
}

func TestUploadGuardsMakeNoCalls(t *testing.T) {
	app, rec := newTestApp(t)

	err := app.Upload(context.Background(), UploadForm{Title: "T1"})
	assertGuard(t, err, "guard.signin_required")
	assertCalls(t, rec)
	if app.View().Overlay != OverlayAuth {
		t.Fatal("expected auth overlay for signed out upload")
	}

	signUp(t, app, rec, "alice@example.com")

	err = app.Upload(context.Background(), UploadForm{Title: "T1"})
	assertGuard(t, err, "guard.no_file")

	selectVideo(t, app)
	err = app.Upload(context.Background(), UploadForm{Title: "   "})
	assertGuard(t, err, "guard.no_title")

	err = app.SelectFile(context.Background(), LocalFile{Name: "empty.mp4"})
	assertGuard(t, err, "guard.no_file")

	assertCalls(t, rec)
}

func TestCloseUploadResetsPendingFile(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)

	if app.View().PendingFile != "clip.mp4" {
		t.Fatal("expected pending file")
	}
	app.ClickOutside()
	if app.View().PendingFile != "" {
		t.Fatal("expected pending file reset on close")
	}

	if err := app.OpenUpload(context.Background()); err != nil {
		t.Fatalf("open upload: %v", err)
	}
	err := app.Upload(context.Background(), UploadForm{Title: "T1"})
	assertGuard(t, err, "guard.no_file")
}

func TestUploadPutFailure(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	rec.reset()
	rec.fail["Put"] = errors.New("bucket unavailable")

	err := app.Upload(context.Background(), UploadForm{Title: "T1"})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	assertCalls(t, rec, "Put")

	snap := app.View()
	if snap.Overlay != OverlayUpload || snap.PendingFile != "clip.mp4" {
		t.Fatalf("expected upload overlay kept for retry, got %+v", snap)
	}
	if len(snap.Notices) != 1 || snap.Notices[0].Level != NoticeError {
		t.Fatalf("expected an error notice, got %+v", snap.Notices)
	}
	if app.Busy() != "" {
		t.Fatalf("expected busy cleared, got %q", app.Busy())
	}
}

func TestUploadPartialFailureLeavesObject(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	rec.reset()
	rec.fail["InsertMediaItem"] = errors.New("row rejected")

	err := app.Upload(context.Background(), UploadForm{Title: "T1"})
	var partial *PartialFailure
	if !errors.As(err, &partial) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if _, ok := rec.objects.Get(partial.Path); !ok {
		t.Fatalf("expected orphaned object to stay at %s", partial.Path)
	}
	assertCalls(t, rec, "Put", "InsertMediaItem")
	if app.Busy() != "" {
		t.Fatalf("expected busy cleared, got %q", app.Busy())
	}
}

func TestOpenCommentsAndSubmit(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	if err := app.Upload(context.Background(), UploadForm{Title: "T1"}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	mediaID := itemsOf(app.View().Videos, view.KindVideoCard)[0].Key
	rec.reset()

	if err := app.OpenComments(context.Background(), mediaID); err != nil {
		t.Fatalf("open comments: %v", err)
	}
	snap := app.View()
	if !snap.SidebarOpen || snap.Detail == nil || snap.Detail.ID != mediaID {
		t.Fatalf("expected sidebar for %s, got %+v", mediaID, snap)
	}
	if len(snap.Comments) != 1 || snap.Comments[0].Kind != view.KindPlaceholder {
		t.Fatalf("expected empty comments placeholder, got %+v", snap.Comments)
	}

	rec.reset()
	if err := app.SubmitComment(context.Background(), "  nice one "); err != nil {
		t.Fatalf("submit: %v", err)
	}
	assertCalls(t, rec, "InsertComment", "ListComments")

	snap = app.View()
	if snap.CommentDraft != "" {
		t.Fatalf("expected draft cleared, got %q", snap.CommentDraft)
	}
	if len(snap.Comments) != 1 || snap.Comments[0].Body != "nice one" || snap.Comments[0].Title != "alice" {
		t.Fatalf("unexpected comments: %+v", snap.Comments)
	}
}

func TestCommentGuardsMakeNoCalls(t *testing.T) {
	app, rec := newTestApp(t)

	err := app.SubmitComment(context.Background(), "hello")
	assertGuard(t, err, "guard.signin_required")

	signUp(t, app, rec, "alice@example.com")

	err = app.SubmitComment(context.Background(), "hello")
	assertGuard(t, err, "guard.no_detail")
	if app.View().CommentDraft != "hello" {
		t.Fatal("expected draft kept after rejected submit")
	}

	selectVideo(t, app)
	if err := app.Upload(context.Background(), UploadForm{Title: "T1"}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	mediaID := itemsOf(app.View().Videos, view.KindVideoCard)[0].Key
	if err := app.OpenComments(context.Background(), mediaID); err != nil {
		t.Fatalf("open comments: %v", err)
	}
	rec.reset()

	err = app.SubmitComment(context.Background(), " \t\n ")
	assertGuard(t, err, "guard.blank_comment")
	assertCalls(t, rec)

	err = app.OpenComments(context.Background(), "not-in-feed")
	assertGuard(t, err, "guard.unknown_media")
	assertCalls(t, rec)
}

func TestCommentFailureKeepsDraft(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	_ = app.Upload(context.Background(), UploadForm{Title: "T1"})
	mediaID := itemsOf(app.View().Videos, view.KindVideoCard)[0].Key
	_ = app.OpenComments(context.Background(), mediaID)
	rec.fail["InsertComment"] = errors.New("offline")

	err := app.SubmitComment(context.Background(), "hello")
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if app.View().CommentDraft != "hello" {
		t.Fatal("expected draft kept for retry")
	}
}

func TestPlayMediaAndSidebarExclusive(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	_ = app.Upload(context.Background(), UploadForm{Title: "T1"})
	mediaID := itemsOf(app.View().Videos, view.KindVideoCard)[0].Key

	_ = app.OpenComments(context.Background(), mediaID)
	if err := app.PlayMedia(context.Background(), mediaID); err != nil {
		t.Fatalf("play: %v", err)
	}
	snap := app.View()
	if snap.Overlay != OverlayMedia || snap.SidebarOpen || snap.Detail != nil {
		t.Fatalf("expected media modal alone, got overlay=%s sidebar=%v detail=%v", snap.Overlay, snap.SidebarOpen, snap.Detail)
	}
	if snap.Playing == nil || snap.Playing.ID != mediaID {
		t.Fatalf("expected playing item, got %+v", snap.Playing)
	}

	app.CloseMedia()
	if snap := app.View(); snap.Overlay != OverlayNone || snap.Playing != nil {
		t.Fatalf("expected media modal closed, got %+v", snap)
	}
}

func TestLoadFailureKeepsPreviousContent(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)
	_ = app.Upload(context.Background(), UploadForm{Title: "T1"})
	app.View()

	rec.fail["ListMediaItems"] = errors.New("timeout")
	app.Refresh(context.Background())

	snap := app.View()
	if videos := itemsOf(snap.Videos, view.KindVideoCard); len(videos) != 1 {
		t.Fatalf("expected previous feed kept, got %+v", snap.Videos)
	}
	if len(snap.Notices) != 1 || snap.Notices[0].Level != NoticeError {
		t.Fatalf("expected a load error notice, got %+v", snap.Notices)
	}
}

func TestChangeAvatar(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")

	err := app.ChangeAvatar(context.Background(), LocalFile{Name: "notes.txt", ContentType: "text/plain", Data: []byte("x")})
	assertGuard(t, err, "guard.not_image")
	assertCalls(t, rec)

	png := LocalFile{Name: "me.PNG", ContentType: "image/png", Data: []byte("img")}
	if err := app.ChangeAvatar(context.Background(), png); err != nil {
		t.Fatalf("change avatar: %v", err)
	}
	if err := app.ChangeAvatar(context.Background(), png); err != nil {
		t.Fatalf("avatar re-upload must overwrite: %v", err)
	}

	snap := app.View()
	wantURL := "https://cdn.example.com/videos/avatars/" + snap.Identity.UserID + ".png"
	if snap.Profile == nil || snap.Profile.AvatarURL == nil || *snap.Profile.AvatarURL != wantURL {
		t.Fatalf("expected avatar %s, got %+v", wantURL, snap.Profile)
	}
	board := itemsOf(snap.Leaderboard, view.KindUserCard)
	if len(board) != 1 || board[0].AvatarURL != wantURL {
		t.Fatalf("expected leaderboard to show new avatar, got %+v", board)
	}
}

func TestSignOutResetsState(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)

	if err := app.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	assertCalls(t, rec, "SignOut")

	snap := app.View()
	if snap.SignedIn || snap.Profile != nil || snap.PendingFile != "" {
		t.Fatalf("expected signed out state, got %+v", snap)
	}
	if snap.Overlay != OverlayAuth || snap.AuthMode != AuthSignIn {
		t.Fatalf("expected auth overlay in sign in mode, got %s %s", snap.Overlay, snap.AuthMode)
	}
	if len(snap.Videos) != 1 || snap.Videos[0].Kind != view.KindUploadCard {
		t.Fatalf("expected only the upload card, got %+v", snap.Videos)
	}
	if !app.Tokens().IsZero() {
		t.Fatal("expected tokens cleared")
	}
}

func TestNewAppRequiresCompleteBackend(t *testing.T) {
	if _, err := NewApp(Options{Catalog: i18n.MustLoad()}); err == nil {
		t.Fatal("expected incomplete backend to be rejected")
	}
}

func TestBusyReportsActionInFlight(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")
	selectVideo(t, app)

	var during string
	rec.onPut = func() { during = app.Busy() }
	if err := app.Upload(context.Background(), UploadForm{Title: "T1"}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if during != "upload" {
		t.Fatalf("expected busy upload during put, got %q", during)
	}
	if app.Busy() != "" {
		t.Fatalf("expected busy cleared, got %q", app.Busy())
	}
}

func TestUploadFileCarriesSelection(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				app.CloseUpload()
			}
		}
	}()

	file := LocalFile{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("video-bytes")}
	err := app.UploadFile(context.Background(), file, UploadForm{Title: "T1"})
	close(stop)
	wg.Wait()
	if err != nil {
		t.Fatalf("upload file: %v", err)
	}

	snap := app.View()
	if len(itemsOf(snap.Videos, view.KindVideoCard)) != 1 {
		t.Fatalf("expected uploaded video in feed, got %+v", snap.Videos)
	}
	if snap.PendingFile != "" || snap.Overlay == OverlayUpload {
		t.Fatalf("expected upload overlay closed and selection cleared, got %+v", snap)
	}
}

func TestUploadFileWithoutFileIsGuarded(t *testing.T) {
	app, rec := newTestApp(t)
	signUp(t, app, rec, "alice@example.com")

	err := app.UploadFile(context.Background(), LocalFile{}, UploadForm{Title: "T1"})
	assertGuard(t, err, "guard.no_file")
	assertCalls(t, rec)
}

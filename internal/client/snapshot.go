package client

import (
	"github.com/dakka24/dakka/internal/models"
	"github.com/dakka24/dakka/internal/view"
)

// Snapshot is everything a page needs to draw the app at one moment.
type Snapshot struct {
	Locale      string
	SignedIn    bool
	Identity    models.Identity
	Profile     *models.User
	Overlay     Overlay
	SidebarOpen bool
	AuthMode    AuthMode
	// PendingFile is the name of the file waiting in the upload overlay.
	PendingFile  string
	Detail       *models.MediaItem
	Playing      *models.MediaItem
	CommentDraft string

	Videos      []view.Element
	Leaderboard []view.Element
	Comments    []view.Element

	Notices []Notice
}

// View captures the current state and hands over pending notices, which are
// shown once.
func (a *App) View() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Locale:       a.locale,
		SignedIn:     a.session.SignedIn(),
		Overlay:      a.overlays.Primary(),
		SidebarOpen:  a.overlays.SidebarOpen(),
		AuthMode:     a.authMode,
		CommentDraft: a.draft,
		Videos:       a.videos.Children(),
		Leaderboard:  a.leaderboard.Children(),
		Comments:     a.comments.Children(),
		Notices:      a.notices,
	}
	a.notices = nil

	if identity, ok := a.session.Identity(); ok {
		snap.Identity = identity
	}
	if profile, ok := a.session.Profile(); ok {
		snap.Profile = &profile
	}
	if a.pending != nil {
		snap.PendingFile = a.pending.Name
	}
	if a.detail != nil {
		detail := *a.detail
		snap.Detail = &detail
	}
	if a.playing != nil {
		playing := *a.playing
		snap.Playing = &playing
	}
	return snap
}

// Notify queues a notice for the next View. Hosts use it to report input
// they rejected before it reached a handler.
func (a *App) Notify(level NoticeLevel, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notify(level, text)
}

// Package views renders app snapshots as HTML components.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/dakka24/dakka/internal/client"
	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/models"
	"github.com/dakka24/dakka/internal/view"
)

// Page renders the whole single-page UI for one snapshot. Every control is a
// form post so the page works without scripts.
func Page(snap client.Snapshot, catalog *i18n.Catalog) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{
			w: w,
			t: func(key string, args ...any) string { return catalog.T(snap.Locale, key, args...) },
			n: func(key string, n int) string { return catalog.N(snap.Locale, key, n) },
		}
		p.page(snap)
		return p.err
	})
}

type printer struct {
	w   io.Writer
	t   func(key string, args ...any) string
	n   func(key string, n int) string
	err error
}

func (p *printer) raw(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func safeURL(s string) string {
	return esc(string(templ.URL(s)))
}

func (p *printer) page(snap client.Snapshot) {
	p.raw(`<!doctype html><html lang="%s"><head><meta charset="utf-8">`, esc(snap.Locale))
	p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title>`, esc(p.t("page.title")))
	p.raw(`<style>%s</style></head><body>`, stylesheet)

	p.header(snap)
	p.notices(snap.Notices)

	p.raw(`<main>`)
	p.raw(`<section id="videos" class="grid">`)
	for _, el := range snap.Videos {
		p.element(el)
	}
	p.raw(`</section>`)
	p.raw(`<aside id="leaderboard"><h2>%s</h2>`, esc(p.t("leaderboard.title")))
	for _, el := range snap.Leaderboard {
		p.element(el)
	}
	p.raw(`</aside></main>`)

	if snap.SidebarOpen {
		p.sidebar(snap)
	}
	if snap.Overlay != client.OverlayNone {
		p.overlay(snap)
	}
	p.raw(`</body></html>`)
}

func (p *printer) header(snap client.Snapshot) {
	p.raw(`<header><h1>%s</h1><nav>`, esc(p.t("page.title")))
	p.button("/refresh", p.t("page.refresh"))
	if snap.SignedIn {
		p.button("/overlays/profile/open", p.t("nav.profile"))
		p.button("/logout", p.t("nav.signout"))
	} else {
		p.button("/overlays/auth/open", p.t("auth.signin"))
	}
	p.raw(`</nav></header>`)
}

func (p *printer) notices(notices []client.Notice) {
	if len(notices) == 0 {
		return
	}
	p.raw(`<div class="notices">`)
	for _, n := range notices {
		p.raw(`<p class="notice notice-%s" role="status">%s</p>`, esc(string(n.Level)), esc(n.Text))
	}
	p.raw(`</div>`)
}

func (p *printer) element(el view.Element) {
	switch el.Kind {
	case view.KindPlaceholder:
		p.raw(`<p class="empty">%s</p>`, esc(el.Body))
	case view.KindUploadCard:
		p.raw(`<div class="card upload-card">`)
		p.button("/overlays/upload/open", "+ "+el.Title)
		p.raw(`</div>`)
	case view.KindVideoCard:
		p.raw(`<article class="card video-card" id="video-%s">`, esc(el.Key))
		p.raw(`<video src="%s" preload="metadata" muted></video>`, safeURL(el.MediaURL))
		p.raw(`<h3>%s</h3><p class="owner">%s</p><p class="meta">%s</p>`, esc(el.Title), esc(el.Subtitle), esc(el.Meta))
		if el.Body != "" {
			p.raw(`<p>%s</p>`, esc(el.Body))
		}
		if el.OnOpen != nil {
			p.button("/videos/"+url.PathEscape(el.OnOpen.Target)+"/comments/open", p.t("media.comments"))
		}
		if el.OnPlay != nil {
			p.button("/videos/"+url.PathEscape(el.OnPlay.Target)+"/play", "▶")
		}
		p.raw(`</article>`)
	case view.KindUserCard:
		p.raw(`<div class="card user-card"><span class="badge">%s</span>`, esc(el.Badge))
		p.avatar(el.AvatarURL, el.Initial)
		p.raw(`<strong>%s</strong><span class="meta">%s</span></div>`, esc(el.Title), esc(el.Meta))
	case view.KindComment:
		p.raw(`<div class="comment">`)
		p.avatar(el.AvatarURL, el.Initial)
		p.raw(`<div><strong>%s</strong> <span class="meta">%s</span><p>%s</p></div></div>`, esc(el.Title), esc(el.Meta), esc(el.Body))
	}
}

func (p *printer) avatar(src, initial string) {
	if src != "" {
		p.raw(`<img class="avatar" src="%s" alt="">`, safeURL(src))
		return
	}
	p.raw(`<span class="avatar">%s</span>`, esc(initial))
}

func (p *printer) sidebar(snap client.Snapshot) {
	p.raw(`<aside id="comments" class="sidebar"><header><h2>%s</h2>`, esc(p.t("comments.title")))
	p.button("/comments/close", "×")
	p.raw(`</header>`)
	if snap.Detail != nil {
		p.raw(`<p class="detail">%s</p>`, esc(snap.Detail.Title))
	}
	p.raw(`<div class="comment-list">`)
	for _, el := range snap.Comments {
		p.element(el)
	}
	p.raw(`</div>`)
	p.raw(`<form method="post" action="/comments"><textarea name="text" placeholder="%s">%s</textarea>`,
		esc(p.t("comments.placeholder")), esc(snap.CommentDraft))
	p.raw(`<button type="submit">%s</button></form></aside>`, esc(p.t("comments.send")))
}

func (p *printer) overlay(snap client.Snapshot) {
	p.raw(`<div class="overlay" id="overlay-%s">`, esc(snap.Overlay.String()))
	p.raw(`<form method="post" action="/overlays/outside" class="backdrop"><button type="submit" aria-label="%s"></button></form>`, esc(p.t("common.close")))
	p.raw(`<div class="modal">`)
	switch snap.Overlay {
	case client.OverlayAuth:
		p.authModal(snap.AuthMode)
	case client.OverlayUpload:
		p.uploadModal(snap)
	case client.OverlayMedia:
		p.mediaModal(snap.Playing)
	case client.OverlayProfile:
		p.profileModal(snap.Profile, snap.Identity)
	}
	p.raw(`</div></div>`)
}

func (p *printer) authModal(mode client.AuthMode) {
	title, toggle := p.t("auth.signin"), p.t("auth.toggle.to_signup")
	if mode == client.AuthSignUp {
		title, toggle = p.t("auth.signup"), p.t("auth.toggle.to_signin")
	}
	p.raw(`<h2>%s</h2><form method="post" action="/auth">`, esc(title))
	p.raw(`<label>%s<input type="email" name="email" required></label>`, esc(p.t("auth.field.email")))
	p.raw(`<label>%s<input type="password" name="password" required></label>`, esc(p.t("auth.field.password")))
	if mode == client.AuthSignUp {
		p.raw(`<label>%s<input type="text" name="username"></label>`, esc(p.t("auth.field.username")))
	}
	p.raw(`<button type="submit">%s</button></form>`, esc(title))
	p.button("/auth/mode", toggle)
}

func (p *printer) uploadModal(snap client.Snapshot) {
	p.raw(`<h2>%s</h2><form method="post" action="/upload" enctype="multipart/form-data" data-busy="%s" onsubmit="var b=this.querySelector('button');b.disabled=true;b.textContent=this.dataset.busy">`,
		esc(p.t("upload.title")), esc(p.t("upload.busy")))
	pending := snap.PendingFile
	if pending == "" {
		pending = p.t("upload.no_file")
	}
	p.raw(`<label>%s<input type="file" name="file" accept="video/*,image/*"></label><p class="meta">%s</p>`, esc(p.t("upload.field.file")), esc(pending))
	p.raw(`<label>%s<input type="text" name="title" required maxlength="120"></label>`, esc(p.t("upload.field.title")))
	p.raw(`<label>%s<textarea name="description" maxlength="1000"></textarea></label>`, esc(p.t("upload.field.description")))
	p.raw(`<button type="submit">%s</button></form>`, esc(p.t("upload.submit")))
	p.button("/overlays/upload/close", p.t("common.close"))
}

func (p *printer) mediaModal(item *models.MediaItem) {
	if item != nil {
		p.raw(`<video src="%s" controls autoplay></video><h2>%s</h2>`, safeURL(item.MediaURL), esc(item.Title))
	}
	p.button("/media/close", p.t("common.close"))
}

func (p *printer) profileModal(profile *models.User, identity models.Identity) {
	p.raw(`<h2>%s</h2>`, esc(p.t("profile.title")))
	if profile != nil {
		avatar := ""
		if profile.AvatarURL != nil {
			avatar = *profile.AvatarURL
		}
		initial := "U"
		if profile.Username != "" {
			initial = string([]rune(profile.Username)[:1])
		}
		p.avatar(avatar, initial)
		p.raw(`<h3>%s</h3><p>%s</p><p class="meta">%s</p>`, esc(profile.Username), esc(profile.Email), esc(p.n("profile.count", profile.VideoCount)))
	} else {
		p.raw(`<p>%s</p>`, esc(identity.Email))
	}
	p.raw(`<form method="post" action="/profile/avatar" enctype="multipart/form-data">`)
	p.raw(`<label>%s<input type="file" name="avatar" accept="image/*" required></label>`, esc(p.t("profile.avatar")))
	p.raw(`<button type="submit">%s</button></form>`, esc(p.t("profile.avatar")))
	p.button("/overlays/profile/close", p.t("common.close"))
}

func (p *printer) button(action, label string) {
	p.raw(`<form method="post" action="%s" class="inline"><button type="submit">%s</button></form>`, esc(action), esc(label))
}

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;background:#0f0f12;color:#eee}
header{display:flex;justify-content:space-between;align-items:center;padding:1rem 2rem}
main{display:grid;grid-template-columns:1fr 280px;gap:1.5rem;padding:0 2rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:1rem}
.card{background:#1b1b22;border-radius:12px;padding:1rem}
.card video{width:100%;border-radius:8px}
.meta{color:#999;font-size:.85rem}
.avatar{display:inline-flex;width:32px;height:32px;border-radius:50%;background:#444;align-items:center;justify-content:center;object-fit:cover}
.sidebar{position:fixed;top:0;right:0;width:360px;height:100%;background:#16161c;padding:1rem;overflow:auto}
.overlay{position:fixed;inset:0;display:flex;align-items:center;justify-content:center}
.backdrop{position:absolute;inset:0}.backdrop button{width:100%;height:100%;background:rgba(0,0,0,.6);border:0}
.modal{position:relative;background:#1b1b22;border-radius:12px;padding:1.5rem;min-width:320px;max-width:90vw}
.modal video{max-width:80vw;max-height:70vh}
form.inline{display:inline}
.notice{padding:.5rem 2rem;margin:0}.notice-error{background:#5a1d1d}.notice-info{background:#1d4a2a}`

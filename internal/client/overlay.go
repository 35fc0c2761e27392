package client

// Overlay names the primary modal slot. At most one is open at a time.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayAuth
	OverlayUpload
	OverlayMedia
	OverlayProfile
)

var overlayNames = map[Overlay]string{
	OverlayNone:    "none",
	OverlayAuth:    "auth",
	OverlayUpload:  "upload",
	OverlayMedia:   "media",
	OverlayProfile: "profile",
}

func (o Overlay) String() string {
	if name, ok := overlayNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOverlay maps a name produced by String back to its Overlay.
func ParseOverlay(name string) (Overlay, bool) {
	for o, n := range overlayNames {
		if n == name {
			return o, true
		}
	}
	return OverlayNone, false
}

// OverlayHooks run when an overlay closes, whichever way it was closed.
type OverlayHooks struct {
	UploadClosed  func()
	MediaClosed   func()
	SidebarClosed func()
}

// Overlays tracks the primary modal and the comments sidebar. The full media
// modal and the sidebar never show at the same time.
type Overlays struct {
	primary Overlay
	sidebar bool
	hooks   OverlayHooks
}

// NewOverlays returns a controller with nothing open.
func NewOverlays(hooks OverlayHooks) *Overlays {
	return &Overlays{hooks: hooks}
}

// Primary returns the open modal, OverlayNone when there is none.
func (o *Overlays) Primary() Overlay {
	return o.primary
}

// SidebarOpen reports whether the comments sidebar is showing.
func (o *Overlays) SidebarOpen() bool {
	return o.sidebar
}

// Open shows overlay, closing whatever modal was open before.
func (o *Overlays) Open(overlay Overlay) {
	if overlay == OverlayNone {
		o.Close(o.primary)
		return
	}
	if o.primary != overlay {
		o.Close(o.primary)
	}
	if overlay == OverlayMedia {
		o.CloseSidebar()
	}
	o.primary = overlay
}

// Close hides overlay if it is the open one. Closing anything else is a no-op.
func (o *Overlays) Close(overlay Overlay) {
	if overlay == OverlayNone || o.primary != overlay {
		return
	}
	o.primary = OverlayNone
	switch overlay {
	case OverlayUpload:
		run(o.hooks.UploadClosed)
	case OverlayMedia:
		run(o.hooks.MediaClosed)
	}
}

// ClickOutside closes the open modal, as a click on its backdrop does.
func (o *Overlays) ClickOutside() {
	o.Close(o.primary)
}

// OpenSidebar shows the comments sidebar, closing the full media modal.
func (o *Overlays) OpenSidebar() {
	o.Close(OverlayMedia)
	o.sidebar = true
}

// CloseSidebar hides the comments sidebar.
func (o *Overlays) CloseSidebar() {
	if !o.sidebar {
		return
	}
	o.sidebar = false
	run(o.hooks.SidebarClosed)
}

// Reset closes everything.
func (o *Overlays) Reset() {
	o.Close(o.primary)
	o.CloseSidebar()
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}

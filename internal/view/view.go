// Package view is the presentation-neutral element tree that renderers write
// into and page templates read from.
package view

// Kind names what an element represents.
type Kind string

const (
	KindUploadCard  Kind = "upload-card"
	KindVideoCard   Kind = "video-card"
	KindUserCard    Kind = "user-card"
	KindComment     Kind = "comment"
	KindPlaceholder Kind = "placeholder"
)

// Action is a user gesture bound to one record.
type Action struct {
	Name   string
	Target string
}

// Action names bound by renderers.
const (
	ActionOpenComments = "comments.open"
	ActionPlayMedia    = "media.play"
	ActionOpenUpload   = "upload.open"
)

// Element is one displayed item.
type Element struct {
	Kind      Kind
	Key       string
	Title     string
	Subtitle  string
	Meta      string
	Body      string
	MediaURL  string
	AvatarURL string
	Initial   string
	Badge     string
	OnOpen    *Action
	OnPlay    *Action
}

// Container is a target a renderer replaces wholesale.
type Container interface {
	// Reset drops every child except the fixed ones.
	Reset()
	Append(Element)
	Children() []Element
}

// List is the in-memory Container. Fixed elements always come first and
// survive Reset.
type List struct {
	fixed []Element
	items []Element
}

// NewList returns a List whose fixed prefix is the given elements.
func NewList(fixed ...Element) *List {
	return &List{fixed: append([]Element(nil), fixed...)}
}

// Reset implements Container.
func (l *List) Reset() {
	l.items = nil
}

// Append implements Container.
func (l *List) Append(e Element) {
	l.items = append(l.items, e)
}

// Children returns a copy of the fixed elements followed by the rendered ones.
func (l *List) Children() []Element {
	out := make([]Element, 0, len(l.fixed)+len(l.items))
	out = append(out, l.fixed...)
	return append(out, l.items...)
}

// Items returns a copy of the rendered elements only.
func (l *List) Items() []Element {
	return append([]Element(nil), l.items...)
}

// Package component is the lifecycle and event base every UI unit builds on.
//
// A component owns one root element of a dom.Document, the listeners it
// registered through Listen/On, and a per-instance emitter. Kinds opt into
// lifecycle hooks by implementing the capability interfaces below; Base calls
// them through the owner passed to Init and Destroy.
package component

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/schedule"
)

// Context is the shared environment handed to every constructor.
type Context struct {
	Doc   *dom.Document
	Log   *zap.Logger
	Sched schedule.Scheduler
	// Post runs fn later on the loop that owns Doc. Work started off the
	// loop, such as a network fetch, continues through Post.
	Post func(fn func())
}

// Logger returns the context logger, or a no-op logger.
func (c *Context) Logger() *zap.Logger {
	if c == nil || c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// EventBinder attaches listeners during Init.
type EventBinder interface {
	BindEvents()
}

// Initializer runs after BindEvents, once the component is marked initialized.
type Initializer interface {
	OnInit()
}

// Destroyer runs first during Destroy.
type Destroyer interface {
	OnDestroy()
}

// OptionsUpdater runs after options were merged by UpdateOptions.
type OptionsUpdater interface {
	OnOptionsUpdate()
}

// Option overrides one field of a kind's settings.
type Option[S any] func(*S)

// Apply merges opts onto defaults. Later options win.
func Apply[S any](defaults S, opts ...Option[S]) S {
	for _, opt := range opts {
		if opt != nil {
			opt(&defaults)
		}
	}
	return defaults
}

// Base carries the state shared by all components.
type Base struct {
	ctx *Context
	el  *html.Node

	owner           any
	listeners       []dom.ListenerID
	emitter         Emitter
	initialized     bool
	removeOnDestroy bool
}

// NewBase binds a component to el. A nil el yields a detached component whose
// helpers do nothing.
func NewBase(ctx *Context, el *html.Node) Base {
	return Base{ctx: ctx, el: el}
}

// NewBaseSelector binds to the first element matching sel, if any.
func NewBaseSelector(ctx *Context, sel string) Base {
	return NewBase(ctx, ctx.Doc.Query(sel))
}

// Init runs the lifecycle: BindEvents, initialized = true, OnInit. owner is
// the outer component; it is reported as the source of emitted events. Init
// does nothing when there is no element.
func (b *Base) Init(owner any) {
	if b.el == nil {
		return
	}
	b.owner = owner
	if binder, ok := owner.(EventBinder); ok {
		binder.BindEvents()
	}
	b.initialized = true
	if init, ok := owner.(Initializer); ok {
		init.OnInit()
	}
}

// Destroy runs OnDestroy, removes every tracked listener, detaches the element
// when configured to, and clears the initialized flag. A second call is a
// no-op.
func (b *Base) Destroy() {
	if !b.initialized {
		b.releaseListeners()
		return
	}
	if d, ok := b.owner.(Destroyer); ok {
		d.OnDestroy()
	}
	b.releaseListeners()
	if b.removeOnDestroy {
		dom.Remove(b.el)
	}
	b.initialized = false
}

func (b *Base) releaseListeners() {
	for _, id := range b.listeners {
		b.ctx.Doc.RemoveEventListener(id)
	}
	b.listeners = nil
}

// NotifyOptionsUpdate calls the owner's OnOptionsUpdate hook. Kinds call it
// after merging new settings.
func (b *Base) NotifyOptionsUpdate() {
	if u, ok := b.owner.(OptionsUpdater); ok {
		u.OnOptionsUpdate()
	}
}

// SetRemoveOnDestroy controls whether Destroy detaches the root element.
func (b *Base) SetRemoveOnDestroy(remove bool) { b.removeOnDestroy = remove }

// Initialized reports whether Init ran and Destroy has not.
func (b *Base) Initialized() bool { return b.initialized }

// Element is the root element, possibly nil.
func (b *Base) Element() *html.Node { return b.el }

// Ctx returns the shared context.
func (b *Base) Ctx() *Context { return b.ctx }

// Doc is shorthand for Ctx().Doc.
func (b *Base) Doc() *dom.Document { return b.ctx.Doc }

// Log is shorthand for Ctx().Logger().
func (b *Base) Log() *zap.Logger { return b.ctx.Logger() }

// Listen registers h on target and tracks it for Destroy. A nil target is
// ignored.
func (b *Base) Listen(target *html.Node, typ string, h dom.Handler) dom.ListenerID {
	id := b.ctx.Doc.AddEventListener(target, typ, h)
	if id != 0 {
		b.listeners = append(b.listeners, id)
	}
	return id
}

// ListenSelector registers h on the first element matching sel.
func (b *Base) ListenSelector(sel string, typ string, h dom.Handler) dom.ListenerID {
	return b.Listen(b.ctx.Doc.Query(sel), typ, h)
}

// On registers h on the root element.
func (b *Base) On(typ string, h dom.Handler) dom.ListenerID {
	return b.Listen(b.el, typ, h)
}

// Unlisten removes tracked listeners by id.
func (b *Base) Unlisten(ids ...dom.ListenerID) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[dom.ListenerID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		b.ctx.Doc.RemoveEventListener(id)
	}
	kept := b.listeners[:0]
	for _, id := range b.listeners {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	b.listeners = kept
}

// ListenerCount reports how many tracked listeners are live.
func (b *Base) ListenerCount() int { return len(b.listeners) }

// Subscribe registers fn for events named name emitted by this component.
func (b *Base) Subscribe(name string, fn func(Event)) (unsubscribe func()) {
	return b.emitter.On(name, fn)
}

// Emit delivers an event to this component's subscribers. The owner passed to
// Init is reported as the source.
func (b *Base) Emit(name string, detail any) {
	source := b.owner
	if source == nil {
		source = b
	}
	b.emitter.Emit(Event{Name: name, Component: source, Detail: detail})
}

// Find returns the first descendant of the root matching sel.
func (b *Base) Find(sel string) *html.Node { return dom.QueryIn(b.el, sel) }

// FindAll returns every descendant of the root matching sel.
func (b *Base) FindAll(sel string) []*html.Node { return dom.QueryAllIn(b.el, sel) }

// AddClass adds c to the root.
func (b *Base) AddClass(c string) *Base {
	dom.AddClass(b.el, c)
	return b
}

// RemoveClass removes c from the root.
func (b *Base) RemoveClass(c string) *Base {
	dom.RemoveClass(b.el, c)
	return b
}

// ToggleClass flips c on the root.
func (b *Base) ToggleClass(c string) *Base {
	dom.ToggleClass(b.el, c)
	return b
}

// HasClass reports whether the root carries c.
func (b *Base) HasClass(c string) bool { return dom.HasClass(b.el, c) }

// SetAttr sets an attribute on the root.
func (b *Base) SetAttr(name, value string) *Base {
	dom.SetAttr(b.el, name, value)
	return b
}

// Attr reads an attribute from the root.
func (b *Base) Attr(name string) (string, bool) { return dom.Attr(b.el, name) }

// Show clears the inline display and the hidden class.
func (b *Base) Show() *Base {
	dom.SetStyle(b.el, "display", "")
	return b.RemoveClass("hidden")
}

// Hide adds the hidden class.
func (b *Base) Hide() *Base {
	return b.AddClass("hidden")
}

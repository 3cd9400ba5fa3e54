package dom

import (
	"golang.org/x/net/html"
)

// Event types dispatched by the document itself.
const (
	Click      = "click"
	KeyDown    = "keydown"
	Input      = "input"
	MouseEnter = "mouseenter"
	MouseLeave = "mouseleave"
	Focus      = "focus"
	Scroll     = "scroll"
	Resize     = "resize"
	Change     = "change"
)

// Modifiers are the keyboard modifier flags carried by key events.
type Modifiers struct {
	Alt   bool
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Event is a dispatched DOM event.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	Bubbles       bool

	Key string
	Modifiers
	Value   string
	Matches bool
	Detail  any

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Handler receives dispatched events.
type Handler func(*Event)

// ListenerID identifies one registration so it can be removed.
type ListenerID uint64

type listener struct {
	id      ListenerID
	target  *html.Node
	typ     string
	handler Handler
	removed bool
}

// AddEventListener registers h for typ on target. A nil target registers
// nothing and returns 0.
func (d *Document) AddEventListener(target *html.Node, typ string, h Handler) ListenerID {
	if target == nil || h == nil {
		return 0
	}
	d.nextID++
	l := &listener{id: d.nextID, target: target, typ: typ, handler: h}
	d.listeners[target] = append(d.listeners[target], l)
	d.byID[l.id] = l
	return l.id
}

// RemoveEventListener drops a registration. Unknown ids are ignored.
func (d *Document) RemoveEventListener(id ListenerID) {
	l, ok := d.byID[id]
	if !ok {
		return
	}
	delete(d.byID, id)
	l.removed = true
	list := d.listeners[l.target]
	for i, have := range list {
		if have == l {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(d.listeners, l.target)
	} else {
		d.listeners[l.target] = list
	}
}

// ListenerCount returns the number of live listeners on target.
func (d *Document) ListenerCount(target *html.Node) int {
	return len(d.listeners[target])
}

// Dispatch delivers e at target and, when it bubbles, at every ancestor and
// then the window. Listeners run in registration order per target. It reports
// whether the default action is still allowed.
func (d *Document) Dispatch(target *html.Node, e *Event) bool {
	if target == nil {
		return true
	}
	e.Target = target
	path := []*html.Node{target}
	if e.Bubbles && target != d.window {
		for p := target.Parent; p != nil; p = p.Parent {
			path = append(path, p)
		}
		if d.Contains(target) {
			path = append(path, d.window)
		}
	}
	for _, node := range path {
		e.CurrentTarget = node
		for _, l := range append([]*listener(nil), d.listeners[node]...) {
			if l.removed || l.typ != e.Type {
				continue
			}
			l.handler(e)
		}
		if e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}

// Click dispatches a click at n and performs the anchor default action.
func (d *Document) Click(n *html.Node) bool {
	e := &Event{Type: Click, Bubbles: true}
	if !d.Dispatch(n, e) {
		return false
	}
	if a := Closest(n, "a[href]"); a != nil {
		href, _ := Attr(a, "href")
		d.Navigate(Navigation{URL: href, Target: AttrOr(a, "target", "")})
	}
	return true
}

// KeyDown dispatches a keydown at n, or at the document when n is nil.
func (d *Document) KeyDown(n *html.Node, key string, mods Modifiers) bool {
	if n == nil {
		n = d.root
	}
	return d.Dispatch(n, &Event{Type: KeyDown, Bubbles: true, Key: key, Modifiers: mods})
}

// SetValue writes the value attribute of n and dispatches an input event.
func (d *Document) SetValue(n *html.Node, value string) {
	if n == nil {
		return
	}
	SetAttr(n, "value", value)
	d.Dispatch(n, &Event{Type: Input, Bubbles: true, Value: value})
}

// Hover dispatches mouseenter or mouseleave, which do not bubble.
func (d *Document) Hover(n *html.Node, enter bool) {
	typ := MouseLeave
	if enter {
		typ = MouseEnter
	}
	d.Dispatch(n, &Event{Type: typ})
}

// FocusOn records n as focused and dispatches focus.
func (d *Document) FocusOn(n *html.Node) {
	if n == nil {
		return
	}
	d.focused = n
	d.Dispatch(n, &Event{Type: Focus})
}

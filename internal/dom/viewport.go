package dom

import (
	"strconv"

	"golang.org/x/net/html"
)

// Rect is the vertical extent of an element in document coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Bottom is Top + Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Layout answers geometry questions for elements.
type Layout interface {
	Box(n *html.Node) (Rect, bool)
}

// AttrLayout reads data-top and data-height from the element or its nearest
// ancestor that carries them. Clients report section geometry this way.
type AttrLayout struct{}

// Box implements Layout.
func (AttrLayout) Box(n *html.Node) (Rect, bool) {
	for p := n; p != nil; p = p.Parent {
		top, okTop := Attr(p, "data-top")
		height, okHeight := Attr(p, "data-height")
		if !okTop || !okHeight {
			continue
		}
		t, err1 := strconv.ParseFloat(top, 64)
		h, err2 := strconv.ParseFloat(height, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		return Rect{Top: t, Height: h}, true
	}
	return Rect{}, false
}

// SetBox records geometry on n in the form AttrLayout reads.
func SetBox(n *html.Node, r Rect) {
	SetAttr(n, "data-top", strconv.FormatFloat(r.Top, 'f', -1, 64))
	SetAttr(n, "data-height", strconv.FormatFloat(r.Height, 'f', -1, 64))
}

// SetLayout replaces the geometry source.
func (d *Document) SetLayout(l Layout) { d.layout = l }

// Box returns the geometry of n under the current layout.
func (d *Document) Box(n *html.Node) (Rect, bool) {
	if n == nil {
		return Rect{}, false
	}
	return d.layout.Box(n)
}

// ScrollY is the current vertical scroll offset.
func (d *Document) ScrollY() float64 { return d.scrollY }

// ViewportHeight is the visible height.
func (d *Document) ViewportHeight() float64 { return d.viewHeight }

// ViewportWidth is the visible width.
func (d *Document) ViewportWidth() float64 { return d.viewWidth }

// ScrollTo moves the viewport, dispatches scroll on the window and schedules
// observer checks.
func (d *Document) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	d.scrollY = y
	d.Dispatch(d.window, &Event{Type: Scroll})
	d.scheduleChecks()
}

// SetViewport resizes the viewport, dispatches resize and schedules observer
// checks.
func (d *Document) SetViewport(width, height float64) {
	d.viewWidth, d.viewHeight = width, height
	d.Dispatch(d.window, &Event{Type: Resize})
	d.scheduleChecks()
}

// PrefersDark reports the current prefers-color-scheme: dark match.
func (d *Document) PrefersDark() bool { return d.prefersDark }

// SetPrefersDark updates the media state and dispatches change when it flips.
func (d *Document) SetPrefersDark(dark bool) {
	if d.prefersDark == dark {
		return
	}
	d.prefersDark = dark
	d.Dispatch(d.scheme, &Event{Type: Change, Matches: dark})
}

// Defer queues fn to run on the next Flush.
func (d *Document) Defer(fn func()) {
	d.tasks = append(d.tasks, fn)
}

// Flush runs queued work, including work queued while flushing.
func (d *Document) Flush() {
	for i := 0; len(d.tasks) > 0 && i < 10000; i++ {
		fn := d.tasks[0]
		d.tasks = d.tasks[1:]
		fn()
	}
}

// Pending reports the number of queued tasks.
func (d *Document) Pending() int { return len(d.tasks) }

func (d *Document) scheduleChecks() {
	for _, o := range d.observers {
		if len(o.targets) > 0 {
			o.scheduleCheck()
		}
	}
}

// Entry is one intersection observation.
type Entry struct {
	Target         *html.Node
	IsIntersecting bool
	Ratio          float64
}

// ObserverOptions configure an intersection observer. MarginBottom grows
// (positive) or shrinks (negative) the bottom edge of the viewport.
type ObserverOptions struct {
	Threshold    float64
	MarginBottom float64
}

// Observer reports visibility changes of its targets against the viewport.
type Observer struct {
	doc       *Document
	opts      ObserverOptions
	callback  func([]Entry, *Observer)
	targets   []*html.Node
	last      map[*html.Node]bool
	fresh     map[*html.Node]bool
	queued    bool
	connected bool
}

// NewIntersectionObserver creates an observer whose callback runs on Flush.
func (d *Document) NewIntersectionObserver(opts ObserverOptions, cb func([]Entry, *Observer)) *Observer {
	o := &Observer{
		doc:       d,
		opts:      opts,
		callback:  cb,
		last:      make(map[*html.Node]bool),
		fresh:     make(map[*html.Node]bool),
		connected: true,
	}
	d.observers = append(d.observers, o)
	return o
}

// Observe starts watching n. The first check always reports n.
func (o *Observer) Observe(n *html.Node) {
	if n == nil || !o.connected {
		return
	}
	for _, t := range o.targets {
		if t == n {
			return
		}
	}
	o.targets = append(o.targets, n)
	o.fresh[n] = true
	o.scheduleCheck()
}

// Unobserve stops watching n.
func (o *Observer) Unobserve(n *html.Node) {
	for i, t := range o.targets {
		if t == n {
			o.targets = append(o.targets[:i:i], o.targets[i+1:]...)
			break
		}
	}
	delete(o.last, n)
	delete(o.fresh, n)
}

// Disconnect stops watching everything and detaches from the document.
func (o *Observer) Disconnect() {
	o.targets = nil
	o.last = make(map[*html.Node]bool)
	o.fresh = make(map[*html.Node]bool)
	o.connected = false
	obs := o.doc.observers
	for i, have := range obs {
		if have == o {
			o.doc.observers = append(obs[:i:i], obs[i+1:]...)
			break
		}
	}
}

// Observed reports the number of watched targets.
func (o *Observer) Observed() int { return len(o.targets) }

func (o *Observer) scheduleCheck() {
	if o.queued {
		return
	}
	o.queued = true
	o.doc.Defer(o.check)
}

func (o *Observer) check() {
	o.queued = false
	if !o.connected {
		return
	}
	var entries []Entry
	for _, t := range append([]*html.Node(nil), o.targets...) {
		ratio := o.ratio(t)
		inside := ratio > 0 && ratio >= o.opts.Threshold
		was, seen := o.last[t]
		if o.fresh[t] || !seen || was != inside {
			entries = append(entries, Entry{Target: t, IsIntersecting: inside, Ratio: ratio})
		}
		o.last[t] = inside
		delete(o.fresh, t)
	}
	if len(entries) > 0 && o.callback != nil {
		o.callback(entries, o)
	}
}

func (o *Observer) ratio(n *html.Node) float64 {
	if !o.doc.Contains(n) {
		return 0
	}
	box, ok := o.doc.Box(n)
	if !ok {
		return 0
	}
	top := o.doc.scrollY
	bottom := top + o.doc.viewHeight + o.opts.MarginBottom
	lo := max(box.Top, top)
	hi := min(box.Bottom(), bottom)
	if box.Height <= 0 {
		if box.Top >= top && box.Top < bottom {
			return 1
		}
		return 0
	}
	if hi <= lo {
		return 0
	}
	return (hi - lo) / box.Height
}

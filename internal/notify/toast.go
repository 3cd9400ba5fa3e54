// Package notify shows transient toast messages on the page.
package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/schedule"
)

// Level is the severity of a toast.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Error   Level = "error"
)

// Toast timings.
const (
	EnterDelay = 50 * time.Millisecond
	Dwell      = 4000 * time.Millisecond
	ExitDelay  = 300 * time.Millisecond
)

type palette struct{ background, text string }

var palettes = map[Level]palette{
	Success: {"#23bb7d", "#060709"},
	Error:   {"#c93200", "#dadee5"},
	Info:    {"#1f2227", "#dadee5"},
}

const toastStyle = "position: fixed; top: 60px; right: 20px; padding: 0.75rem 1.25rem; " +
	"border-radius: 0.375rem; color: %s; font-weight: 600; z-index: 10000; max-width: 360px; " +
	"font-family: 'JetBrains Mono', monospace; font-size: 0.8rem; background: %s; " +
	"border: 1px solid #1f2227; transform: translateX(100%%); transition: transform 0.3s ease;"

// Toaster appends toasts to the document body and removes them after they
// have been shown.
type Toaster struct {
	ctx     *component.Context
	pending map[*html.Node][]schedule.Cancel
}

// New returns a toaster for the context's document.
func New(ctx *component.Context) *Toaster {
	return &Toaster{ctx: ctx, pending: make(map[*html.Node][]schedule.Cancel)}
}

// Show displays message. Unknown levels render as info. It returns the toast
// element, or nil when the document has no body.
func (t *Toaster) Show(message string, level Level) *html.Node {
	body := t.ctx.Doc.Body()
	if body == nil {
		return nil
	}
	p, ok := palettes[level]
	if !ok {
		level, p = Info, palettes[Info]
	}

	el := t.ctx.Doc.CreateElement("div")
	dom.SetClassName(el, "toast toast-"+string(level))
	dom.SetAttr(el, "role", "status")
	dom.SetAttr(el, "style", fmt.Sprintf(toastStyle, p.text, p.background))
	dom.SetTextContent(el, message)
	dom.AppendChild(body, el)
	t.ctx.Logger().Debug("toast shown", zap.String("level", string(level)), zap.String("message", message))

	sched := t.ctx.Sched
	enter := sched.After(EnterDelay, func() { dom.SetStyle(el, "transform", "translateX(0)") })
	exit := sched.After(Dwell, func() {
		dom.SetStyle(el, "transform", "translateX(100%)")
		t.pending[el] = append(t.pending[el], sched.After(ExitDelay, func() { t.remove(el) }))
	})
	t.pending[el] = []schedule.Cancel{enter, exit}
	return el
}

func (t *Toaster) remove(el *html.Node) {
	delete(t.pending, el)
	if t.ctx.Doc.Contains(el) {
		dom.Remove(el)
	}
}

// Active reports the number of toasts still on the page.
func (t *Toaster) Active() int { return len(t.pending) }

// Clear removes every toast and cancels their timers.
func (t *Toaster) Clear() {
	for el, cancels := range t.pending {
		for _, cancel := range cancels {
			cancel()
		}
		t.remove(el)
	}
}

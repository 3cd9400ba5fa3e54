package app

import (
	"time"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/schedule"
)

// TyperOptions configure Typer.
type TyperOptions struct {
	Roles  []string
	Type   time.Duration
	Delete time.Duration
	// Hold is how long a fully typed role stays before deletion starts.
	Hold time.Duration
	// Next is the pause between deleting one role and typing the next.
	Next time.Duration
	// Animate off renders the first role and stops.
	Animate bool
}

// DefaultTyperOptions are the hero defaults.
func DefaultTyperOptions() TyperOptions {
	return TyperOptions{
		Type:    80 * time.Millisecond,
		Delete:  45 * time.Millisecond,
		Hold:    1800 * time.Millisecond,
		Next:    400 * time.Millisecond,
		Animate: true,
	}
}

// Typer cycles the hero roles through a typing animation.
type Typer struct {
	component.Base

	opts     TyperOptions
	role     int
	shown    int
	deleting bool
	cancel   schedule.Cancel
}

// NewTyper binds the element with id typed-role.
func NewTyper(ctx *component.Context, opts ...component.Option[TyperOptions]) *Typer {
	t := &Typer{
		Base: component.NewBase(ctx, ctx.Doc.ByID("typed-role")),
		opts: component.Apply(DefaultTyperOptions(), opts...),
	}
	t.Init(t)
	return t
}

// OnInit starts the animation.
func (t *Typer) OnInit() {
	if len(t.opts.Roles) == 0 {
		return
	}
	if !t.opts.Animate {
		dom.SetTextContent(t.Element(), t.opts.Roles[0])
		return
	}
	t.tick()
}

// Text is the currently visible text.
func (t *Typer) Text() string { return dom.TextContent(t.Element()) }

func (t *Typer) tick() {
	role := []rune(t.opts.Roles[t.role])
	if len(role) == 0 {
		t.role = (t.role + 1) % len(t.opts.Roles)
		t.cancel = t.Ctx().Sched.After(t.opts.Next, t.tick)
		return
	}
	if t.deleting {
		t.shown--
	} else {
		t.shown++
	}
	dom.SetTextContent(t.Element(), string(role[:t.shown]))

	delay := t.opts.Type
	switch {
	case t.deleting && t.shown == 0:
		t.deleting = false
		t.role = (t.role + 1) % len(t.opts.Roles)
		delay = t.opts.Next
	case t.deleting:
		delay = t.opts.Delete
	case t.shown == len(role):
		t.deleting = true
		delay = t.opts.Hold
	}
	t.cancel = t.Ctx().Sched.After(delay, t.tick)
}

// OnDestroy stops the animation.
func (t *Typer) OnDestroy() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

package section

import (
	"time"

	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/schedule"
)

// AnimatorOptions tune the scroll entrance animation.
type AnimatorOptions struct {
	// Delay before elements are prepared and observed.
	Delay time.Duration
	// Step is the per-entry stagger inside one observer delivery.
	Step         time.Duration
	Threshold    float64
	MarginBottom float64
	// Prepare is added when observation starts; Class when the element
	// first intersects.
	Prepare string
	Class   string
}

// DefaultAnimatorOptions are the card grid settings with the given stagger.
func DefaultAnimatorOptions(step time.Duration) AnimatorOptions {
	return AnimatorOptions{
		Delay:        100 * time.Millisecond,
		Step:         step,
		Threshold:    0.1,
		MarginBottom: -50,
		Prepare:      "fade-in",
		Class:        "animate-in",
	}
}

// Animator applies an entrance class to elements the first time they scroll
// into view.
type Animator struct {
	ctx  *component.Context
	opts AnimatorOptions

	obs     *dom.Observer
	pending []schedule.Cancel
}

// NewAnimator returns an idle animator.
func NewAnimator(ctx *component.Context, opts AnimatorOptions) *Animator {
	return &Animator{ctx: ctx, opts: opts}
}

// Watch replaces the watched set with els.
func (a *Animator) Watch(els []*html.Node) {
	a.Stop()
	a.obs = a.ctx.Doc.NewIntersectionObserver(dom.ObserverOptions{
		Threshold:    a.opts.Threshold,
		MarginBottom: a.opts.MarginBottom,
	}, a.deliver)
	obs := a.obs
	start := func() {
		for _, el := range els {
			if el == nil {
				continue
			}
			dom.AddClass(el, a.opts.Prepare)
			obs.Observe(el)
		}
	}
	if a.opts.Delay <= 0 {
		start()
		return
	}
	a.pending = append(a.pending, a.ctx.Sched.After(a.opts.Delay, start))
}

func (a *Animator) deliver(entries []dom.Entry, obs *dom.Observer) {
	stagger := schedule.Stagger{S: a.ctx.Sched, Step: a.opts.Step}
	i := 0
	for _, entry := range entries {
		if !entry.IsIntersecting {
			continue
		}
		el := entry.Target
		obs.Unobserve(el)
		a.pending = append(a.pending, stagger.Run(i, func() { dom.AddClass(el, a.opts.Class) }))
		i++
	}
}

// Stop cancels scheduled work and disconnects the observer.
func (a *Animator) Stop() {
	for _, cancel := range a.pending {
		cancel()
	}
	a.pending = nil
	if a.obs != nil {
		a.obs.Disconnect()
		a.obs = nil
	}
}

package section

import (
	"time"

	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
)

// EngagementsOptions configure the appearances and speaking sections.
type EngagementsOptions struct {
	GridSelector    string
	Engagements     []content.Engagement
	AnimateOnScroll bool
	// GroupByType renders a header before each category run.
	GroupByType bool
}

// Engagements renders appearances or speaking engagements.
type Engagements struct {
	*Grid[content.Engagement]
	prefix string
}

// NewAppearances builds the appearances section.
func NewAppearances(ctx *component.Context, root *html.Node, opts ...component.Option[EngagementsOptions]) *Engagements {
	return newEngagements(ctx, root, "appearances", func(s *content.Site) []content.Engagement { return s.Appearances }, opts)
}

// NewSpeaking builds the speaking section.
func NewSpeaking(ctx *component.Context, root *html.Node, opts ...component.Option[EngagementsOptions]) *Engagements {
	return newEngagements(ctx, root, "speaking", func(s *content.Site) []content.Engagement { return s.Speaking }, opts)
}

func newEngagements(ctx *component.Context, root *html.Node, prefix string, fallback func(*content.Site) []content.Engagement, opts []component.Option[EngagementsOptions]) *Engagements {
	o := component.Apply(EngagementsOptions{GridSelector: "." + prefix + "-grid", AnimateOnScroll: true}, opts...)
	items := o.Engagements
	if len(items) == 0 {
		items = fallback(fallbackSite())
	}
	cfg := gridConfig[content.Engagement]{
		noun:   "engagement",
		plural: "engagements",
		kind:   card.Engagement(prefix),
		// Only a single link makes the whole card a hit target.
		cardOptions: func(e content.Engagement) []card.Option {
			return []card.Option{card.WithClickable(e.Link != nil)}
		},
		headerClass: prefix + "-group-header",
	}
	if o.GroupByType {
		cfg.groupBy = func(e content.Engagement) string { return e.Category }
	}
	e := &Engagements{Grid: newGrid(ctx, root, o.GridSelector, items, cfg), prefix: prefix}
	if o.AnimateOnScroll {
		e.animate(NewAnimator(ctx, DefaultAnimatorOptions(150*time.Millisecond)))
	}
	e.Init(e)
	return e
}

// Prefix is the class namespace, "appearances" or "speaking".
func (e *Engagements) Prefix() string { return e.prefix }

// BindEvents installs the default handlers. The card already follows its
// primary link, so they only log.
func (e *Engagements) BindEvents() {
	e.Subscribe(e.names.click, logItem[content.Engagement](e.Log(), e.prefix+" engagement clicked"))
	e.Subscribe(e.names.linkClick, logItem[content.Engagement](e.Log(), e.prefix+" engagement link clicked"))
}

// OnInit renders the grid.
func (e *Engagements) OnInit() { e.Render() }

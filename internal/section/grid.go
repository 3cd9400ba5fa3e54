// Package section holds the page section controllers. A controller owns an
// ordered collection of records, renders one card per record into its grid,
// and re-emits card events under its own names with the record and index
// attached.
//
// The collection is authoritative. Cards render snapshots of it, so every
// change goes through the controller and ends in a full re-render.
package section

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
)

// ItemDetail is the payload of every per-record section event.
type ItemDetail[T any] struct {
	Item  T
	Index int
	// Href is set for link clicks.
	Href string
	// Event is the originating DOM event for clicks.
	Event *dom.Event
}

// FilterDetail is the payload of the <plural>-filtered event.
type FilterDetail[T any] struct {
	Items []T
}

// names are the event names a grid emits, derived from a noun.
type names struct {
	click, linkClick, added, removed, updated, filtered string
}

func eventNames(noun, plural string) names {
	return names{
		click:     noun + "-click",
		linkClick: noun + "-link-click",
		added:     noun + "-added",
		removed:   noun + "-removed",
		updated:   noun + "-updated",
		filtered:  plural + "-filtered",
	}
}

// gridConfig is what a concrete controller supplies to Grid.
type gridConfig[T card.Record] struct {
	noun, plural string
	kind         card.Kind[T]
	// cardOptions returns per-record card settings.
	cardOptions func(T) []card.Option
	// groupBy, when set, inserts a header before each run of records sharing
	// a group key. Groups keep first-seen order.
	groupBy     func(T) string
	headerClass string
	// prepend makes Add insert at the front.
	prepend bool
}

// Grid is the shared collection controller behind Projects, Appearances,
// Speaking and the podcast episodes.
type Grid[T card.Record] struct {
	component.Base

	cfg      gridConfig[T]
	names    names
	grid     *html.Node
	items    []T
	cards    []*card.Card[T]
	animator *Animator
}

func newGrid[T card.Record](ctx *component.Context, root *html.Node, gridSelector string, items []T, cfg gridConfig[T]) *Grid[T] {
	g := &Grid[T]{
		Base:  component.NewBase(ctx, root),
		cfg:   cfg,
		names: eventNames(cfg.noun, cfg.plural),
		items: append([]T(nil), items...),
	}
	g.grid = g.Find(gridSelector)
	return g
}

// animate enables the scroll entrance animation for rendered cards.
func (g *Grid[T]) animate(a *Animator) { g.animator = a }

// Render rebuilds the grid from the collection.
func (g *Grid[T]) Render() {
	g.renderView(g.items)
}

func (g *Grid[T]) renderView(view []T) {
	if g.grid == nil {
		return
	}
	for _, c := range g.cards {
		c.Destroy()
	}
	g.cards = g.cards[:0]
	dom.RemoveChildren(g.grid)

	if g.cfg.groupBy != nil {
		for _, grp := range groupRecords(view, g.cfg.groupBy) {
			g.appendHeader(grp.key)
			for _, it := range grp.items {
				g.appendCard(it.rec, it.index)
			}
		}
	} else {
		for i, rec := range view {
			g.appendCard(rec, i)
		}
	}

	if g.animator != nil {
		els := make([]*html.Node, 0, len(g.cards))
		for _, c := range g.cards {
			els = append(els, c.Element())
		}
		g.animator.Watch(els)
	}
}

func (g *Grid[T]) appendCard(rec T, index int) {
	var opts []card.Option
	if g.cfg.cardOptions != nil {
		opts = g.cfg.cardOptions(rec)
	}
	c := card.New(g.Ctx(), g.grid, g.cfg.kind, rec, opts...)
	g.cards = append(g.cards, c)

	// Forwarding subscribes after construction, so card subscribers added by
	// the card itself always run first.
	c.Subscribe(card.EventClick, func(e component.Event) {
		d, _ := e.Detail.(card.ClickDetail[T])
		g.Emit(g.names.click, ItemDetail[T]{Item: rec, Index: index, Event: d.Event})
	})
	c.Subscribe(card.EventLinkClick, func(e component.Event) {
		d, _ := e.Detail.(card.LinkDetail[T])
		g.Emit(g.names.linkClick, ItemDetail[T]{Item: rec, Index: index, Href: d.Href, Event: d.Event})
	})
}

func (g *Grid[T]) appendHeader(key string) {
	h := g.Doc().CreateElement("h3")
	dom.SetClassName(h, g.cfg.headerClass)
	dom.SetTextContent(h, card.TitleCase(key))
	dom.AppendChild(g.grid, h)
}

type indexed[T any] struct {
	rec   T
	index int
}

type group[T any] struct {
	key   string
	items []indexed[T]
}

func groupRecords[T any](view []T, key func(T) string) []group[T] {
	var groups []group[T]
	at := map[string]int{}
	for i, rec := range view {
		k := strings.TrimSpace(key(rec))
		if k == "" {
			k = "other"
		}
		pos, ok := at[k]
		if !ok {
			pos = len(groups)
			at[k] = pos
			groups = append(groups, group[T]{key: k})
		}
		groups[pos].items = append(groups[pos].items, indexed[T]{rec: rec, index: i})
	}
	return groups
}

// Add inserts rec, re-renders and emits <noun>-added.
func (g *Grid[T]) Add(rec T) {
	index := len(g.items)
	if g.cfg.prepend {
		g.items = append([]T{rec}, g.items...)
		index = 0
	} else {
		g.items = append(g.items, rec)
	}
	g.Render()
	g.Emit(g.names.added, ItemDetail[T]{Item: rec, Index: index})
}

// Remove drops the record at i. Out of range indices do nothing.
func (g *Grid[T]) Remove(i int) {
	if i < 0 || i >= len(g.items) {
		return
	}
	removed := g.items[i]
	g.items = append(g.items[:i:i], g.items[i+1:]...)
	g.Render()
	g.Emit(g.names.removed, ItemDetail[T]{Item: removed, Index: i})
}

// Update edits the record at i in place, re-renders and emits
// <noun>-updated. Out of range indices do nothing.
func (g *Grid[T]) Update(i int, edit func(*T)) {
	if i < 0 || i >= len(g.items) {
		return
	}
	if edit != nil {
		edit(&g.items[i])
	}
	g.Render()
	g.Emit(g.names.updated, ItemDetail[T]{Item: g.items[i], Index: i})
}

// Filter renders only the records matching keep and emits <plural>-filtered.
// The collection itself is untouched; the next Render shows everything
// again.
func (g *Grid[T]) Filter(keep func(T) bool) {
	view := g.Where(keep)
	g.renderView(view)
	g.Emit(g.names.filtered, FilterDetail[T]{Items: view})
}

// Where returns the records matching keep without rendering.
func (g *Grid[T]) Where(keep func(T) bool) []T {
	var out []T
	for _, rec := range g.items {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// All returns a copy of the collection.
func (g *Grid[T]) All() []T {
	return append([]T(nil), g.items...)
}

// Len is the collection size.
func (g *Grid[T]) Len() int { return len(g.items) }

// Cards returns the cards of the current render.
func (g *Grid[T]) Cards() []*card.Card[T] {
	return append([]*card.Card[T](nil), g.cards...)
}

// ByCategory returns the records whose category equals category.
func (g *Grid[T]) ByCategory(category string) []T {
	return g.Where(func(rec T) bool { return rec.CardCategory() == category })
}

// Featured returns the featured records.
func (g *Grid[T]) Featured() []T {
	return g.Where(func(rec T) bool { return rec.CardFeatured() })
}

// OnDestroy tears down the rendered cards.
func (g *Grid[T]) OnDestroy() {
	for _, c := range g.cards {
		c.Destroy()
	}
	g.cards = nil
	if g.animator != nil {
		g.animator.Stop()
	}
}

// logItem is the default reaction to section events.
func logItem[T card.Record](log *zap.Logger, msg string) func(component.Event) {
	return func(e component.Event) {
		d, _ := e.Detail.(ItemDetail[T])
		fields := []zap.Field{zap.Int("index", d.Index), zap.String("title", d.Item.CardTitle())}
		if d.Href != "" {
			fields = append(fields, zap.String("href", d.Href))
		}
		log.Debug(msg, fields...)
	}
}

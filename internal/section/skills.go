package section

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
)

// Skills event names. Skill click, add and remove are forwarded from the
// category cards.
const (
	EventSkillClick      = card.EventSkillClick
	EventSkillAdded      = card.EventSkillAdded
	EventSkillRemoved    = card.EventSkillRemoved
	EventSkillSelected   = "skill-selected"
	EventSkillsSearch    = "skills-search"
	EventCategoryAdded   = "category-added"
	EventCategoryRemoved = "category-removed"
	EventCategoryUpdated = card.EventCategoryUpdated
)

// SkillEvent is the payload of the forwarded skill events.
type SkillEvent struct {
	Category content.SkillCategory
	Index    int
	Skill    string
	Element  *html.Node
}

// CategoryEvent is the payload of the category events.
type CategoryEvent struct {
	Category content.SkillCategory
	Index    int
}

// SearchEvent is the payload of skills-search.
type SearchEvent struct {
	Query string
}

// SearchResult is one category with the skills that matched a query.
type SearchResult struct {
	Category string
	Skills   []string
}

// SkillsOptions configure Skills.
type SkillsOptions struct {
	GridSelector    string
	Categories      []content.SkillCategory
	AnimateOnScroll bool
	SearchEnabled   bool
}

// Skills renders skill categories and an optional incremental search.
type Skills struct {
	component.Base

	opts       SkillsOptions
	grid       *html.Node
	categories []content.SkillCategory
	cards      []*card.SkillCategory
	animator   *Animator

	searchInput *html.Node
	query       string
}

// NewSkills builds and renders the skills section rooted at root.
func NewSkills(ctx *component.Context, root *html.Node, opts ...component.Option[SkillsOptions]) *Skills {
	o := component.Apply(SkillsOptions{GridSelector: ".skills-categories-grid", AnimateOnScroll: true}, opts...)
	cats := o.Categories
	if len(cats) == 0 {
		cats = fallbackSite().Skills
	}
	s := &Skills{
		Base:       component.NewBase(ctx, root),
		opts:       o,
		categories: cloneCategories(cats),
	}
	s.grid = s.Find(o.GridSelector)
	if o.AnimateOnScroll {
		s.animator = NewAnimator(ctx, DefaultAnimatorOptions(100*time.Millisecond))
	}
	s.Init(s)
	return s
}

func cloneCategories(cats []content.SkillCategory) []content.SkillCategory {
	out := make([]content.SkillCategory, len(cats))
	for i, c := range cats {
		out[i] = c.Clone()
	}
	return out
}

// BindEvents installs the default handlers.
func (s *Skills) BindEvents() {
	s.Subscribe(EventSkillClick, func(e component.Event) {
		d, _ := e.Detail.(SkillEvent)
		s.Log().Debug("skill clicked", zap.String("skill", d.Skill), zap.String("category", d.Category.Title))
		s.Emit(EventSkillSelected, SkillEvent{Category: d.Category, Index: d.Index, Skill: d.Skill})
	})
	s.Subscribe(EventCategoryUpdated, func(e component.Event) {
		d, _ := e.Detail.(CategoryEvent)
		s.Log().Debug("category updated", zap.String("category", d.Category.Title))
	})
}

// OnInit renders the categories and the search box.
func (s *Skills) OnInit() {
	s.Render()
	if s.opts.SearchEnabled {
		s.setupSearch()
	}
}

// Render rebuilds one card per category and re-applies the current query.
func (s *Skills) Render() {
	if s.grid == nil {
		return
	}
	for _, c := range s.cards {
		c.Destroy()
	}
	s.cards = s.cards[:0]
	dom.RemoveChildren(s.grid)

	for i, cat := range s.categories {
		sc := card.NewSkillCategory(s.Ctx(), s.grid, cat)
		s.cards = append(s.cards, sc)
		s.forward(sc, cat, i)
	}
	if s.query != "" {
		s.applySearch()
	}
	if s.animator != nil {
		els := make([]*html.Node, 0, len(s.cards))
		for _, c := range s.cards {
			els = append(els, c.Element())
		}
		s.animator.Watch(els)
	}
}

func (s *Skills) forward(sc *card.SkillCategory, cat content.SkillCategory, index int) {
	for _, name := range []string{EventSkillClick, EventSkillAdded, EventSkillRemoved} {
		sc.Subscribe(name, func(e component.Event) {
			d, _ := e.Detail.(card.SkillDetail)
			s.Emit(name, SkillEvent{Category: cat, Index: index, Skill: d.Skill, Element: d.Element})
		})
	}
}

func (s *Skills) setupSearch() {
	if s.grid == nil || s.grid.Parent == nil {
		return
	}
	box := s.Doc().CreateElement("div")
	dom.SetClassName(box, "skills-search")
	if err := dom.SetInnerHTML(box, `<input type="text" placeholder="Search skills..." class="skills-search-input">`+
		`<button class="skills-search-clear" type="button">Clear</button>`); err != nil {
		s.Log().Warn("skills search markup rejected", zap.Error(err))
		return
	}
	dom.InsertBefore(s.grid.Parent, box, s.grid)

	s.searchInput = dom.QueryIn(box, ".skills-search-input")
	s.Listen(s.searchInput, dom.Input, func(e *dom.Event) { s.Search(e.Value) })
	s.Listen(dom.QueryIn(box, ".skills-search-clear"), dom.Click, func(*dom.Event) { s.ClearSearch() })
}

// Search shows the categories whose title or skills contain query, ignoring
// case, and highlights the matching skill tags. An empty query shows
// everything and clears highlights. Nothing is removed from the page.
func (s *Skills) Search(query string) {
	s.query = strings.ToLower(strings.TrimSpace(query))
	s.applySearch()
	s.Emit(EventSkillsSearch, SearchEvent{Query: s.query})
}

func (s *Skills) applySearch() {
	q := s.query
	for i, sc := range s.cards {
		cat := s.categories[i]
		if q != "" && !categoryMatches(cat, q) {
			sc.Hide()
			continue
		}
		sc.Show()
		for _, tag := range sc.FindAll(".skill-tag") {
			if q != "" && strings.Contains(strings.ToLower(dom.TextContent(tag)), q) {
				dom.AddClass(tag, "highlighted")
			} else {
				dom.RemoveClass(tag, "highlighted")
			}
		}
	}
}

func categoryMatches(cat content.SkillCategory, q string) bool {
	if strings.Contains(strings.ToLower(cat.Title), q) {
		return true
	}
	for _, skill := range cat.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

// ClearSearch empties the search box and shows every category.
func (s *Skills) ClearSearch() {
	if s.searchInput != nil {
		// Setting the value dispatches input, which runs Search.
		s.Doc().SetValue(s.searchInput, "")
		return
	}
	s.Search("")
}

// Query is the active, normalized search query.
func (s *Skills) Query() string { return s.query }

// AddCategory appends cat, re-renders and emits category-added.
func (s *Skills) AddCategory(cat content.SkillCategory) {
	cat = cat.Clone()
	s.categories = append(s.categories, cat)
	s.Render()
	s.Emit(EventCategoryAdded, CategoryEvent{Category: cat.Clone(), Index: len(s.categories) - 1})
}

// RemoveCategory drops the category at i. Out of range indices do nothing.
func (s *Skills) RemoveCategory(i int) {
	if i < 0 || i >= len(s.categories) {
		return
	}
	removed := s.categories[i]
	s.categories = append(s.categories[:i:i], s.categories[i+1:]...)
	s.Render()
	s.Emit(EventCategoryRemoved, CategoryEvent{Category: removed, Index: i})
}

// UpdateCategory edits the category at i, re-renders and emits
// category-updated. Out of range indices do nothing.
func (s *Skills) UpdateCategory(i int, edit func(*content.SkillCategory)) {
	if i < 0 || i >= len(s.categories) {
		return
	}
	if edit != nil {
		edit(&s.categories[i])
	}
	s.Render()
	s.Emit(EventCategoryUpdated, CategoryEvent{Category: s.categories[i].Clone(), Index: i})
}

// Categories returns a copy of the categories.
func (s *Skills) Categories() []content.SkillCategory { return cloneCategories(s.categories) }

// Cards returns the cards of the current render.
func (s *Skills) Cards() []*card.SkillCategory {
	return append([]*card.SkillCategory(nil), s.cards...)
}

// CategoryByTitle finds a category by title, ignoring case.
func (s *Skills) CategoryByTitle(title string) (content.SkillCategory, bool) {
	for _, c := range s.categories {
		if strings.EqualFold(c.Title, title) {
			return c.Clone(), true
		}
	}
	return content.SkillCategory{}, false
}

// AllSkills concatenates every category's skills in order.
func (s *Skills) AllSkills() []string {
	var all []string
	for _, c := range s.categories {
		all = append(all, c.Skills...)
	}
	return all
}

// SearchSkills lists, per category, the skills containing query. Categories
// without a match are left out.
func (s *Skills) SearchSkills(query string) []SearchResult {
	q := strings.ToLower(query)
	var results []SearchResult
	for _, c := range s.categories {
		var matched []string
		for _, skill := range c.Skills {
			if strings.Contains(strings.ToLower(skill), q) {
				matched = append(matched, skill)
			}
		}
		if len(matched) > 0 {
			results = append(results, SearchResult{Category: c.Title, Skills: matched})
		}
	}
	return results
}

// OnDestroy tears down the category cards.
func (s *Skills) OnDestroy() {
	for _, c := range s.cards {
		c.Destroy()
	}
	s.cards = nil
	if s.animator != nil {
		s.animator.Stop()
	}
}

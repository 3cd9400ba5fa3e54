package section

import (
	"html/template"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
)

// EventExperienceToggle fires when a timeline card expands or collapses.
const EventExperienceToggle = "experience-toggle"

// ToggleDetail is the payload of experience-toggle.
type ToggleDetail struct {
	Index    int
	Expanded bool
}

type experienceView struct {
	Index     int
	Exp       content.Experience
	FromShort string
	ToShort   string
	Bullets   []template.HTML
}

var experienceTemplate = template.Must(template.New("experience").Parse(`
{{- range .}}<div class="experience-card{{if .Exp.Logo}} has-logo{{end}}" data-index="{{.Index}}" role="button" tabindex="0" aria-expanded="false" aria-controls="exp-content-{{.Index}}">
{{- if .Exp.Logo}}<img src="{{.Exp.Logo}}" class="experience-logo" alt="{{.Exp.Organization}} logo">{{end}}
<div class="experience-header"><div class="experience-meta">
<div class="experience-title"><h3>{{.Exp.Organization}}</h3><h4>{{.Exp.Role}}</h4></div>
<div class="experience-dates"><span class="date-full">{{.Exp.From}} - {{.Exp.To}}</span><span class="date-mobile">{{.FromShort}} - {{.ToShort}}</span></div>
</div></div>
<div class="experience-content" id="exp-content-{{.Index}}"><div class="experience-content-inner"><div class="experience-description">
{{- range .Bullets}}<div class="experience-bullet">{{.}}</div>{{end -}}
</div></div></div>
</div>{{end}}`))

// Experience renders the work timeline as expandable cards.
type Experience struct {
	component.Base
	items []content.Experience
}

// NewExperience renders items into the timeline root.
func NewExperience(ctx *component.Context, root *html.Node, items []content.Experience) *Experience {
	x := &Experience{Base: component.NewBase(ctx, root), items: append([]content.Experience(nil), items...)}
	x.Init(x)
	return x
}

// OnInit renders the timeline.
func (x *Experience) OnInit() { x.Render() }

// Render rebuilds every card collapsed.
func (x *Experience) Render() {
	el := x.Element()
	if el == nil {
		return
	}
	views := make([]experienceView, 0, len(x.items))
	for i, exp := range x.items {
		bullets, err := exp.Bullets()
		if err != nil {
			x.Log().Warn("experience bullets failed", zap.String("organization", exp.Organization), zap.Error(err))
		}
		views = append(views, experienceView{
			Index:     i,
			Exp:       exp,
			FromShort: content.ShortDate(exp.From),
			ToShort:   content.ShortDate(exp.To),
			Bullets:   bullets,
		})
	}
	markup, err := card.Execute(experienceTemplate, views)
	if err != nil {
		x.Log().Warn("experience template failed", zap.Error(err))
		return
	}
	if err := dom.SetInnerHTML(el, markup); err != nil {
		x.Log().Warn("experience markup rejected", zap.Error(err))
	}
}

// BindEvents delegates clicks and keys from the timeline to its cards.
func (x *Experience) BindEvents() {
	x.On(dom.Click, func(e *dom.Event) {
		if dom.Closest(e.Target, "a") != nil {
			return
		}
		x.toggle(dom.Closest(e.Target, ".experience-card"))
	})
	x.On(dom.KeyDown, func(e *dom.Event) {
		if e.Key != "Enter" && e.Key != " " {
			return
		}
		if c := dom.Closest(e.Target, ".experience-card"); c != nil {
			e.PreventDefault()
			x.toggle(c)
		}
	})
}

func (x *Experience) toggle(c *html.Node) {
	if c == nil {
		return
	}
	expanded := dom.ToggleClass(c, "expanded")
	dom.SetAttr(c, "aria-expanded", boolAttr(expanded))
	i, _ := strconv.Atoi(dom.AttrOr(c, "data-index", "-1"))
	x.Emit(EventExperienceToggle, ToggleDetail{Index: i, Expanded: expanded})
}

// Toggle expands or collapses the card at i.
func (x *Experience) Toggle(i int) {
	x.toggle(x.card(i))
}

// Expanded reports whether the card at i is expanded.
func (x *Experience) Expanded(i int) bool {
	return dom.HasClass(x.card(i), "expanded")
}

func (x *Experience) card(i int) *html.Node {
	return x.Find(`.experience-card[data-index="` + strconv.Itoa(i) + `"]`)
}

package card

import (
	"html/template"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
)

// pressDuration is how long a clicked skill tag stays pressed.
const pressDuration = 150 * time.Millisecond

var funcs = template.FuncMap{
	"icon":    Icon,
	"tooltip": Tooltip,
	"title":   TitleCase,
}

// TitleCase capitalizes words. A Caser keeps state, so each call gets its own.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

var projectTemplate = template.Must(template.New("project").Funcs(funcs).Parse(`
<div class="project-image">{{if .Image}}<img data-src="{{.Image}}" alt="{{.Title}}">{{end}}</div>
<div class="project-content">
<h3 class="project-title">{{.Title}}</h3>
<p class="project-description">{{.Description}}</p>
{{- with .Links}}
<div class="project-icon-links">
{{- range .}}<a href="{{.URL}}" class="project-icon-link" target="_blank" rel="noopener noreferrer" data-tooltip="{{tooltip .Type}}" aria-label="{{.Label}}">{{with icon .Type}}{{.}}{{else}}{{.Text}}{{end}}</a>{{end}}
</div>
{{- end}}
</div>`))

// Project renders portfolio projects.
func Project() Kind[content.Project] {
	return Kind[content.Project]{
		Template: func(p content.Project) (string, error) { return Execute(projectTemplate, p) },
		Classes: func(p content.Project, _ Settings) []string {
			classes := []string{"project-card"}
			if p.Featured {
				classes = append(classes, "featured")
			}
			return classes
		},
	}
}

var episodeTemplate = template.Must(template.New("episode").Funcs(funcs).Parse(`
<div class="episode-image">{{if .Image}}<img src="{{.Image}}" alt="{{.Title}} episode thumbnail">{{end}}</div>
<div class="episode-content">
<h5 class="episode-title">{{.Title}}</h5>
<p class="episode-description">{{.Description}}</p>
<div class="episode-links">
{{- range .Links}}<a href="{{.URL}}" class="episode-link {{.Platform}}" target="_blank" rel="noopener noreferrer">{{icon .Platform}}{{title .Platform}}</a>{{end}}
</div>
</div>`))

// Episode renders podcast episodes.
func Episode() Kind[content.Episode] {
	return Kind[content.Episode]{
		Template: func(e content.Episode) (string, error) { return Execute(episodeTemplate, e) },
		Classes:  func(content.Episode, Settings) []string { return []string{"episode-card"} },
	}
}

var engagementTemplate = template.Must(template.New("engagement").Funcs(funcs).Parse(`
<div class="{{.Prefix}}-header">
{{- with .E.Badge}}<div class="{{$.Prefix}}-badge {{.Type}}" data-badge="{{.Type}}">{{.Text}}</div>{{end}}
<h3 class="{{.Prefix}}-title">{{.E.Title}}</h3>
{{- with .E.Role}}<p class="{{$.Prefix}}-role">{{.}}</p>{{end}}
{{- with .E.Organization}}<p class="{{$.Prefix}}-organization">{{.}}</p>{{end}}
</div>
<div class="{{.Prefix}}-content">
<p class="{{.Prefix}}-description">{{.E.Description}}</p>
{{- if .E.Links}}
<div class="{{.Prefix}}-platform-links">
{{- range .E.Links}}<a href="{{.URL}}" class="{{$.Prefix}}-platform-link" target="_blank" rel="noopener noreferrer" aria-label="{{.Label}}" data-tooltip="{{tooltip .Type}}">
{{- if .Logo}}<img src="{{.Logo}}" alt="{{.Label}}" class="{{$.Prefix}}-platform-logo">{{else}}{{icon .Type}}{{end}}</a>{{end}}
</div>
{{- else if .E.Link}}
<a href="{{.E.Link.URL}}" class="{{.Prefix}}-link" target="_blank" rel="noopener noreferrer">{{.E.Link.Label}}</a>
{{- end}}
</div>`))

// Engagement renders appearances or speaking entries; prefix is the class
// namespace ("appearances" or "speaking").
func Engagement(prefix string) Kind[content.Engagement] {
	return Kind[content.Engagement]{
		Template: func(e content.Engagement) (string, error) {
			return Execute(engagementTemplate, struct {
				Prefix string
				E      content.Engagement
			}{prefix, e})
		},
		Classes: func(e content.Engagement, _ Settings) []string {
			classes := []string{prefix + "-card"}
			if e.Featured {
				classes = append(classes, "featured")
			}
			return classes
		},
	}
}

// Skill category event names.
const (
	EventSkillClick      = "skill-click"
	EventSkillAdded      = "skill-added"
	EventSkillRemoved    = "skill-removed"
	EventCategoryUpdated = "category-updated"
)

// SkillDetail is the payload of the skill events.
type SkillDetail struct {
	Skill    string
	Category string
	Element  *html.Node
}

var skillTemplate = template.Must(template.New("skills").Parse(`
<h4 class="category-title">{{.Title}}</h4>
<div class="category-skills-text">{{range .Skills}}<span class="skill-tag">{{.}}</span>{{end}}</div>`))

// SkillCategory is a card listing the skills of one category. Skill tags are
// clickable even though the card itself is not.
type SkillCategory struct {
	*Card[content.SkillCategory]
	skillIDs []dom.ListenerID
}

// NewSkillCategory renders cat inside container.
func NewSkillCategory(ctx *component.Context, container *html.Node, cat content.SkillCategory, opts ...Option) *SkillCategory {
	sc := &SkillCategory{}
	kind := Kind[content.SkillCategory]{
		Template: func(c content.SkillCategory) (string, error) { return Execute(skillTemplate, c) },
		Classes:  func(content.SkillCategory, Settings) []string { return []string{"skill-category-card"} },
		Bind:     sc.bindSkills,
	}
	defaults := []Option{WithTemplate("skills"), WithClickable(false), WithLazyImages(false)}
	sc.Card = New(ctx, container, kind, cat.Clone(), append(defaults, opts...)...)
	return sc
}

func (sc *SkillCategory) bindSkills(c *Card[content.SkillCategory]) {
	c.Unlisten(sc.skillIDs...)
	sc.skillIDs = sc.skillIDs[:0]
	for _, tag := range c.FindAll(".skill-tag") {
		id := c.Listen(tag, dom.Click, func(e *dom.Event) { sc.handleSkillClick(c, e) })
		if id != 0 {
			sc.skillIDs = append(sc.skillIDs, id)
		}
	}
}

func (sc *SkillCategory) handleSkillClick(c *Card[content.SkillCategory], e *dom.Event) {
	tag := e.CurrentTarget
	c.Emit(EventSkillClick, SkillDetail{
		Skill:    dom.TextContent(tag),
		Category: c.data.Title,
		Element:  tag,
	})
	dom.SetStyle(tag, "transform", "scale(0.95)")
	c.Ctx().Sched.After(pressDuration, func() { dom.SetStyle(tag, "transform", "") })
}

func (sc *SkillCategory) rerender() {
	sc.Render()
	if sc.Element() != nil {
		sc.BindEvents()
	}
}

// AddSkill appends skill and re-renders.
func (sc *SkillCategory) AddSkill(skill string) {
	sc.data.Skills = append(sc.data.Skills, skill)
	sc.rerender()
	sc.Emit(EventSkillAdded, SkillDetail{Skill: skill, Category: sc.data.Title})
}

// RemoveSkill drops the first occurrence of skill. Unknown skills are
// ignored.
func (sc *SkillCategory) RemoveSkill(skill string) {
	for i, have := range sc.data.Skills {
		if have != skill {
			continue
		}
		sc.data.Skills = append(sc.data.Skills[:i:i], sc.data.Skills[i+1:]...)
		sc.rerender()
		sc.Emit(EventSkillRemoved, SkillDetail{Skill: skill, Category: sc.data.Title})
		return
	}
}

// Skills returns a copy of the skill list.
func (sc *SkillCategory) Skills() []string {
	return append([]string(nil), sc.data.Skills...)
}

// Category returns a copy of the category record.
func (sc *SkillCategory) Category() content.SkillCategory { return sc.data.Clone() }

// UpdateCategory edits the category, re-renders and emits category-updated.
func (sc *SkillCategory) UpdateCategory(edit func(*content.SkillCategory)) {
	if edit != nil {
		edit(&sc.data)
	}
	sc.rerender()
	sc.Emit(EventCategoryUpdated, sc.data.Clone())
}

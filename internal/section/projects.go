package section

import (
	"time"

	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
)

// fallbackSite supplies records when a controller is built without any.
func fallbackSite() *content.Site {
	site, err := content.Default()
	if err != nil {
		return &content.Site{}
	}
	return site
}

// ProjectsOptions configure Projects.
type ProjectsOptions struct {
	GridSelector    string
	Projects        []content.Project
	AnimateOnScroll bool
}

// Projects renders the project grid.
type Projects struct {
	*Grid[content.Project]
}

// NewProjects builds and renders the projects section rooted at root.
func NewProjects(ctx *component.Context, root *html.Node, opts ...component.Option[ProjectsOptions]) *Projects {
	o := component.Apply(ProjectsOptions{GridSelector: ".projects-grid", AnimateOnScroll: true}, opts...)
	items := o.Projects
	if len(items) == 0 {
		items = fallbackSite().Projects
	}
	p := &Projects{Grid: newGrid(ctx, root, o.GridSelector, items, gridConfig[content.Project]{
		noun:   "project",
		plural: "projects",
		kind:   card.Project(),
	})}
	if o.AnimateOnScroll {
		p.animate(NewAnimator(ctx, DefaultAnimatorOptions(100*time.Millisecond)))
	}
	p.Init(p)
	return p
}

// BindEvents installs the default handlers.
func (p *Projects) BindEvents() {
	p.Subscribe(p.names.click, logItem[content.Project](p.Log(), "project clicked"))
	p.Subscribe(p.names.linkClick, logItem[content.Project](p.Log(), "project link clicked"))
}

// OnInit renders the grid.
func (p *Projects) OnInit() { p.Render() }

package app

import (
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/section"
)

// Shell is the page chrome every other piece reaches through: the
// navigation bar and the theme toggle that repaints it.
type Shell struct {
	Nav   *section.Navigation
	Theme *section.ThemeToggle
}

// NewShell binds the navigation bar first so the theme toggle can refresh
// it.
func NewShell(ctx *component.Context, nav []component.Option[section.NavigationOptions], theme []component.Option[section.ThemeOptions]) *Shell {
	s := &Shell{}
	s.Nav = section.NewNavigation(ctx, ctx.Doc.ByID("navbar"), nav...)
	theme = append([]component.Option[section.ThemeOptions]{
		func(o *section.ThemeOptions) { o.Navbar = s.Nav },
	}, theme...)
	s.Theme = section.NewThemeToggle(ctx, ctx.Doc.ByID("theme-toggle"), theme...)
	return s
}

// Destroy releases both components.
func (s *Shell) Destroy() {
	s.Theme.Destroy()
	s.Nav.Destroy()
}

package app

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
)

// SidebarOptions configure Sidebar.
type SidebarOptions struct {
	// Database prefixes the mobile header title.
	Database string
	// ScrollOffset is kept above a section scrolled to from the sidebar or
	// the tab strip.
	ScrollOffset float64
	// MobileBreakpoint is the width under which a sidebar click closes the
	// sidebar.
	MobileBreakpoint float64
	// SectionThreshold is the visible share at which a section becomes
	// active.
	SectionThreshold float64
}

// DefaultSidebarOptions are the page defaults.
func DefaultSidebarOptions() SidebarOptions {
	return SidebarOptions{
		ScrollOffset:     32,
		MobileBreakpoint: 1024,
		SectionThreshold: 0.35,
	}
}

// Sidebar is the file tree, the tab strip and the mobile header. It keeps
// their active entry on the section in view.
type Sidebar struct {
	component.Base

	opts      SidebarOptions
	overlay   *html.Node
	hamburger *html.Node
	title     *html.Node
	sections  *dom.Observer
	active    string
}

// NewSidebar binds the sidebar of ctx's document.
func NewSidebar(ctx *component.Context, opts ...component.Option[SidebarOptions]) *Sidebar {
	s := &Sidebar{
		Base:      component.NewBase(ctx, ctx.Doc.ByID("ide-sidebar")),
		opts:      component.Apply(DefaultSidebarOptions(), opts...),
		overlay:   ctx.Doc.ByID("sidebar-overlay"),
		hamburger: ctx.Doc.ByID("mobile-hamburger"),
		title:     ctx.Doc.Query(".mobile-header-title"),
	}
	s.Init(s)
	return s
}

// BindEvents wires tree entries, tabs, folders and the mobile controls.
func (s *Sidebar) BindEvents() {
	for _, link := range s.Doc().QueryAll(".tree-child[data-section]") {
		s.Listen(link, dom.Click, func(e *dom.Event) {
			e.PreventDefault()
			s.Select(dom.AttrOr(e.CurrentTarget, "data-section", ""))
			if s.Doc().ViewportWidth() < s.opts.MobileBreakpoint {
				s.Close()
			}
		})
	}
	for _, tab := range s.Doc().QueryAll(".ide-tab[data-section]") {
		s.Listen(tab, dom.Click, func(e *dom.Event) {
			e.PreventDefault()
			s.Select(dom.AttrOr(e.CurrentTarget, "data-section", ""))
		})
	}
	for _, folder := range s.Doc().QueryAll("[data-folder]") {
		s.Listen(folder, dom.Click, func(e *dom.Event) {
			s.ToggleFolder(dom.AttrOr(e.CurrentTarget, "data-folder", ""))
		})
	}
	s.Listen(s.hamburger, dom.Click, func(*dom.Event) {
		if s.IsOpen() {
			s.Close()
		} else {
			s.Open()
		}
	})
	s.Listen(s.overlay, dom.Click, func(*dom.Event) { s.Close() })
	s.Listen(s.Doc().Window(), dom.KeyDown, func(e *dom.Event) {
		if e.Key == "Escape" {
			s.Close()
		}
	})
}

// OnInit starts watching the sections.
func (s *Sidebar) OnInit() {
	s.sections = s.Doc().NewIntersectionObserver(dom.ObserverOptions{Threshold: s.opts.SectionThreshold}, func(entries []dom.Entry, _ *dom.Observer) {
		for _, entry := range entries {
			if entry.IsIntersecting {
				s.SetActive(dom.AttrOr(entry.Target, "id", ""))
			}
		}
	})
	for _, sec := range s.Doc().QueryAll("section[id]") {
		s.sections.Observe(sec)
	}
}

// OnDestroy stops watching the sections.
func (s *Sidebar) OnDestroy() {
	if s.sections != nil {
		s.sections.Disconnect()
	}
}

// Select scrolls to the section and marks it active.
func (s *Sidebar) Select(id string) {
	s.ScrollToSection(id)
	s.SetActive(id)
}

// ScrollToSection scrolls the section to just below the top edge.
func (s *Sidebar) ScrollToSection(id string) {
	box, ok := s.Doc().Box(s.Doc().ByID(id))
	if !ok {
		return
	}
	s.Doc().ScrollTo(max(0, box.Top-s.opts.ScrollOffset))
}

// SetActive marks the tree entry and tab of id and updates the mobile title.
func (s *Sidebar) SetActive(id string) {
	if id == "" {
		return
	}
	s.active = id
	for _, sel := range []string{".tree-child", ".ide-tab"} {
		for _, n := range s.Doc().QueryAll(sel) {
			if dom.AttrOr(n, "data-section", "") == id {
				dom.AddClass(n, "active")
			} else {
				dom.RemoveClass(n, "active")
			}
		}
	}
	if s.title != nil {
		dom.SetTextContent(s.title, s.opts.Database+" / "+id+".sql")
	}
}

// Active is the section last marked active.
func (s *Sidebar) Active() string { return s.active }

// ToggleFolder opens or closes a tree folder and its chevron.
func (s *Sidebar) ToggleFolder(folderID string) {
	children := s.Doc().ByID(folderID)
	if children == nil {
		return
	}
	dom.ToggleClass(children, "open")
	if chevron := s.Doc().ByID(strings.Replace(folderID, "-folder", "-chevron", 1)); chevron != nil {
		dom.ToggleClass(chevron, "open")
	}
}

// Open shows the mobile sidebar.
func (s *Sidebar) Open() {
	s.AddClass("open")
	dom.AddClass(s.overlay, "active")
}

// Close hides the mobile sidebar.
func (s *Sidebar) Close() {
	s.RemoveClass("open")
	dom.RemoveClass(s.overlay, "active")
}

// IsOpen reports whether the mobile sidebar is shown.
func (s *Sidebar) IsOpen() bool { return s.HasClass("open") }

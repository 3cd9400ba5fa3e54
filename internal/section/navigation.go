package section

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/schedule"
)

// Navigation event names.
const (
	EventMobileMenuToggle    = "mobile-menu-toggle"
	EventMobileMenuClose     = "mobile-menu-close"
	EventNavbarScroll        = "navbar-scroll"
	EventActiveSectionChange = "active-section-change"
	EventSectionShortcut     = "section-shortcut"
)

// MenuDetail is the payload of mobile-menu-toggle.
type MenuDetail struct {
	Open bool
}

// ScrollDetail is the payload of navbar-scroll.
type ScrollDetail struct {
	Scrolled bool
	ScrollY  float64
}

// SectionDetail is the payload of active-section-change and
// section-shortcut. Section is empty when no section contains the scroll
// position.
type SectionDetail struct {
	Section string
}

// DefaultShortcuts map Alt+digit to section ids in page order.
func DefaultShortcuts() map[string]string {
	return map[string]string{
		"1": "home",
		"2": "about",
		"3": "experience",
		"4": "projects",
		"5": "appearances",
		"6": "speaking",
		"7": "podcast",
		"8": "skills",
		"9": "acknowledgements",
		"0": "connect",
	}
}

// NavigationOptions configure Navigation.
type NavigationOptions struct {
	MobileMenuSelector string
	NavMenuSelector    string
	NavLinksSelector   string
	SectionsSelector   string
	// ScrollThreshold is the scroll offset past which the bar gets the
	// scrolled class.
	ScrollThreshold float64
	// SectionOffset shifts section tops when deciding the active section.
	SectionOffset float64
	// HeaderOffset is the fixed header height subtracted from scroll
	// targets.
	HeaderOffset       float64
	EnableSmoothScroll bool
	ScrollThrottle     time.Duration
	Shortcuts          map[string]string
}

// DefaultNavigationOptions are the page defaults.
func DefaultNavigationOptions() NavigationOptions {
	return NavigationOptions{
		MobileMenuSelector: "#mobile-menu",
		NavMenuSelector:    "#nav-menu",
		NavLinksSelector:   ".nav-link",
		SectionsSelector:   "section[id]",
		ScrollThreshold:    50,
		SectionOffset:      100,
		HeaderOffset:       80,
		EnableSmoothScroll: true,
		ScrollThrottle:     16 * time.Millisecond,
		Shortcuts:          DefaultShortcuts(),
	}
}

// Navigation is the top bar: mobile menu, smooth in-page scrolling, scrolled
// background and scroll-spy over the page sections.
type Navigation struct {
	component.Base

	opts       NavigationOptions
	menuButton *html.Node
	menu       *html.Node
	links      []*html.Node
	sections   []*html.Node
	active     string
}

// NewNavigation binds to the navigation bar root.
func NewNavigation(ctx *component.Context, root *html.Node, opts ...component.Option[NavigationOptions]) *Navigation {
	o := component.Apply(DefaultNavigationOptions(), opts...)
	n := &Navigation{
		Base:       component.NewBase(ctx, root),
		opts:       o,
		menuButton: ctx.Doc.Query(o.MobileMenuSelector),
		menu:       ctx.Doc.Query(o.NavMenuSelector),
		links:      ctx.Doc.QueryAll(o.NavLinksSelector),
		sections:   ctx.Doc.QueryAll(o.SectionsSelector),
	}
	n.Init(n)
	return n
}

// BindEvents wires the menu, links, scroll and keyboard.
func (n *Navigation) BindEvents() {
	n.Listen(n.menuButton, dom.Click, func(*dom.Event) { n.ToggleMobileMenu() })
	for _, link := range n.links {
		n.Listen(link, dom.Click, func(*dom.Event) { n.CloseMobileMenu() })
		if n.opts.EnableSmoothScroll {
			n.Listen(link, dom.Click, n.handleSmoothScroll)
		}
	}
	onScroll := schedule.Throttle(n.Ctx().Sched, n.opts.ScrollThrottle, n.handleScroll)
	n.Listen(n.Doc().Window(), dom.Scroll, func(*dom.Event) { onScroll() })
	n.Listen(n.Doc().Window(), dom.KeyDown, n.handleKeydown)
}

// ToggleMobileMenu flips the mobile menu and its aria-expanded state.
func (n *Navigation) ToggleMobileMenu() {
	if n.menuButton == nil || n.menu == nil {
		return
	}
	dom.ToggleClass(n.menuButton, "active")
	open := dom.ToggleClass(n.menu, "active")
	dom.SetAttr(n.menuButton, "aria-expanded", boolAttr(open))
	n.Emit(EventMobileMenuToggle, MenuDetail{Open: open})
}

// CloseMobileMenu closes the mobile menu.
func (n *Navigation) CloseMobileMenu() {
	if n.menuButton == nil || n.menu == nil {
		return
	}
	dom.RemoveClass(n.menuButton, "active")
	dom.RemoveClass(n.menu, "active")
	dom.SetAttr(n.menuButton, "aria-expanded", "false")
	n.Emit(EventMobileMenuClose, nil)
}

// IsMenuOpen reports whether the mobile menu is open.
func (n *Navigation) IsMenuOpen() bool { return dom.HasClass(n.menu, "active") }

func (n *Navigation) handleSmoothScroll(e *dom.Event) {
	href := dom.AttrOr(dom.Closest(e.Target, "a"), "href", "")
	if !strings.HasPrefix(href, "#") {
		return
	}
	e.PreventDefault()
	n.ScrollToSection(strings.TrimPrefix(href, "#"))
}

// ScrollToSection scrolls so the section sits just below the fixed header.
// Unknown ids and sections without geometry are ignored.
func (n *Navigation) ScrollToSection(id string) {
	box, ok := n.Doc().Box(n.Doc().ByID(id))
	if !ok {
		return
	}
	n.Doc().ScrollTo(box.Top - n.opts.HeaderOffset)
}

func (n *Navigation) handleScroll() {
	n.UpdateNavbarBackground()
	n.updateActiveNavLink()
}

// UpdateNavbarBackground sets the scrolled class from the scroll position.
func (n *Navigation) UpdateNavbarBackground() {
	y := n.Doc().ScrollY()
	scrolled := y > n.opts.ScrollThreshold
	if scrolled {
		n.AddClass("scrolled")
	} else {
		n.RemoveClass("scrolled")
	}
	n.Emit(EventNavbarScroll, ScrollDetail{Scrolled: scrolled, ScrollY: y})
}

func (n *Navigation) updateActiveNavLink() {
	n.active = ActiveSection(n.Doc(), n.sections, n.opts.SectionOffset)
	n.SetActiveLink(n.active)
	n.Emit(EventActiveSectionChange, SectionDetail{Section: n.active})
}

// ActiveSection returns the id of the last section, in document order, whose
// offset top is at or above the scroll position and whose bottom is below
// it.
func ActiveSection(doc *dom.Document, sections []*html.Node, offset float64) string {
	y := doc.ScrollY()
	current := ""
	for _, s := range sections {
		box, ok := doc.Box(s)
		if !ok {
			continue
		}
		top := box.Top - offset
		if y >= top && y < top+box.Height {
			current = dom.AttrOr(s, "id", "")
		}
	}
	return current
}

// SetActiveLink marks the link pointing at #id active and clears the rest.
func (n *Navigation) SetActiveLink(id string) {
	for _, link := range n.links {
		dom.RemoveClass(link, "active")
		if id != "" && dom.AttrOr(link, "href", "") == "#"+id {
			dom.AddClass(link, "active")
		}
	}
}

// Active is the section chosen by the last scroll update.
func (n *Navigation) Active() string { return n.active }

func (n *Navigation) handleKeydown(e *dom.Event) {
	if e.Key == "Escape" && n.IsMenuOpen() {
		n.CloseMobileMenu()
	}
	if !e.Alt || !n.opts.EnableSmoothScroll {
		return
	}
	id, ok := n.opts.Shortcuts[e.Key]
	if !ok {
		return
	}
	e.PreventDefault()
	if _, ok := n.Doc().Box(n.Doc().ByID(id)); !ok {
		return
	}
	n.ScrollToSection(id)
	n.SetActiveLink(id)
	n.Emit(EventSectionShortcut, SectionDetail{Section: id})
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

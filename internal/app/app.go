// Package app assembles the portfolio page: it renders the shell, binds every
// section controller to it and exposes the document to one visitor's event
// stream.
//
// An App is not safe for concurrent use. The session that owns it serializes
// every call, which makes that lock the page's UI thread.
package app

import (
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/notify"
	"github.com/Zachkp/folio/internal/resume"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/section"
)

// RevealSelector matches the elements that fade in outside the card grids.
const RevealSelector = ".value-item, .episode-card, .experience-card"

// Options configure New.
type Options struct {
	Site  *content.Site
	Log   *zap.Logger
	Store section.Store
	// SessionID is written into the page for the client script.
	SessionID string

	// Sched drives animation. Nil means a clock that never advances, or
	// an immediate one when exporting.
	Sched schedule.Scheduler
	// Post re-enters the owner's loop. Nil runs fn in place.
	Post func(fn func())

	Fetcher    *resume.Fetcher
	ResumeURL  string
	Theme      config.ThemeConfig
	Navigation config.NavigationConfig
	// Static is the asset path prefix.
	Static string
	// Export renders a self-contained page: no client script, every section
	// visible, no looping animation.
	Export bool
}

// ScrollReport is the client's view of the page after a scroll or resize.
type ScrollReport struct {
	Y      float64
	Width  float64
	Height float64
	// Boxes maps data-uid to measured geometry.
	Boxes map[string]dom.Rect
}

// App is one visitor's page.
type App struct {
	ctx  *component.Context
	doc  *dom.Document
	log  *zap.Logger
	live bool

	Shell            *Shell
	Sidebar          *Sidebar
	Typer            *Typer
	Projects         *section.Projects
	Appearances      *section.Engagements
	Speaking         *section.Engagements
	Podcast          *section.Podcast
	Skills           *section.Skills
	Experience       *section.Experience
	Acknowledgements *section.Acknowledgements
	Resume           *resume.Downloader
	Toast            *notify.Toaster
	reveal           *section.Animator

	navs   []dom.Navigation
	scroll *float64
}

// New renders the page and boots every component on it.
func New(opts Options) (*App, error) {
	site := opts.Site
	if site == nil {
		var err error
		if site, err = content.Default(); err != nil {
			return nil, err
		}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	sched := opts.Sched
	if sched == nil && opts.Export {
		sched = schedule.Immediate{}
	} else if sched == nil {
		sched = schedule.NewManual()
	}
	post := opts.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	theme := opts.Theme.Default
	if theme == "" {
		theme = section.DefaultThemeOptions().DefaultTheme
	}

	markup, err := RenderPage(PageData{
		Site:      site,
		Theme:     theme,
		Static:    opts.Static,
		Live:      !opts.Export,
		SessionID: opts.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	a := &App{
		doc:  doc,
		log:  log,
		live: !opts.Export,
		ctx:  &component.Context{Doc: doc, Log: log, Sched: sched, Post: post},
	}
	doc.OnNavigate(func(n dom.Navigation) { a.navs = append(a.navs, n) })
	if opts.Export {
		doc.SetLayout(exportLayout{})
		doc.SetViewport(1280, 1<<20)
	}

	booted := false
	a.dispatch("boot", func() {
		a.boot(site, opts)
		booted = true
	})
	if !booted {
		return nil, errBoot
	}
	if opts.Export {
		a.Sidebar.SetActive("home")
		a.Shell.Nav.SetActiveLink("home")
	}
	return a, nil
}

var errBoot = errors.New("booting page failed")

func (a *App) boot(site *content.Site, opts Options) {
	ctx, doc := a.ctx, a.doc

	a.Shell = NewShell(ctx, navigationOptions(opts.Navigation), themeOptions(opts.Theme, opts.Store))
	a.Sidebar = NewSidebar(ctx, func(o *SidebarOptions) { o.Database = site.Database })
	a.Shell.Nav.Subscribe(section.EventSectionShortcut, func(e component.Event) {
		a.Sidebar.SetActive(e.Detail.(section.SectionDetail).Section)
	})
	a.Typer = NewTyper(ctx, func(o *TyperOptions) {
		o.Roles = site.TypingRoles
		o.Animate = !opts.Export
	})

	animate := !opts.Export
	a.Projects = section.NewProjects(ctx, doc.ByID("projects"), func(o *section.ProjectsOptions) {
		o.Projects = site.Projects
		o.AnimateOnScroll = animate
	})
	a.Appearances = section.NewAppearances(ctx, doc.ByID("appearances"), func(o *section.EngagementsOptions) {
		o.Engagements = site.Appearances
		o.GroupByType = true
		o.AnimateOnScroll = animate
	})
	a.Speaking = section.NewSpeaking(ctx, doc.ByID("speaking"), func(o *section.EngagementsOptions) {
		o.Engagements = site.Speaking
		o.AnimateOnScroll = animate
	})
	a.Podcast = section.NewPodcast(ctx, doc.ByID("podcast"), func(o *section.PodcastOptions) {
		o.Episodes = site.Episodes
		o.Platforms = site.Platforms
		o.Support = site.Support
		o.AnimateOnScroll = animate
	})
	a.Skills = section.NewSkills(ctx, doc.ByID("skills"), func(o *section.SkillsOptions) {
		o.Categories = site.Skills
		o.SearchEnabled = !opts.Export
		o.AnimateOnScroll = animate
	})
	a.Experience = section.NewExperience(ctx, doc.ByID("experience-timeline"), site.Experience)
	a.Acknowledgements = section.NewAcknowledgements(ctx, doc.ByID("ack-table-body"), site.Acknowledgements)

	a.Toast = notify.New(ctx)
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = &resume.Fetcher{Filename: site.ResumeFilename}
	}
	shareURL := opts.ResumeURL
	if shareURL == "" {
		shareURL = site.ResumeURL
	}
	a.Resume = resume.NewDownloader(ctx, fetcher, a.Toast, func(o *resume.Options) {
		o.ShareURL = shareURL
		if opts.SessionID != "" {
			o.Href += "?session=" + url.QueryEscape(opts.SessionID)
		}
	})

	if animate {
		a.reveal = section.NewAnimator(ctx, section.AnimatorOptions{
			Threshold:    0.08,
			MarginBottom: -30,
			Prepare:      "fade-in",
			Class:        "visible",
		})
		a.reveal.Watch(doc.QueryAll(RevealSelector))
	}
}

func navigationOptions(cfg config.NavigationConfig) []component.Option[section.NavigationOptions] {
	return []component.Option[section.NavigationOptions]{func(o *section.NavigationOptions) {
		if cfg.HeaderOffset > 0 {
			o.HeaderOffset = cfg.HeaderOffset
		}
		if cfg.SectionOffset > 0 {
			o.SectionOffset = cfg.SectionOffset
		}
		if cfg.ScrollThreshold > 0 {
			o.ScrollThreshold = cfg.ScrollThreshold
		}
	}}
}

func themeOptions(cfg config.ThemeConfig, store section.Store) []component.Option[section.ThemeOptions] {
	return []component.Option[section.ThemeOptions]{func(o *section.ThemeOptions) {
		o.Store = store
		if cfg.Default != "" {
			o.DefaultTheme = cfg.Default
		}
		if len(cfg.Themes) > 0 {
			o.Themes = cfg.Themes
		}
		if cfg.StorageKey != "" {
			o.StorageKey = cfg.StorageKey
		}
	}}
}

// dispatch runs fn as one turn of the page loop: it recovers a panicking
// handler, delivers deferred work and addresses new nodes.
func (a *App) dispatch(name string, fn func()) {
	before := a.doc.ScrollY()
	func() {
		defer func() {
			if r := recover(); r != nil {
				a.log.Error("uncaught error", zap.String("event", name), zap.Any("panic", r), zap.Stack("stack"))
			}
		}()
		fn()
		a.doc.Flush()
	}()
	if y := a.doc.ScrollY(); y != before && name != "scroll" {
		a.scroll = &y
	}
	if a.live {
		a.doc.StampIDs()
	}
}

// Click clicks the node addressed by uid.
func (a *App) Click(uid string) {
	a.dispatch("click", func() { a.doc.Click(a.doc.ByUID(uid)) })
}

// Key dispatches a keydown at uid, or at the document when uid is unknown.
func (a *App) Key(uid, key string, mods dom.Modifiers) {
	a.dispatch("keydown", func() { a.doc.KeyDown(a.doc.ByUID(uid), key, mods) })
}

// Input sets the value of the field addressed by uid.
func (a *App) Input(uid, value string) {
	a.dispatch("input", func() { a.doc.SetValue(a.doc.ByUID(uid), value) })
}

// Hover reports the pointer entering or leaving uid.
func (a *App) Hover(uid string, enter bool) {
	a.dispatch("hover", func() {
		if n := a.doc.ByUID(uid); n != nil {
			a.doc.Hover(n, enter)
		}
	})
}

// Scroll applies measured geometry, then the viewport and scroll offset.
func (a *App) Scroll(r ScrollReport) {
	a.dispatch("scroll", func() {
		if len(r.Boxes) > 0 {
			byUID := indexUIDs(a.doc.Root())
			for uid, box := range r.Boxes {
				if n, ok := byUID[uid]; ok {
					dom.SetBox(n, box)
				}
			}
		}
		if r.Width != a.doc.ViewportWidth() || r.Height != a.doc.ViewportHeight() {
			a.doc.SetViewport(r.Width, r.Height)
		}
		a.doc.ScrollTo(r.Y)
	})
}

// ColorScheme reports the system color scheme.
func (a *App) ColorScheme(dark bool) {
	a.dispatch("color-scheme", func() { a.doc.SetPrefersDark(dark) })
}

// Notify shows a toast.
func (a *App) Notify(message string, level notify.Level) {
	a.dispatch("notify", func() { a.Toast.Show(message, level) })
}

// Run runs fn on the page loop. Timers and background work re-enter here.
func (a *App) Run(fn func()) { a.dispatch("task", fn) }

// Body renders the body element.
func (a *App) Body() string { return dom.OuterHTML(a.doc.Body()) }

// HTML renders the whole document.
func (a *App) HTML() string { return a.doc.String() }

// Theme is the active theme.
func (a *App) Theme() string { return a.Shell.Theme.Current() }

// TakeNavigations returns and clears the navigations requested since the
// last call.
func (a *App) TakeNavigations() []dom.Navigation {
	navs := a.navs
	a.navs = nil
	return navs
}

// TakeScroll returns and clears a scroll offset set by the page itself.
func (a *App) TakeScroll() (float64, bool) {
	if a.scroll == nil {
		return 0, false
	}
	y := *a.scroll
	a.scroll = nil
	return y, true
}

// TakeResume returns the fetched resume once.
func (a *App) TakeResume() (*resume.Document, bool) { return a.Resume.Take() }

// Destroy releases every component and stops pending animation.
func (a *App) Destroy() {
	if a.reveal != nil {
		a.reveal.Stop()
	}
	for _, d := range []interface{ Destroy() }{
		a.Resume, a.Acknowledgements, a.Experience, a.Skills, a.Podcast,
		a.Speaking, a.Appearances, a.Projects, a.Typer, a.Sidebar,
	} {
		d.Destroy()
	}
	a.Toast.Clear()
	a.Shell.Destroy()
}

// Export renders the page once with everything revealed.
func Export(site *content.Site, static string, log *zap.Logger) (string, error) {
	a, err := New(Options{Site: site, Log: log, Static: static, Export: true})
	if err != nil {
		return "", err
	}
	defer a.Destroy()
	return a.HTML(), nil
}

// exportLayout places every element at the top of the page, so every
// observer sees it.
type exportLayout struct{}

func (exportLayout) Box(*html.Node) (dom.Rect, bool) { return dom.Rect{}, true }

func indexUIDs(root *html.Node) map[string]*html.Node {
	out := make(map[string]*html.Node)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if uid, ok := dom.Attr(n, "data-uid"); ok {
				out[uid] = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

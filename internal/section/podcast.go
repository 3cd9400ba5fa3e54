package section

import (
	"html/template"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
)

// EventPlatformClick fires when a listening platform link is clicked.
const EventPlatformClick = "platform-click"

// PlatformDetail is the payload of platform-click.
type PlatformDetail struct {
	Platform string
	URL      string
}

// PodcastOptions configure Podcast.
type PodcastOptions struct {
	EpisodesGridSelector  string
	PlatformLinksSelector string
	SupportLinksSelector  string
	Episodes              []content.Episode
	Platforms             []content.Platform
	Support               []content.Platform
	AnimateOnScroll       bool
	TrackClicks           bool
}

// Podcast renders the episode grid plus the platform and support links.
type Podcast struct {
	*Grid[content.Episode]

	opts          PodcastOptions
	platforms     []content.Platform
	support       []content.Platform
	platformLinks *html.Node
	supportLinks  *html.Node
	platformIDs   []dom.ListenerID
}

// NewPodcast builds and renders the podcast section rooted at root.
func NewPodcast(ctx *component.Context, root *html.Node, opts ...component.Option[PodcastOptions]) *Podcast {
	o := component.Apply(PodcastOptions{
		EpisodesGridSelector:  ".episodes-grid",
		PlatformLinksSelector: ".platform-links",
		SupportLinksSelector:  ".support-links",
		AnimateOnScroll:       true,
		TrackClicks:           true,
	}, opts...)

	var site *content.Site
	fallback := func() *content.Site {
		if site == nil {
			site = fallbackSite()
		}
		return site
	}
	episodes, platforms, support := o.Episodes, o.Platforms, o.Support
	if len(episodes) == 0 {
		episodes = fallback().Episodes
	}
	if len(platforms) == 0 {
		platforms = fallback().Platforms
	}
	if len(support) == 0 {
		support = fallback().Support
	}

	p := &Podcast{
		Grid: newGrid(ctx, root, o.EpisodesGridSelector, episodes, gridConfig[content.Episode]{
			noun:    "episode",
			plural:  "episodes",
			kind:    card.Episode(),
			prepend: true,
		}),
		opts:      o,
		platforms: append([]content.Platform(nil), platforms...),
		support:   append([]content.Platform(nil), support...),
	}
	p.platformLinks = p.Find(o.PlatformLinksSelector)
	p.supportLinks = p.Find(o.SupportLinksSelector)
	if o.AnimateOnScroll {
		p.animate(NewAnimator(ctx, DefaultAnimatorOptions(200*time.Millisecond)))
	}
	p.Init(p)
	return p
}

// BindEvents installs the default handlers.
func (p *Podcast) BindEvents() {
	p.Subscribe(p.names.click, logItem[content.Episode](p.Log(), "episode clicked"))
	p.Subscribe(p.names.linkClick, logItem[content.Episode](p.Log(), "episode link clicked"))
	p.Subscribe(EventPlatformClick, func(e component.Event) {
		d, _ := e.Detail.(PlatformDetail)
		p.Log().Debug("platform clicked", zap.String("platform", d.Platform))
	})
}

// OnInit renders everything.
func (p *Podcast) OnInit() { p.Render() }

// Render rebuilds episodes, platform links and support links.
func (p *Podcast) Render() {
	p.Grid.Render()
	p.renderPlatformLinks()
	p.renderSupportLinks()
}

var platformLinkTemplate = template.Must(template.New("platform").Funcs(template.FuncMap{"icon": card.Icon}).Parse(
	`<a href="{{.URL}}" class="platform-link {{.Name}}" target="_blank" rel="noopener noreferrer">{{icon .Name}}{{.DisplayName}}</a>`))

var supportLinkTemplate = template.Must(template.New("support").Funcs(template.FuncMap{"size": iconSize}).Parse(
	`<a href="{{.URL}}" class="support-btn {{.Name}}" target="_blank" rel="noopener noreferrer">` +
		`{{with .Icon}}<img src="{{.}}" alt="{{$.DisplayName}}" width="{{size $.IconWidth}}" height="{{size $.IconHeight}}">{{end}}{{.DisplayName}}</a>`))

// iconSize defaults support icon dimensions to 20px.
func iconSize(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

func (p *Podcast) renderPlatformLinks() {
	if p.platformLinks == nil {
		return
	}
	p.Unlisten(p.platformIDs...)
	p.platformIDs = p.platformIDs[:0]
	dom.RemoveChildren(p.platformLinks)
	for _, pl := range p.platforms {
		a := p.appendLink(p.platformLinks, platformLinkTemplate, pl)
		if a == nil || !p.opts.TrackClicks {
			continue
		}
		id := p.Listen(a, dom.Click, func(*dom.Event) {
			p.Emit(EventPlatformClick, PlatformDetail{Platform: pl.Name, URL: pl.URL})
		})
		p.platformIDs = append(p.platformIDs, id)
	}
}

func (p *Podcast) renderSupportLinks() {
	if p.supportLinks == nil {
		return
	}
	dom.RemoveChildren(p.supportLinks)
	for _, s := range p.support {
		p.appendLink(p.supportLinks, supportLinkTemplate, s)
	}
}

// appendLink renders one anchor into parent and returns it.
func (p *Podcast) appendLink(parent *html.Node, t *template.Template, pl content.Platform) *html.Node {
	markup, err := card.Execute(t, pl)
	if err != nil {
		p.Log().Warn("podcast link template failed", zap.String("platform", pl.Name), zap.Error(err))
		return nil
	}
	holder := p.Doc().CreateElement("div")
	if err := dom.SetInnerHTML(holder, markup); err != nil {
		p.Log().Warn("podcast link markup rejected", zap.Error(err))
		return nil
	}
	a := dom.QueryIn(holder, "a")
	if a == nil {
		return nil
	}
	dom.Remove(a)
	dom.AppendChild(parent, a)
	return a
}

// AddEpisode puts episode first, re-renders the episodes and emits
// episode-added.
func (p *Podcast) AddEpisode(episode content.Episode) { p.Add(episode) }

// RemoveEpisode drops the episode at i.
func (p *Podcast) RemoveEpisode(i int) { p.Remove(i) }

// Episodes returns a copy of the episodes.
func (p *Podcast) Episodes() []content.Episode { return p.All() }

// Platforms returns a copy of the listening platforms.
func (p *Podcast) Platforms() []content.Platform {
	return append([]content.Platform(nil), p.platforms...)
}

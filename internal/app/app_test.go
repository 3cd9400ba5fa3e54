package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/notify"
	"github.com/Zachkp/folio/internal/prefs"
	"github.com/Zachkp/folio/internal/resume"
	"github.com/Zachkp/folio/internal/schedule"
)

type harness struct {
	*App
	clock *schedule.Manual
	logs  *observer.ObservedLogs
	store *prefs.Memory
}

func newHarness(t *testing.T, edit func(*Options)) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{clock: schedule.NewManual(), logs: logs, store: prefs.NewMemory(nil)}
	opts := Options{Log: zap.New(core), Sched: h.clock, Store: h.store}
	if edit != nil {
		edit(&opts)
	}
	a, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(a.Destroy)
	h.App = a
	return h
}

func (h *harness) uid(t *testing.T, sel string) string {
	t.Helper()
	n := h.doc.Query(sel)
	require.NotNil(t, n, sel)
	uid, ok := dom.Attr(n, "data-uid")
	require.True(t, ok, sel)
	return uid
}

func defaultSite(t *testing.T) *content.Site {
	t.Helper()
	site, err := content.Default()
	require.NoError(t, err)
	return site
}

func TestNewRendersEverySection(t *testing.T) {
	h := newHarness(t, nil)
	site := defaultSite(t)

	assert.Len(t, h.doc.QueryAll(".projects-grid .project-card"), len(site.Projects))
	assert.Len(t, h.doc.QueryAll("#experience-timeline .experience-card"), len(site.Experience))
	assert.Len(t, h.doc.QueryAll("#ack-table-body .ack-result-row"), len(site.Acknowledgements))
	assert.Equal(t, len(site.Episodes), h.Podcast.Len())
	assert.Len(t, h.Skills.Categories(), len(site.Skills))
	assert.Equal(t, "shifra_db / home.sql", dom.TextContent(h.doc.Query(".mobile-header-title")))
	assert.Contains(t, h.HTML(), "/static/ui.js")
	assert.Equal(t, "light", h.Theme())

	_, ok := dom.Attr(h.doc.Body(), "data-uid")
	assert.True(t, ok)
	assert.True(t, dom.HasClass(h.doc.Query(".value-item"), "fade-in"))
}

func TestScrollReportDrivesGeometry(t *testing.T) {
	h := newHarness(t, nil)
	h.Scroll(ScrollReport{
		Y: 0, Width: 1280, Height: 800,
		Boxes: map[string]dom.Rect{
			h.uid(t, "section#home"):     {Top: 0, Height: 700},
			h.uid(t, "section#projects"): {Top: 2000, Height: 900},
		},
	})
	_, moved := h.TakeScroll()
	assert.False(t, moved, "client scrolls are not echoed")

	h.Click(h.uid(t, `.tree-child[data-section="projects"]`))
	y, moved := h.TakeScroll()
	require.True(t, moved)
	assert.Equal(t, 1968.0, y)
	assert.Equal(t, "projects", h.Sidebar.Active())
	assert.True(t, dom.HasClass(h.doc.Query(`.ide-tab[data-section="projects"]`), "active"))
	assert.Empty(t, h.TakeNavigations())
}

func TestAltShortcutSyncsSidebarAndTabs(t *testing.T) {
	h := newHarness(t, nil)
	h.Scroll(ScrollReport{
		Y: 0, Width: 1280, Height: 800,
		Boxes: map[string]dom.Rect{
			h.uid(t, "section#home"):     {Top: 0, Height: 700},
			h.uid(t, "section#speaking"): {Top: 3000, Height: 600},
		},
	})

	h.Key("", "6", dom.Modifiers{Alt: true})
	y, moved := h.TakeScroll()
	require.True(t, moved)
	assert.Equal(t, 2920.0, y)
	assert.Equal(t, "speaking", h.Sidebar.Active())
	assert.True(t, dom.HasClass(h.doc.Query(`.ide-tab[data-section="speaking"]`), "active"))
	assert.False(t, dom.HasClass(h.doc.Query(`.ide-tab[data-section="home"]`), "active"))
}

func TestSidebarClosesAfterMobileSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.Scroll(ScrollReport{Width: 600, Height: 900})

	h.Click(h.uid(t, "#mobile-hamburger"))
	require.True(t, h.Sidebar.IsOpen())
	assert.True(t, dom.HasClass(h.doc.ByID("sidebar-overlay"), "active"))

	h.Click(h.uid(t, `.tree-child[data-section="skills"]`))
	assert.False(t, h.Sidebar.IsOpen())

	h.Click(h.uid(t, "#mobile-hamburger"))
	h.Key("", "Escape", dom.Modifiers{})
	assert.False(t, h.Sidebar.IsOpen())

	h.Click(h.uid(t, "#mobile-hamburger"))
	h.Click(h.uid(t, "#sidebar-overlay"))
	assert.False(t, h.Sidebar.IsOpen())
}

func TestFolderToggleFlipsChildrenAndChevron(t *testing.T) {
	h := newHarness(t, nil)
	h.Click(h.uid(t, ".tree-folder"))
	assert.False(t, dom.HasClass(h.doc.ByID("portfolio-folder"), "open"))
	assert.False(t, dom.HasClass(h.doc.ByID("portfolio-chevron"), "open"))
	h.Click(h.uid(t, ".tree-folder"))
	assert.True(t, dom.HasClass(h.doc.ByID("portfolio-folder"), "open"))
}

func TestSectionObserverSetsMobileTitle(t *testing.T) {
	h := newHarness(t, nil)
	h.Scroll(ScrollReport{
		Y: 1000, Width: 1280, Height: 800,
		Boxes: map[string]dom.Rect{
			h.uid(t, "section#home"):   {Top: 0, Height: 900},
			h.uid(t, "section#skills"): {Top: 1000, Height: 600},
		},
	})
	assert.Equal(t, "skills", h.Sidebar.Active())
	assert.Equal(t, "shifra_db / skills.sql", dom.TextContent(h.doc.Query(".mobile-header-title")))
}

func TestThemeClickPersists(t *testing.T) {
	h := newHarness(t, nil)
	h.Click(h.uid(t, "#theme-toggle"))
	assert.Equal(t, "dark", h.Theme())
	v, ok, err := h.store.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	h.Click(h.uid(t, "#theme-toggle"))
	h.ColorScheme(true)
	assert.Equal(t, "light", h.Theme(), "a saved choice wins over the system")
}

func TestResumeWithoutDocumentToasts(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.ResumeURL = "https://example.com/nothing" })
	h.Click(h.uid(t, "#resume-download"))

	toast := h.doc.Query(".toast")
	require.NotNil(t, toast)
	assert.Equal(t, resume.MsgNoDocument, dom.TextContent(toast))
	_, ok := h.TakeResume()
	assert.False(t, ok)
}

func TestNotifyShowsToast(t *testing.T) {
	h := newHarness(t, nil)
	h.Notify("Thanks for reaching out!", notify.Success)
	assert.True(t, dom.HasClass(h.doc.Query(".toast"), "toast-success"))
	assert.Contains(t, h.Body(), "Thanks for reaching out!")

	h.Run(func() { h.clock.Advance(notify.Dwell + notify.ExitDelay) })
	assert.Nil(t, h.doc.Query(".toast"))
}

func TestPanickingHandlerIsContained(t *testing.T) {
	h := newHarness(t, nil)
	h.Run(func() { panic("boom") })
	assert.Equal(t, 1, h.logs.FilterMessage("uncaught error").Len())

	h.Click(h.uid(t, "#theme-toggle"))
	assert.Equal(t, "dark", h.Theme())
}

func TestTyperCyclesRoles(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><span id="typed-role"></span></body></html>`)
	require.NoError(t, err)
	clock := schedule.NewManual()
	ctx := &component.Context{Doc: doc, Sched: clock}
	typer := NewTyper(ctx, func(o *TyperOptions) { o.Roles = []string{"ab", "c"} })

	assert.Equal(t, "a", typer.Text())
	clock.Advance(80 * time.Millisecond)
	assert.Equal(t, "ab", typer.Text())
	clock.Advance(1800 * time.Millisecond)
	assert.Equal(t, "a", typer.Text())
	clock.Advance(45 * time.Millisecond)
	assert.Equal(t, "", typer.Text())
	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, "c", typer.Text())

	typer.Destroy()
	assert.Equal(t, 0, clock.Pending())
}

func TestExportIsStaticAndRevealed(t *testing.T) {
	site := defaultSite(t)
	out, err := Export(site, "static", nil)
	require.NoError(t, err)

	assert.NotContains(t, out, "ui.js")
	assert.Contains(t, out, `href="static/style.css"`)
	assert.NotContains(t, out, "data-uid")
	assert.Contains(t, out, `<span id="typed-role">`+site.TypingRoles[0]+`</span>`)
	assert.Contains(t, out, site.Database+" / home.sql")
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
}

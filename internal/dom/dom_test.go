package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html><html><head></head><body>
<nav id="nav"><a class="nav-link" href="#about">About</a></nav>
<div id="card" class="card"><h3>Title</h3><a id="link" href="https://example.com" target="_blank"><img src="x.png"></a></div>
<section id="about" data-top="0" data-height="500"><p class="inner">text</p></section>
<section id="projects" data-top="500" data-height="500"></section>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	require.NoError(t, err)
	return doc
}

func TestQueryMissingAndInvalidSelectors(t *testing.T) {
	doc := mustParse(t)

	assert.Nil(t, doc.Query(".does-not-exist"))
	assert.Nil(t, doc.Query("[[[invalid"))
	assert.Empty(t, doc.QueryAll("###"))
	assert.Nil(t, QueryIn(nil, "div"))
	assert.NotNil(t, doc.ByID("card"))
	assert.Len(t, doc.QueryAll("section"), 2)
}

func TestClassHelpersAreNilSafe(t *testing.T) {
	AddClass(nil, "x")
	RemoveClass(nil, "x")
	assert.False(t, ToggleClass(nil, "x"))
	assert.False(t, HasClass(nil, "x"))

	doc := mustParse(t)
	card := doc.ByID("card")
	AddClass(card, "active")
	AddClass(card, "active")
	assert.Equal(t, []string{"card", "active"}, Classes(card))
	assert.False(t, ToggleClass(card, "active"))
	assert.True(t, ToggleClass(card, "open"))
	RemoveClass(card, "card")
	assert.Equal(t, []string{"open"}, Classes(card))
}

func TestStyleDeclarations(t *testing.T) {
	doc := mustParse(t)
	card := doc.ByID("card")

	SetStyle(card, "transform", "translateX(100%)")
	SetStyle(card, "background", "#1f2227")
	SetStyle(card, "transform", "translateX(0)")
	assert.Equal(t, "translateX(0)", Style(card, "transform"))
	assert.Equal(t, "transform: translateX(0); background: #1f2227", AttrOr(card, "style", ""))

	SetStyle(card, "transform", "")
	SetStyle(card, "background", "")
	_, ok := Attr(card, "style")
	assert.False(t, ok)
}

func TestInnerHTMLRoundTrip(t *testing.T) {
	doc := mustParse(t)
	card := doc.ByID("card")

	require.NoError(t, SetInnerHTML(card, `<p class="x">hi <b>there</b></p>`))
	assert.Equal(t, `<p class="x">hi <b>there</b></p>`, InnerHTML(card))
	assert.Equal(t, "hi there", TextContent(card))

	SetTextContent(card, "<plain>")
	assert.Equal(t, "&lt;plain&gt;", InnerHTML(card))
}

func TestDispatchBubblesInRegistrationOrder(t *testing.T) {
	doc := mustParse(t)
	inner := doc.Query(".inner")
	section := doc.ByID("about")

	var order []string
	doc.AddEventListener(inner, Click, func(*Event) { order = append(order, "inner-1") })
	doc.AddEventListener(inner, Click, func(*Event) { order = append(order, "inner-2") })
	doc.AddEventListener(section, Click, func(e *Event) {
		assert.Equal(t, inner, e.Target)
		assert.Equal(t, section, e.CurrentTarget)
		order = append(order, "section")
	})
	doc.AddEventListener(doc.Window(), Click, func(*Event) { order = append(order, "window") })

	doc.Click(inner)
	assert.Equal(t, []string{"inner-1", "inner-2", "section", "window"}, order)
}

func TestStopPropagationAndRemoval(t *testing.T) {
	doc := mustParse(t)
	inner := doc.Query(".inner")
	section := doc.ByID("about")

	calls := 0
	id := doc.AddEventListener(inner, Click, func(e *Event) { e.StopPropagation() })
	doc.AddEventListener(section, Click, func(*Event) { calls++ })

	doc.Click(inner)
	assert.Equal(t, 0, calls)

	doc.RemoveEventListener(id)
	doc.RemoveEventListener(id)
	doc.Click(inner)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, doc.ListenerCount(inner))
	assert.Equal(t, ListenerID(0), doc.AddEventListener(nil, Click, func(*Event) {}))
}

func TestClickOnAnchorNavigatesUnlessPrevented(t *testing.T) {
	doc := mustParse(t)
	var navs []Navigation
	doc.OnNavigate(func(n Navigation) { navs = append(navs, n) })

	img := doc.Query("#link img")
	doc.Click(img)
	require.Len(t, navs, 1)
	assert.Equal(t, Navigation{URL: "https://example.com", Target: "_blank"}, navs[0])

	doc.AddEventListener(doc.ByID("link"), Click, func(e *Event) { e.PreventDefault() })
	assert.False(t, doc.Click(img))
	assert.Len(t, navs, 1)
}

func TestStampIDsAddressesNodes(t *testing.T) {
	doc := mustParse(t)
	doc.StampIDs()
	card := doc.ByID("card")
	uid, ok := Attr(card, "data-uid")
	require.True(t, ok)
	assert.Equal(t, card, doc.ByUID(uid))

	doc.StampIDs()
	again, _ := Attr(card, "data-uid")
	assert.Equal(t, uid, again)
}

func TestIntersectionObserverDeliversOnFlush(t *testing.T) {
	doc := mustParse(t)
	doc.SetViewport(1280, 400)

	var seen []Entry
	obs := doc.NewIntersectionObserver(ObserverOptions{Threshold: 0.35}, func(entries []Entry, _ *Observer) {
		seen = append(seen, entries...)
	})
	about := doc.ByID("about")
	projects := doc.ByID("projects")
	obs.Observe(about)
	obs.Observe(projects)
	assert.Empty(t, seen, "delivery is asynchronous")

	doc.Flush()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsIntersecting)
	assert.False(t, seen[1].IsIntersecting)

	seen = nil
	doc.ScrollTo(600)
	doc.Flush()
	require.Len(t, seen, 2)
	assert.Equal(t, about, seen[0].Target)
	assert.False(t, seen[0].IsIntersecting)
	assert.True(t, seen[1].IsIntersecting)

	seen = nil
	obs.Disconnect()
	doc.ScrollTo(0)
	doc.Flush()
	assert.Empty(t, seen)
}

func TestLayoutFallsBackToAncestorBox(t *testing.T) {
	doc := mustParse(t)
	box, ok := doc.Box(doc.Query(".inner"))
	require.True(t, ok)
	assert.Equal(t, Rect{Top: 0, Height: 500}, box)

	_, ok = doc.Box(doc.ByID("nav"))
	assert.False(t, ok)
}

func TestColorSchemeChange(t *testing.T) {
	doc := mustParse(t)
	var got []bool
	doc.AddEventListener(doc.ColorSchemeQuery(), Change, func(e *Event) { got = append(got, e.Matches) })

	doc.SetPrefersDark(true)
	doc.SetPrefersDark(true)
	doc.SetPrefersDark(false)
	assert.Equal(t, []bool{true, false}, got)
}

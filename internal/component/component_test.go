package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/schedule"
)

type lifecycleSpy struct {
	Base
	calls []string
}

func (p *lifecycleSpy) BindEvents() {
	p.calls = append(p.calls, "bind:"+boolString(p.Initialized()))
	p.On(dom.Click, func(*dom.Event) { p.calls = append(p.calls, "click") })
}

func (p *lifecycleSpy) OnInit()          { p.calls = append(p.calls, "init:"+boolString(p.Initialized())) }
func (p *lifecycleSpy) OnDestroy()       { p.calls = append(p.calls, "destroy") }
func (p *lifecycleSpy) OnOptionsUpdate() { p.calls = append(p.calls, "options") }

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func newContext(t *testing.T, markup string) *Context {
	t.Helper()
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	return &Context{Doc: doc, Sched: schedule.NewManual(), Post: func(fn func()) { fn() }}
}

func TestLifecycleOrder(t *testing.T) {
	ctx := newContext(t, `<div id="box"></div>`)
	p := &lifecycleSpy{Base: NewBaseSelector(ctx, "#box")}
	p.Init(p)

	assert.Equal(t, []string{"bind:false", "init:true"}, p.calls)
	assert.True(t, p.Initialized())

	ctx.Doc.Click(p.Element())
	assert.Contains(t, p.calls, "click")
}

func TestMissingElementIsNoOp(t *testing.T) {
	ctx := newContext(t, `<div></div>`)
	p := &lifecycleSpy{Base: NewBaseSelector(ctx, "#missing")}
	p.Init(p)

	assert.Empty(t, p.calls)
	assert.False(t, p.Initialized())
	assert.False(t, p.AddClass("x").HasClass("x"))
	p.Hide().Show()
	p.Destroy()
}

func TestInvalidSelectorsMatchNothing(t *testing.T) {
	ctx := newContext(t, `<div id="box"><span class="x"></span></div>`)

	var p *lifecycleSpy
	require.NotPanics(t, func() { p = &lifecycleSpy{Base: NewBaseSelector(ctx, "div[[")} })
	p.Init(p)
	assert.Nil(t, p.Element())
	assert.False(t, p.Initialized())

	box := &lifecycleSpy{Base: NewBaseSelector(ctx, "#box")}
	assert.NotPanics(t, func() {
		assert.Nil(t, box.Find("span[["))
		assert.Empty(t, box.FindAll("###"))
		assert.Nil(t, dom.Closest(box.Find(".x"), "div[["))
	})
	// A cached failure stays a miss.
	assert.Nil(t, ctx.Doc.Query("div[["))
}

func TestDestroyReleasesListenersAndIsIdempotent(t *testing.T) {
	ctx := newContext(t, `<div id="box"></div><button id="other"></button>`)
	p := &lifecycleSpy{Base: NewBaseSelector(ctx, "#box")}
	p.SetRemoveOnDestroy(true)
	p.Init(p)
	p.ListenSelector("#other", dom.Click, func(*dom.Event) {})
	p.ListenSelector("#nope", dom.Click, func(*dom.Event) {})
	require.Equal(t, 2, p.ListenerCount())

	box := p.Element()
	p.Destroy()
	p.Destroy()

	assert.Equal(t, 0, p.ListenerCount())
	assert.Equal(t, 0, ctx.Doc.ListenerCount(box))
	assert.Equal(t, 0, ctx.Doc.ListenerCount(ctx.Doc.ByID("other")))
	assert.False(t, ctx.Doc.Contains(box))
	assert.False(t, p.Initialized())
	assert.Equal(t, 1, countOf(p.calls, "destroy"))
}

func TestEmitCarriesOwnerAndDetail(t *testing.T) {
	ctx := newContext(t, `<div id="box"></div>`)
	p := &lifecycleSpy{Base: NewBaseSelector(ctx, "#box")}
	p.Init(p)

	var got []Event
	unsubscribe := p.Subscribe("thing-happened", func(e Event) { got = append(got, e) })
	p.Subscribe("thing-happened", func(e Event) { got = append(got, Event{Name: "second"}) })

	p.Emit("thing-happened", 42)
	unsubscribe()
	unsubscribe()
	p.Emit("thing-happened", 43)

	require.Len(t, got, 3)
	assert.Same(t, p, got[0].Component)
	assert.Equal(t, 42, got[0].Detail)
	assert.Equal(t, "second", got[1].Name)
	assert.Equal(t, "second", got[2].Name)
}

func TestHelpersChainOnRoot(t *testing.T) {
	ctx := newContext(t, `<div id="box" style="display: none" class="hidden"><span class="x"></span><span class="x"></span></div>`)
	p := &lifecycleSpy{Base: NewBaseSelector(ctx, "#box")}

	p.AddClass("a").AddClass("b").RemoveClass("a").ToggleClass("c").SetAttr("role", "switch")
	assert.True(t, p.HasClass("b"))
	assert.True(t, p.HasClass("c"))
	assert.False(t, p.HasClass("a"))
	role, _ := p.Attr("role")
	assert.Equal(t, "switch", role)
	assert.Len(t, p.FindAll(".x"), 2)
	assert.NotNil(t, p.Find(".x"))

	p.Show()
	assert.False(t, p.HasClass("hidden"))
	assert.Empty(t, dom.Style(p.Element(), "display"))
	p.Hide()
	assert.True(t, p.HasClass("hidden"))
}

func TestNotifyOptionsUpdate(t *testing.T) {
	ctx := newContext(t, `<div id="box"></div>`)
	p := &lifecycleSpy{Base: NewBaseSelector(ctx, "#box")}
	p.Init(p)
	p.NotifyOptionsUpdate()
	assert.Equal(t, "options", p.calls[len(p.calls)-1])
}

func TestApplyLaterOptionsWin(t *testing.T) {
	type settings struct {
		A string
		B int
	}
	got := Apply(settings{A: "default", B: 1},
		func(s *settings) { s.A = "first" },
		nil,
		func(s *settings) { s.A = "second" },
	)
	assert.Equal(t, settings{A: "second", B: 1}, got)
}

func countOf(list []string, s string) int {
	n := 0
	for _, have := range list {
		if have == s {
			n++
		}
	}
	return n
}

package section

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/folio/internal/dom"
)

type memStore struct {
	values         map[string]string
	getErr, setErr error
	sets, deletes  int
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (m *memStore) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	m.deletes++
	delete(m.values, key)
	return nil
}

type navbarSpy struct{ calls int }

func (n *navbarSpy) UpdateNavbarBackground() { n.calls++ }

func newTheme(t *testing.T, store *memStore, nav *navbarSpy) (*page, *ThemeToggle) {
	t.Helper()
	p := newPage(t)
	toggle := NewThemeToggle(p.ctx, p.byID("theme-toggle"), func(o *ThemeOptions) {
		if store != nil {
			o.Store = store
		}
		if nav != nil {
			o.Navbar = nav
		}
	})
	return p, toggle
}

func TestThemeStartsFromDefault(t *testing.T) {
	p, toggle := newTheme(t, newMemStore(), nil)

	assert.Equal(t, "light", toggle.Current())
	assert.True(t, toggle.IsLight())
	assert.Equal(t, "light", dom.AttrOr(p.ctx.Doc.DocumentElement(), "data-theme", ""))
	assert.ElementsMatch(t, []string{"page", "theme-light"}, dom.Classes(p.ctx.Doc.Body()))

	button := p.byID("theme-toggle")
	assert.Equal(t, "switch", dom.AttrOr(button, "role", ""))
	assert.Equal(t, "false", dom.AttrOr(button, "aria-checked", ""))
	assert.Contains(t, dom.InnerHTML(p.ctx.Doc.Query(".theme-icon")), "M21 12.79", "light shows the moon")
}

func TestThemeRestoresSavedPreference(t *testing.T) {
	store := newMemStore()
	store.values["theme"] = "dark"
	p, toggle := newTheme(t, store, nil)

	assert.True(t, toggle.IsDark())
	assert.Contains(t, dom.InnerHTML(p.ctx.Doc.Query(".theme-icon")), "circle")
	assert.Equal(t, "true", dom.AttrOr(p.byID("theme-toggle"), "aria-checked", ""))
}

func TestThemeIgnoresUnknownSavedValue(t *testing.T) {
	store := newMemStore()
	store.values["theme"] = "sepia"
	_, toggle := newTheme(t, store, nil)
	assert.Equal(t, "light", toggle.Current())
}

func TestToggleCyclesAndPersists(t *testing.T) {
	nav := &navbarSpy{}
	store := newMemStore()
	p, toggle := newTheme(t, store, nav)
	rec := record(&toggle.Base, EventThemeChange)

	p.ctx.Doc.Click(p.byID("theme-toggle"))
	assert.Equal(t, "dark", toggle.Current())
	assert.Equal(t, "dark", store.values["theme"])
	assert.ElementsMatch(t, []string{"page", "theme-dark"}, dom.Classes(p.ctx.Doc.Body()))
	assert.Equal(t, ThemeDetail{Theme: "dark", Previous: "light", IsDark: true}, rec.events[0].Detail)

	toggle.Toggle()
	assert.Equal(t, "light", toggle.Current(), "toggling once per theme returns to the start")
	assert.Equal(t, 2, store.sets)
	assert.Equal(t, 3, nav.calls, "init plus one per change")
}

func TestUnsupportedThemeIsIgnored(t *testing.T) {
	store := newMemStore()
	_, toggle := newTheme(t, store, nil)
	rec := record(&toggle.Base, EventThemeChange)

	toggle.SetTheme("purple")
	assert.Equal(t, "light", toggle.Current())
	assert.Zero(t, store.sets)
	assert.Empty(t, rec.events)
}

func TestShortcutToggles(t *testing.T) {
	p, toggle := newTheme(t, nil, nil)

	assert.True(t, p.ctx.Doc.KeyDown(nil, "T", dom.Modifiers{Shift: true}))
	assert.Equal(t, "light", toggle.Current())

	assert.False(t, p.ctx.Doc.KeyDown(nil, "T", dom.Modifiers{Ctrl: true, Shift: true}))
	assert.Equal(t, "dark", toggle.Current())
	p.ctx.Doc.KeyDown(nil, "T", dom.Modifiers{Meta: true, Shift: true})
	assert.Equal(t, "light", toggle.Current())
}

func TestSystemChangeFollowedOnlyWithoutPreference(t *testing.T) {
	store := newMemStore()
	p, toggle := newTheme(t, store, nil)

	p.ctx.Doc.SetPrefersDark(true)
	assert.Equal(t, "dark", toggle.Current())
	assert.Empty(t, store.values, "system changes are not saved")

	toggle.SetTheme("light")
	p.ctx.Doc.SetPrefersDark(false)
	p.ctx.Doc.SetPrefersDark(true)
	assert.Equal(t, "light", toggle.Current())
}

func TestResetToSystem(t *testing.T) {
	store := newMemStore()
	store.values["theme"] = "light"
	p, toggle := newTheme(t, store, nil)
	p.ctx.Doc.SetPrefersDark(true)
	require.Equal(t, "light", toggle.Current())

	toggle.ResetToSystem()
	assert.Equal(t, "dark", toggle.Current())
	assert.Equal(t, "dark", toggle.SystemTheme())
	assert.Equal(t, 1, store.deletes)
	_, saved := store.values["theme"]
	assert.False(t, saved)
	assert.Zero(t, store.sets)
}

func TestStoreErrorsAreLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := newMemStore()
	store.getErr = errors.New("disk gone")
	store.setErr = errors.New("disk gone")

	p := newPage(t)
	p.ctx.Log = zap.New(core)
	toggle := NewThemeToggle(p.ctx, p.byID("theme-toggle"), func(o *ThemeOptions) { o.Store = store })
	assert.Equal(t, "light", toggle.Current())

	toggle.Toggle()
	assert.Equal(t, "dark", toggle.Current())
	assert.Equal(t, 1, logs.FilterMessage("could not read theme preference").Len())
	assert.Equal(t, 1, logs.FilterMessage("could not save theme preference").Len())
}

func TestThemeUpdateOptionsReapplies(t *testing.T) {
	p, toggle := newTheme(t, nil, nil)
	toggle.UpdateOptions(func(o *ThemeOptions) { o.MoonIcon = `<i class="moon"></i>` })
	assert.NotNil(t, p.ctx.Doc.Query(".theme-icon i.moon"))
}

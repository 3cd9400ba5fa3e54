package section

import (
	"html/template"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
)

// EventThemeChange fires after a theme was applied.
const EventThemeChange = "theme-change"

// ThemeDetail is the payload of theme-change.
type ThemeDetail struct {
	Theme    string
	Previous string
	IsDark   bool
}

// Store is the key/value store the theme preference lives in.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Navbar is told to refresh its background after a theme change.
type Navbar interface {
	UpdateNavbarBackground()
}

// Theme icons. The icon shows the theme a click switches to.
const (
	SunIcon  template.HTML = `<svg width="16" height="16" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg"><circle cx="12" cy="12" r="5" stroke="currentColor" stroke-width="2"/><path d="M12 1v2m0 18v2M4.2 4.2l1.4 1.4m12.8 12.8l1.4 1.4M1 12h2m18 0h2M4.2 19.8l1.4-1.4M18.4 5.6l1.4-1.4" stroke="currentColor" stroke-width="2"/></svg>`
	MoonIcon template.HTML = `<svg width="16" height="16" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg"><path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z" stroke="currentColor" stroke-width="2" fill="currentColor"/></svg>`
)

// ThemeOptions configure ThemeToggle.
type ThemeOptions struct {
	IconSelector string
	StorageKey   string
	DefaultTheme string
	Themes       []string
	SunIcon      template.HTML
	MoonIcon     template.HTML
	Store        Store
	Navbar       Navbar
}

// DefaultThemeOptions are the page defaults. Without a Store the preference
// is not persisted.
func DefaultThemeOptions() ThemeOptions {
	return ThemeOptions{
		IconSelector: ".theme-icon",
		StorageKey:   "theme",
		DefaultTheme: "light",
		Themes:       []string{"light", "dark"},
		SunIcon:      SunIcon,
		MoonIcon:     MoonIcon,
	}
}

var themeClass = regexp.MustCompile(`^theme-\w+$`)

// ThemeToggle switches between themes, persists the choice and follows the
// system preference while the user has not chosen.
type ThemeToggle struct {
	component.Base

	opts    ThemeOptions
	icon    *html.Node
	current string
}

// NewThemeToggle binds to the toggle button and applies the initial theme:
// the saved preference if it is a known theme, else the default.
func NewThemeToggle(ctx *component.Context, root *html.Node, opts ...component.Option[ThemeOptions]) *ThemeToggle {
	o := component.Apply(DefaultThemeOptions(), opts...)
	t := &ThemeToggle{Base: component.NewBase(ctx, root), opts: o}
	t.icon = t.Find(o.IconSelector)
	t.current = o.DefaultTheme
	if saved, ok := t.saved(); ok && t.supported(saved) {
		t.current = saved
	}
	t.Init(t)
	t.applyTheme(t.current)
	t.updateIcon(t.current)
	return t
}

// BindEvents wires the click, the system preference and the shortcut.
func (t *ThemeToggle) BindEvents() {
	t.On(dom.Click, func(*dom.Event) { t.Toggle() })
	t.Listen(t.Doc().ColorSchemeQuery(), dom.Change, t.handleSystemThemeChange)
	t.Listen(t.Doc().Window(), dom.KeyDown, t.handleKeydown)
}

// OnInit sets the switch semantics.
func (t *ThemeToggle) OnInit() {
	t.SetAttr("aria-label", "Toggle dark mode").
		SetAttr("role", "switch").
		SetAttr("aria-checked", boolAttr(t.current == "dark"))
}

// Toggle moves to the next theme in the list.
func (t *ThemeToggle) Toggle() {
	themes := t.opts.Themes
	if len(themes) == 0 {
		return
	}
	next := (slices.Index(themes, t.current) + 1) % len(themes)
	t.SetTheme(themes[next])
}

// SetTheme applies and persists theme. Unknown themes are logged and
// ignored.
func (t *ThemeToggle) SetTheme(theme string) {
	t.setTheme(theme, true)
}

func (t *ThemeToggle) setTheme(theme string, persist bool) {
	if !t.supported(theme) {
		t.Log().Warn("unsupported theme", zap.String("theme", theme), zap.Strings("themes", t.opts.Themes))
		return
	}
	previous := t.current
	t.current = theme
	t.applyTheme(theme)
	if persist {
		t.save(theme)
	}
	t.updateIcon(theme)
	t.SetAttr("aria-checked", boolAttr(theme == "dark"))
	t.Emit(EventThemeChange, ThemeDetail{Theme: theme, Previous: previous, IsDark: theme == "dark"})
}

func (t *ThemeToggle) supported(theme string) bool {
	return slices.Contains(t.opts.Themes, theme)
}

func (t *ThemeToggle) applyTheme(theme string) {
	dom.SetAttr(t.Doc().DocumentElement(), "data-theme", theme)
	if body := t.Doc().Body(); body != nil {
		var kept []string
		for _, c := range dom.Classes(body) {
			if !themeClass.MatchString(c) {
				kept = append(kept, c)
			}
		}
		dom.SetClassName(body, strings.Join(append(kept, "theme-"+theme), " "))
	}
	if t.opts.Navbar != nil {
		t.opts.Navbar.UpdateNavbarBackground()
	}
}

func (t *ThemeToggle) updateIcon(theme string) {
	if t.icon == nil {
		return
	}
	icon := t.opts.MoonIcon
	if theme == "dark" {
		icon = t.opts.SunIcon
	}
	if err := dom.SetInnerHTML(t.icon, string(icon)); err != nil {
		t.Log().Warn("theme icon rejected", zap.Error(err))
	}
}

func (t *ThemeToggle) saved() (string, bool) {
	if t.opts.Store == nil {
		return "", false
	}
	v, ok, err := t.opts.Store.Get(t.opts.StorageKey)
	if err != nil {
		t.Log().Warn("could not read theme preference", zap.Error(err))
		return "", false
	}
	return v, ok && v != ""
}

func (t *ThemeToggle) save(theme string) {
	if t.opts.Store == nil {
		return
	}
	if err := t.opts.Store.Set(t.opts.StorageKey, theme); err != nil {
		t.Log().Warn("could not save theme preference", zap.Error(err))
	}
}

// SystemTheme is the theme matching the color-scheme preference.
func (t *ThemeToggle) SystemTheme() string {
	if t.Doc().PrefersDark() {
		return "dark"
	}
	return "light"
}

// handleSystemThemeChange follows the system only while nothing is saved,
// and does not save what it applies.
func (t *ThemeToggle) handleSystemThemeChange(e *dom.Event) {
	if _, ok := t.saved(); ok {
		return
	}
	theme := "light"
	if e.Matches {
		theme = "dark"
	}
	t.setTheme(theme, false)
}

func (t *ThemeToggle) handleKeydown(e *dom.Event) {
	if (e.Ctrl || e.Meta) && e.Shift && e.Key == "T" {
		e.PreventDefault()
		t.Toggle()
	}
}

// ResetToSystem applies the system theme and forgets the saved preference.
func (t *ThemeToggle) ResetToSystem() {
	t.setTheme(t.SystemTheme(), false)
	if t.opts.Store == nil {
		return
	}
	if err := t.opts.Store.Delete(t.opts.StorageKey); err != nil {
		t.Log().Warn("could not clear theme preference", zap.Error(err))
	}
}

// Current is the applied theme.
func (t *ThemeToggle) Current() string { return t.current }

// IsDark reports whether the dark theme is applied.
func (t *ThemeToggle) IsDark() bool { return t.current == "dark" }

// IsLight reports whether the light theme is applied.
func (t *ThemeToggle) IsLight() bool { return t.current == "light" }

// UpdateOptions merges opts and re-applies the current theme.
func (t *ThemeToggle) UpdateOptions(opts ...component.Option[ThemeOptions]) {
	t.opts = component.Apply(t.opts, opts...)
	t.NotifyOptionsUpdate()
}

// OnOptionsUpdate re-applies the current theme with the new options.
func (t *ThemeToggle) OnOptionsUpdate() {
	t.icon = t.Find(t.opts.IconSelector)
	t.applyTheme(t.current)
	t.updateIcon(t.current)
}

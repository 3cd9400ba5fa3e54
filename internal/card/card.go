// Package card renders one record as an interactive block: clickable,
// keyboard-accessible, hoverable, with lazily loaded images.
//
// A card holds its own snapshot of the record. Changes made through
// UpdateData stay on the card; section controllers that own a collection
// re-render their cards from it instead.
package card

import (
	"bytes"
	"html/template"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/dom"
)

// Card event names.
const (
	EventClick      = "card-click"
	EventLinkClick  = "card-link-click"
	EventHoverEnter = "card-hover-enter"
	EventHoverLeave = "card-hover-leave"
	EventUpdate     = "card-update"
)

// Record is what every card can render with the default template.
type Record interface {
	CardTitle() string
	CardDescription() string
	CardFeatured() bool
	CardCategory() string
}

// Settings configure a card. Zero values are not the defaults; use Defaults.
type Settings struct {
	Template        string
	Clickable       bool
	AnimateOnHover  bool
	LazyLoadImages  bool
	RemoveOnDestroy bool
}

// Defaults are the settings every card starts from.
func Defaults() Settings {
	return Settings{
		Template:       "default",
		Clickable:      true,
		AnimateOnHover: true,
		LazyLoadImages: true,
	}
}

// Option overrides one setting.
type Option = component.Option[Settings]

// WithTemplate names the template; it shows up as the card-<name> class.
func WithTemplate(name string) Option { return func(s *Settings) { s.Template = name } }

// WithClickable turns card-level click handling on or off.
func WithClickable(on bool) Option { return func(s *Settings) { s.Clickable = on } }

// WithHover turns the hover class and events on or off.
func WithHover(on bool) Option { return func(s *Settings) { s.AnimateOnHover = on } }

// WithLazyImages turns deferred loading of img[data-src] on or off.
func WithLazyImages(on bool) Option { return func(s *Settings) { s.LazyLoadImages = on } }

// WithRemoveOnDestroy detaches the element on Destroy.
func WithRemoveOnDestroy(on bool) Option { return func(s *Settings) { s.RemoveOnDestroy = on } }

// Kind supplies the record-specific markup and classes. A nil Template uses
// the generic title and description block; nil Classes uses DefaultClasses.
// Bind, when set, runs after every BindEvents to wire kind-specific children.
type Kind[T Record] struct {
	Template func(T) (string, error)
	Classes  func(T, Settings) []string
	Bind     func(*Card[T])
}

// ClickDetail is the payload of card-click.
type ClickDetail[T Record] struct {
	Data  T
	Event *dom.Event
}

// LinkDetail is the payload of card-link-click.
type LinkDetail[T Record] struct {
	Href  string
	Data  T
	Event *dom.Event
}

// Card is one rendered record.
type Card[T Record] struct {
	component.Base

	container *html.Node
	kind      Kind[T]
	settings  Settings
	data      T

	rootBound bool
	linkIDs   []dom.ListenerID
	lazy      *dom.Observer
}

// New renders data into container. When container itself carries the card
// class it becomes the card; otherwise a new div is appended to it. A nil
// container yields an inert card.
func New[T Record](ctx *component.Context, container *html.Node, kind Kind[T], data T, opts ...Option) *Card[T] {
	settings := component.Apply(Defaults(), opts...)
	el := container
	if container != nil && !dom.HasClass(container, "card") {
		el = ctx.Doc.CreateElement("div")
	}
	c := &Card[T]{
		Base:      component.NewBase(ctx, el),
		container: container,
		kind:      kind,
		settings:  settings,
		data:      data,
	}
	c.SetRemoveOnDestroy(settings.RemoveOnDestroy)
	if el == nil {
		return c
	}
	if el != container {
		dom.AppendChild(container, el)
	}
	c.Render()
	c.Init(c)
	if settings.AnimateOnHover {
		c.addHover()
	}
	return c
}

// Render writes classes and markup to the root element.
func (c *Card[T]) Render() {
	el := c.Element()
	if el == nil {
		return
	}
	dom.SetClassName(el, "card "+strings.Join(c.classes(), " "))
	markup, err := c.template()
	if err != nil {
		c.Log().Warn("card template failed", zap.String("template", c.settings.Template), zap.Error(err))
		markup = ""
	}
	if err := dom.SetInnerHTML(el, markup); err != nil {
		c.Log().Warn("card markup rejected", zap.Error(err))
	}
	if c.settings.Clickable {
		dom.SetAttr(el, "tabindex", "0")
		dom.SetAttr(el, "role", "button")
	}
	if c.settings.LazyLoadImages {
		c.setupLazyLoading()
	}
}

func (c *Card[T]) template() (string, error) {
	if c.kind.Template != nil {
		return c.kind.Template(c.data)
	}
	return Execute(defaultTemplate, c.data)
}

func (c *Card[T]) classes() []string {
	if c.kind.Classes != nil {
		return c.kind.Classes(c.data, c.settings)
	}
	return DefaultClasses(c.data, c.settings)
}

// DefaultClasses composes card-<template>, featured, category-<x> and
// clickable.
func DefaultClasses(r Record, s Settings) []string {
	classes := []string{"card-" + s.Template}
	if r.CardFeatured() {
		classes = append(classes, "featured")
	}
	if cat := r.CardCategory(); cat != "" {
		classes = append(classes, "category-"+cat)
	}
	if s.Clickable {
		classes = append(classes, "clickable")
	}
	return classes
}

// BindEvents attaches root listeners once and link listeners for the
// current markup.
func (c *Card[T]) BindEvents() {
	if c.settings.Clickable && !c.rootBound {
		c.On(dom.Click, c.handleClick)
		c.On(dom.KeyDown, c.handleKeydown)
		c.rootBound = true
	}
	c.Unlisten(c.linkIDs...)
	c.linkIDs = c.linkIDs[:0]
	for _, a := range c.FindAll("a") {
		if id := c.Listen(a, dom.Click, c.handleLinkClick); id != 0 {
			c.linkIDs = append(c.linkIDs, id)
		}
	}
	if c.kind.Bind != nil {
		c.kind.Bind(c)
	}
}

func (c *Card[T]) handleClick(e *dom.Event) {
	if dom.Closest(e.Target, "a") != nil {
		return
	}
	c.Emit(EventClick, ClickDetail[T]{Data: c.data, Event: e})
	if c.settings.Clickable {
		if primary := c.Find("a"); primary != nil {
			c.Doc().Click(primary)
		}
	}
}

func (c *Card[T]) handleKeydown(e *dom.Event) {
	if e.Key == "Enter" || e.Key == " " {
		e.PreventDefault()
		c.handleClick(e)
	}
}

func (c *Card[T]) handleLinkClick(e *dom.Event) {
	e.StopPropagation()
	c.Emit(EventLinkClick, LinkDetail[T]{
		Href:  dom.AttrOr(e.CurrentTarget, "href", ""),
		Data:  c.data,
		Event: e,
	})
}

func (c *Card[T]) addHover() {
	c.On(dom.MouseEnter, func(*dom.Event) {
		c.AddClass("hover")
		c.Emit(EventHoverEnter, nil)
	})
	c.On(dom.MouseLeave, func(*dom.Event) {
		c.RemoveClass("hover")
		c.Emit(EventHoverLeave, nil)
	})
}

func (c *Card[T]) setupLazyLoading() {
	if c.lazy != nil {
		c.lazy.Disconnect()
		c.lazy = nil
	}
	images := c.FindAll("img[data-src]")
	if len(images) == 0 {
		return
	}
	c.lazy = c.Doc().NewIntersectionObserver(dom.ObserverOptions{}, func(entries []dom.Entry, obs *dom.Observer) {
		for _, entry := range entries {
			if !entry.IsIntersecting {
				continue
			}
			img := entry.Target
			dom.SetAttr(img, "src", dom.AttrOr(img, "data-src", ""))
			dom.RemoveClass(img, "lazy")
			obs.Unobserve(img)
		}
	})
	for _, img := range images {
		dom.AddClass(img, "lazy")
		c.lazy.Observe(img)
	}
}

// OnDestroy stops lazy loading.
func (c *Card[T]) OnDestroy() {
	if c.lazy != nil {
		c.lazy.Disconnect()
		c.lazy = nil
	}
}

// UpdateData edits the card's snapshot, re-renders and rebinds.
func (c *Card[T]) UpdateData(edit func(*T)) {
	if edit != nil {
		edit(&c.data)
	}
	c.Render()
	if c.Element() != nil {
		c.BindEvents()
	}
	c.Emit(EventUpdate, c.data)
}

// SetFeatured marks the record featured when its type supports it.
func (c *Card[T]) SetFeatured(featured bool) {
	c.UpdateData(func(d *T) {
		if f, ok := any(d).(interface{ SetCardFeatured(bool) }); ok {
			f.SetCardFeatured(featured)
		}
	})
}

// Data returns a copy of the card's record.
func (c *Card[T]) Data() T { return c.data }

// Settings returns the effective settings.
func (c *Card[T]) Settings() Settings { return c.settings }

// UpdateOptions merges opts and re-renders.
func (c *Card[T]) UpdateOptions(opts ...Option) {
	c.settings = component.Apply(c.settings, opts...)
	c.SetRemoveOnDestroy(c.settings.RemoveOnDestroy)
	c.NotifyOptionsUpdate()
}

// OnOptionsUpdate re-renders with the new settings.
func (c *Card[T]) OnOptionsUpdate() {
	c.Render()
	c.BindEvents()
}

// Container is the element the card was created in.
func (c *Card[T]) Container() *html.Node { return c.container }

var defaultTemplate = template.Must(template.New("default").Parse(
	`<div class="card-content">{{with .CardTitle}}<h3 class="card-title">{{.}}</h3>{{end}}{{with .CardDescription}}<p class="card-description">{{.}}</p>{{end}}</div>`))

// Execute renders t with data.
func Execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

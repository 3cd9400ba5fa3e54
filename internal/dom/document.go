// Package dom is a small headless document built on golang.org/x/net/html.
// It gives the component layer the parts of a browser document it relies on:
// selector lookup, class and attribute helpers, event listeners with bubbling,
// a scroll viewport and intersection observers.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Navigation is a default action produced by clicking an anchor.
type Navigation struct {
	URL    string
	Target string
}

// Document owns one parsed node tree plus the listener and observer state
// attached to it. It is not safe for concurrent use; callers serialize access.
type Document struct {
	root   *html.Node
	window *html.Node
	scheme *html.Node

	listeners map[*html.Node][]*listener
	byID      map[ListenerID]*listener
	nextID    ListenerID

	observers []*Observer
	tasks     []func()

	layout      Layout
	scrollY     float64
	viewHeight  float64
	viewWidth   float64
	prefersDark bool
	navigate    func(Navigation)
	nextUID     int
	focused     *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:       root,
		window:     &html.Node{Type: html.ElementNode, Data: "#window"},
		scheme:     &html.Node{Type: html.ElementNode, Data: "#prefers-color-scheme"},
		listeners:  make(map[*html.Node][]*listener),
		byID:       make(map[ListenerID]*listener),
		layout:     AttrLayout{},
		viewHeight: 800,
		viewWidth:  1280,
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Window returns the window event target. It never appears in the tree.
func (d *Document) Window() *html.Node { return d.window }

// ColorSchemeQuery is the event target for prefers-color-scheme changes.
func (d *Document) ColorSchemeQuery() *html.Node { return d.scheme }

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return c
		}
	}
	return nil
}

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	return d.Query("body")
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return findFirst(d.root, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// Query returns the first element matching sel, or nil when nothing matches
// or sel does not compile.
func (d *Document) Query(sel string) *html.Node {
	return QueryIn(d.root, sel)
}

// QueryAll returns every element matching sel in document order.
func (d *Document) QueryAll(sel string) []*html.Node {
	return QueryAllIn(d.root, sel)
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// OnNavigate installs the hook that receives anchor default actions.
func (d *Document) OnNavigate(fn func(Navigation)) { d.navigate = fn }

// Navigate runs the navigation hook, if any.
func (d *Document) Navigate(nav Navigation) {
	if d.navigate != nil {
		d.navigate(nav)
	}
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// StampIDs gives every element without a data-uid attribute a fresh one so a
// remote client can address nodes of the current render.
func (d *Document) StampIDs() {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := Attr(n, "data-uid"); !ok {
				d.nextUID++
				SetAttr(n, "data-uid", strconv.Itoa(d.nextUID))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// ByUID resolves a data-uid stamped by StampIDs.
func (d *Document) ByUID(uid string) *html.Node {
	if uid == "" {
		return nil
	}
	return findFirst(d.root, func(n *html.Node) bool {
		v, ok := Attr(n, "data-uid")
		return ok && v == uid
	})
}

// Focused returns the element that last received focus.
func (d *Document) Focused() *html.Node { return d.focused }

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

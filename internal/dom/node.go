package dom

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	selectorMu    sync.Mutex
	selectorCache = map[string]cascadia.Matcher{}
)

// compile returns a cached matcher, or nil for a selector that does not parse.
func compile(sel string) cascadia.Matcher {
	selectorMu.Lock()
	defer selectorMu.Unlock()
	if m, ok := selectorCache[sel]; ok {
		return m
	}
	// A failed compile must cache a nil interface, not a nil Selector.
	var m cascadia.Matcher
	if s, err := cascadia.Compile(sel); err == nil {
		m = s
	}
	selectorCache[sel] = m
	return m
}

// QueryIn returns the first descendant of n matching sel.
func QueryIn(n *html.Node, sel string) *html.Node {
	if n == nil {
		return nil
	}
	m := compile(sel)
	if m == nil {
		return nil
	}
	var found *html.Node
	walkDescendants(n, func(c *html.Node) bool {
		if m.Match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// QueryAllIn returns every descendant of n matching sel.
func QueryAllIn(n *html.Node, sel string) []*html.Node {
	if n == nil {
		return nil
	}
	m := compile(sel)
	if m == nil {
		return nil
	}
	var out []*html.Node
	walkDescendants(n, func(c *html.Node) bool {
		if m.Match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// walkDescendants visits element descendants in document order until visit
// returns false.
func walkDescendants(n *html.Node, visit func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !visit(c) {
			return false
		}
		if !walkDescendants(c, visit) {
			return false
		}
	}
	return true
}

// Matches reports whether n itself matches sel.
func Matches(n *html.Node, sel string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	m := compile(sel)
	return m != nil && m.Match(n)
}

// Closest walks from n up through its ancestors and returns the first element
// matching sel.
func Closest(n *html.Node, sel string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if Matches(p, sel) {
			return p
		}
	}
	return nil
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when it is absent.
func AttrOr(n *html.Node, name, def string) string {
	if v, ok := Attr(n, name); ok {
		return v
	}
	return def
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, name, value string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, name string) {
	if n == nil {
		return
	}
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// SetClassName replaces the whole class attribute.
func SetClassName(n *html.Node, className string) {
	SetAttr(n, "class", strings.Join(strings.Fields(className), " "))
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, have := range Classes(n) {
		if have == c {
			return true
		}
	}
	return false
}

// AddClass adds c to n's class list.
func AddClass(n *html.Node, c string) {
	if n == nil || c == "" || HasClass(n, c) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), c), " "))
}

// RemoveClass removes c from n's class list.
func RemoveClass(n *html.Node, c string) {
	if n == nil || !HasClass(n, c) {
		return
	}
	var kept []string
	for _, have := range Classes(n) {
		if have != c {
			kept = append(kept, have)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass flips c and reports whether it is now present.
func ToggleClass(n *html.Node, c string) bool {
	if n == nil {
		return false
	}
	if HasClass(n, c) {
		RemoveClass(n, c)
		return false
	}
	AddClass(n, c)
	return true
}

// Style returns one declaration from the inline style attribute.
func Style(n *html.Node, prop string) string {
	for _, decl := range styleDecls(n) {
		if decl[0] == prop {
			return decl[1]
		}
	}
	return ""
}

// SetStyle sets one inline style declaration; an empty value removes it.
func SetStyle(n *html.Node, prop, value string) {
	if n == nil {
		return
	}
	var parts []string
	replaced := false
	for _, decl := range styleDecls(n) {
		if decl[0] == prop {
			replaced = true
			if value == "" {
				continue
			}
			decl[1] = value
		}
		parts = append(parts, decl[0]+": "+decl[1])
	}
	if !replaced && value != "" {
		parts = append(parts, prop+": "+value)
	}
	if len(parts) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", strings.Join(parts, "; "))
}

func styleDecls(n *html.Node) [][2]string {
	v, _ := Attr(n, "style")
	var out [][2]string
	for _, decl := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out = append(out, [2]string{strings.TrimSpace(prop), strings.TrimSpace(val)})
	}
	return out
}

// SetInnerHTML replaces the children of n with the parsed fragment.
func SetInnerHTML(n *html.Node, markup string) error {
	if n == nil {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}
	RemoveChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// OuterHTML renders n itself.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// TextContent concatenates every text node under n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	if n == nil {
		return
	}
	RemoveChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// AppendChild moves child under parent, detaching it from any old parent.
func AppendChild(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	Remove(child)
	parent.AppendChild(child)
}

// InsertBefore moves child under parent before ref; a nil ref appends.
func InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil {
		return
	}
	Remove(child)
	if ref == nil || ref.Parent != parent {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// externalLinks opens every Markdown link in a new tab.
type externalLinks struct{}

func (externalLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			link.SetAttributeString("target", []byte("_blank"))
			link.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

// Bullet lines may carry raw anchors, so unsafe HTML passes through.
var markdown = goldmark.New(
	goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(externalLinks{}, 100)),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// RenderInline renders one line of Markdown without the paragraph wrapper.
func RenderInline(line string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(line), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return template.HTML(out), nil
}

// Bullets splits an experience description into rendered lines.
func (e Experience) Bullets() ([]template.HTML, error) {
	var out []template.HTML
	for _, line := range strings.Split(e.Description, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rendered, err := RenderInline(line)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

var months = strings.NewReplacer(
	"January", "Jan", "February", "Feb", "March", "Mar", "April", "Apr",
	"June", "Jun", "July", "Jul", "August", "Aug", "September", "Sep",
	"October", "Oct", "November", "Nov", "December", "Dec",
)

// ShortDate abbreviates full month names for narrow screens.
func ShortDate(s string) string {
	return months.Replace(s)
}

package app

import (
	_ "embed"
	"html/template"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/content"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// SectionLink is one entry of the navigation bar, sidebar and tab strip.
type SectionLink struct {
	ID    string
	Label string
}

// DefaultSections lists the page sections in display order.
func DefaultSections() []SectionLink {
	ids := []string{"home", "about", "experience", "projects", "appearances", "speaking", "podcast", "skills", "acknowledgements", "connect"}
	links := make([]SectionLink, len(ids))
	for i, id := range ids {
		links[i] = SectionLink{ID: id, Label: card.TitleCase(id)}
	}
	return links
}

// PageData fills the page shell.
type PageData struct {
	Site   *content.Site
	Theme  string
	Static string
	Live   bool
	// SessionID addresses the live page from the client script.
	SessionID string
	Sections  []SectionLink
}

// RenderPage executes the page shell. The sections are empty containers the
// controllers render into.
func RenderPage(data PageData) (string, error) {
	if data.Sections == nil {
		data.Sections = DefaultSections()
	}
	if data.Static == "" {
		data.Static = "/static"
	}
	return card.Execute(pageTemplate, data)
}

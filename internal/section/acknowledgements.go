package section

import (
	"html/template"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/Zachkp/folio/internal/card"
	"github.com/Zachkp/folio/internal/component"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
)

var ackTemplate = template.Must(template.New("ack").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`{{range $i, $p := .}}<div class="ack-result-row"><span class="result-row-num">{{inc $i}}</span>` +
	`<a href="{{$p.URL}}" class="ack-result-name" target="_blank" rel="noopener noreferrer">{{$p.Name}}</a></div>{{end}}`))

// Acknowledgements renders the numbered list of people thanked on the page.
type Acknowledgements struct {
	component.Base
	people []content.Acknowledgement
}

// NewAcknowledgements renders people into root.
func NewAcknowledgements(ctx *component.Context, root *html.Node, people []content.Acknowledgement) *Acknowledgements {
	a := &Acknowledgements{Base: component.NewBase(ctx, root), people: append([]content.Acknowledgement(nil), people...)}
	a.Init(a)
	return a
}

// OnInit renders the rows.
func (a *Acknowledgements) OnInit() {
	markup, err := card.Execute(ackTemplate, a.people)
	if err != nil {
		a.Log().Warn("acknowledgements template failed", zap.Error(err))
		return
	}
	if err := dom.SetInnerHTML(a.Element(), markup); err != nil {
		a.Log().Warn("acknowledgements markup rejected", zap.Error(err))
	}
}

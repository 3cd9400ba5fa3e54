package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/dom"
)

func sampleExperience() []content.Experience {
	return []content.Experience{
		{
			Organization: "Shopify", Role: "Data Scientist", From: "September 2021", To: "Present",
			Description: "Built forecasting models\nWrote for the [data blog](https://blog.example)",
			Logo:        "/static/img/shopify.png",
		},
		{Organization: "Hockey Canada", Role: "Analyst", From: "May 2019", To: "August 2021", Description: "Scouting reports"},
	}
}

func TestExperienceRendersCollapsedCards(t *testing.T) {
	p := newPage(t)
	NewExperience(p.ctx, p.byID("experience-timeline"), sampleExperience())

	cards := p.ctx.Doc.QueryAll(".experience-card")
	require.Len(t, cards, 2)
	assert.True(t, dom.HasClass(cards[0], "has-logo"))
	assert.False(t, dom.HasClass(cards[1], "has-logo"))
	assert.Equal(t, "false", dom.AttrOr(cards[0], "aria-expanded", ""))
	assert.Equal(t, "exp-content-1", dom.AttrOr(cards[1], "aria-controls", ""))
	assert.Equal(t, "Sep 2021 - Present", dom.TextContent(dom.QueryIn(cards[0], ".date-mobile")))
	assert.Len(t, dom.QueryAllIn(cards[0], ".experience-bullet"), 2)

	link := dom.QueryIn(cards[0], ".experience-bullet a")
	require.NotNil(t, link)
	assert.Equal(t, "_blank", dom.AttrOr(link, "target", ""))
}

func TestExperienceToggle(t *testing.T) {
	p := newPage(t)
	x := NewExperience(p.ctx, p.byID("experience-timeline"), sampleExperience())
	rec := record(&x.Base, EventExperienceToggle)
	cards := p.ctx.Doc.QueryAll(".experience-card")

	p.ctx.Doc.Click(dom.QueryIn(cards[0], "h3"))
	assert.True(t, x.Expanded(0))
	assert.Equal(t, "true", dom.AttrOr(cards[0], "aria-expanded", ""))

	p.ctx.Doc.Click(dom.QueryIn(cards[0], ".experience-bullet a"))
	assert.True(t, x.Expanded(0), "links inside the card do not toggle it")

	assert.False(t, p.ctx.Doc.KeyDown(cards[1], "Enter", dom.Modifiers{}))
	assert.True(t, x.Expanded(1))
	p.ctx.Doc.KeyDown(cards[1], "Tab", dom.Modifiers{})
	assert.True(t, x.Expanded(1))

	x.Toggle(0)
	assert.False(t, x.Expanded(0))
	assert.Equal(t, []any{
		ToggleDetail{Index: 0, Expanded: true},
		ToggleDetail{Index: 1, Expanded: true},
		ToggleDetail{Index: 0, Expanded: false},
	}, details(rec))
}

func details(r *recorder) []any {
	out := make([]any, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Detail)
	}
	return out
}

func TestAcknowledgementRows(t *testing.T) {
	p := newPage(t)
	NewAcknowledgements(p.ctx, p.byID("ack-table-body"), []content.Acknowledgement{
		{Name: "Ada", URL: "https://ada.example"},
		{Name: "Grace", URL: "https://grace.example"},
	})

	rows := p.ctx.Doc.QueryAll(".ack-result-row")
	require.Len(t, rows, 2)
	assert.Equal(t, "2", dom.TextContent(dom.QueryIn(rows[1], ".result-row-num")))
	name := dom.QueryIn(rows[1], ".ack-result-name")
	assert.Equal(t, "Grace", dom.TextContent(name))
	assert.Equal(t, "https://grace.example", dom.AttrOr(name, "href", ""))
}

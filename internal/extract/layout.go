// Package extract converts noisy recognized slip text into structured
// bet fields using a data-driven layout rule table.
package extract

import "regexp"

// Field names a rule can fill.
const (
	FieldStake     = "stake"
	FieldOdds      = "odds"
	FieldAmount    = "amount" // generic number: fills stake first, then odds
	FieldMarket    = "market"
	FieldEvent     = "event"
	FieldDate      = "date"
	FieldPromotion = "promotion"
	FieldStatus    = "status"
)

// FieldRule matches one field inside a slip's recognized text. When
// Anchor is set and found, the search is scoped to the text following
// it. The market field ignores Pattern and runs the multi-line keyword
// heuristic instead.
type FieldRule struct {
	Field   string
	Pattern *regexp.Regexp
	Anchor  string
}

// Layout is one bookmaker's slip format: anchor phrases that identify
// it plus the field rules to apply. Keeping layouts as data means a new
// bookmaker is a table entry, not new control flow.
type Layout struct {
	ID        string
	Bookmaker string
	Anchors   []string
	Rules     []FieldRule
}

var (
	datePattern   = regexp.MustCompile(`(hoje|ontem|today|yesterday|\d{1,2}/\d{1,2}(?:/\d{2,4})?)`)
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	statusPattern = regexp.MustCompile(`(meio green|meio red|green|red|void|anulada|cashout|cash out)`)
	promoPattern  = regexp.MustCompile(`(convers[aã]o freebet|freebet|super ?odds|odds aumentadas|seguro aposta)`)
)

// defaultLayouts is the built-in rule table. Anchors and patterns are
// matched against lower-cased text, first layout with a matching anchor
// wins, and the trailing generic layout (no anchors) is the fallback.
func defaultLayouts() []Layout {
	return []Layout{
		{
			ID:        "bet365",
			Bookmaker: "Bet365",
			Anchors:   []string{"bet365"},
			Rules: []FieldRule{
				{Field: FieldStake, Pattern: regexp.MustCompile(`(?:aposta|stake)\s*:?\s*r?\$?\s*(\d+(?:[.,]\d+)?)`)},
				{Field: FieldOdds, Pattern: regexp.MustCompile(`@?\s*(\d+[.,]\d+)`), Anchor: "odd"},
				{Field: FieldMarket},
				{Field: FieldEvent, Pattern: regexp.MustCompile(`([^\n]+)\s+v\s+([^\n]+)`)},
				{Field: FieldDate, Pattern: datePattern},
				{Field: FieldPromotion, Pattern: promoPattern},
				{Field: FieldStatus, Pattern: statusPattern},
			},
		},
		{
			ID:        "betano",
			Bookmaker: "Betano",
			Anchors:   []string{"betano"},
			Rules: []FieldRule{
				{Field: FieldStake, Pattern: regexp.MustCompile(`r\$\s*(\d+(?:[.,]\d+)?)`), Anchor: "valor"},
				{Field: FieldOdds, Pattern: regexp.MustCompile(`(\d+[.,]\d+)`), Anchor: "cota"},
				{Field: FieldMarket},
				{Field: FieldEvent, Pattern: regexp.MustCompile(`([^\n]+)\s+x\s+([^\n]+)`)},
				{Field: FieldDate, Pattern: datePattern},
				{Field: FieldPromotion, Pattern: promoPattern},
				{Field: FieldStatus, Pattern: statusPattern},
			},
		},
		{
			ID:        "sportingbet",
			Bookmaker: "Sportingbet",
			Anchors:   []string{"sportingbet"},
			Rules: []FieldRule{
				{Field: FieldStake, Pattern: regexp.MustCompile(`(?:aposta|valor)\s*:?\s*r?\$?\s*(\d+(?:[.,]\d+)?)`)},
				{Field: FieldOdds, Pattern: regexp.MustCompile(`(\d+[.,]\d+)`), Anchor: "odds"},
				{Field: FieldMarket},
				{Field: FieldDate, Pattern: datePattern},
				{Field: FieldPromotion, Pattern: promoPattern},
				{Field: FieldStatus, Pattern: statusPattern},
			},
		},
		{
			// Generic fallback: no anchors, number ambiguity resolved by
			// filling stake first, then odds.
			ID: "generic",
			Rules: []FieldRule{
				{Field: FieldAmount, Pattern: numberPattern},
				{Field: FieldMarket},
				{Field: FieldDate, Pattern: datePattern},
				{Field: FieldPromotion, Pattern: promoPattern},
				{Field: FieldStatus, Pattern: statusPattern},
			},
		},
	}
}

// marketKeywords flag slip lines that describe a market selection.
var marketKeywords = []string{
	"vencedor",
	"empate",
	"ambas marcam",
	"ambas as equipes",
	"mais de",
	"menos de",
	"acima de",
	"abaixo de",
	"handicap",
	"total de gols",
	"resultado final",
	"dupla chance",
	"escanteios",
	"over",
	"under",
}

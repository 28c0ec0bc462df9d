package extract

import (
	"strings"
	"time"
)

// ExtractedFields is the best-effort structured record pulled from a
// slip's recognized text. Every field is independently optional.
type ExtractedFields struct {
	Bookmaker  string   `json:"bookmaker,omitempty"`
	Stake      *float64 `json:"stake,omitempty"`
	Odds       *float64 `json:"odds,omitempty"`
	Market     string   `json:"market,omitempty"`
	Event      string   `json:"event,omitempty"`
	Date       string   `json:"date,omitempty"` // ISO YYYY-MM-DD
	Promotion  string   `json:"promotion,omitempty"`
	Status     string   `json:"status,omitempty"`
	Confidence float64  `json:"confidence"`
	Layout     string   `json:"layout"`
}

// IsEmpty reports whether nothing at all was extracted.
func (f *ExtractedFields) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Bookmaker == "" && f.Stake == nil && f.Odds == nil &&
		f.Market == "" && f.Event == "" && f.Date == "" && f.Promotion == ""
}

// HasCoreFields reports whether both high-quality signals (stake and
// odds) were found.
func (f *ExtractedFields) HasCoreFields() bool {
	return f != nil && f.Stake != nil && f.Odds != nil
}

// Extractor applies the layout rule table to recognized text. It holds
// no state across calls; the clock only feeds "hoje"/"ontem" date
// normalization.
type Extractor struct {
	layouts []Layout
	now     func() time.Time
}

// New creates an extractor with the built-in layout table.
func New() *Extractor {
	return &Extractor{layouts: defaultLayouts(), now: time.Now}
}

// Extract converts recognized text into a partial field record. It
// never fails: unreadable input yields nil, which callers treat as "no
// data extracted".
func (e *Extractor) Extract(text string) *ExtractedFields {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	layout := e.selectLayout(lower)
	LayoutHits.WithLabelValues(layout.ID).Inc()

	fields := &ExtractedFields{Layout: layout.ID, Bookmaker: layout.Bookmaker}
	for _, rule := range layout.Rules {
		e.applyRule(fields, rule, lower)
	}

	fields.Confidence = completeness(fields)
	return fields
}

// selectLayout returns the first layout with a matching anchor phrase,
// falling back to the trailing anchorless generic layout.
func (e *Extractor) selectLayout(lower string) Layout {
	for _, layout := range e.layouts {
		for _, anchor := range layout.Anchors {
			if strings.Contains(lower, anchor) {
				return layout
			}
		}
	}
	return e.layouts[len(e.layouts)-1]
}

func (e *Extractor) applyRule(fields *ExtractedFields, rule FieldRule, lower string) {
	if rule.Field == FieldMarket {
		if fields.Market == "" {
			fields.Market = marketFromLines(lower)
		}
		return
	}

	region := lower
	if rule.Anchor != "" {
		if idx := strings.Index(lower, rule.Anchor); idx >= 0 {
			region = lower[idx+len(rule.Anchor):]
		}
	}

	match := rule.Pattern.FindStringSubmatch(region)
	if match == nil {
		return
	}
	captured := match[0]
	if len(match) > 1 && match[1] != "" {
		captured = match[1]
	}

	switch rule.Field {
	case FieldStake:
		if fields.Stake == nil {
			fields.Stake = parseNumber(captured)
		}
	case FieldOdds:
		if fields.Odds == nil {
			fields.Odds = parseNumber(captured)
		}
	case FieldAmount:
		// Generic ambiguity rule: successive numbers fill stake first,
		// then odds.
		for _, token := range rule.Pattern.FindAllString(region, -1) {
			switch {
			case fields.Stake == nil:
				fields.Stake = parseNumber(token)
			case fields.Odds == nil:
				fields.Odds = parseNumber(token)
			default:
				return
			}
		}
	case FieldEvent:
		if fields.Event == "" {
			fields.Event = strings.TrimSpace(match[0])
		}
	case FieldDate:
		if fields.Date == "" {
			fields.Date = normalizeDate(captured, e.now())
		}
	case FieldPromotion:
		if fields.Promotion == "" {
			fields.Promotion = strings.TrimSpace(captured)
		}
	case FieldStatus:
		if fields.Status == "" {
			fields.Status = strings.TrimSpace(captured)
		}
	}
}

// completeness scores how many of the seven record fields were filled.
func completeness(f *ExtractedFields) float64 {
	filled := 0
	if f.Bookmaker != "" {
		filled++
	}
	if f.Stake != nil {
		filled++
	}
	if f.Odds != nil {
		filled++
	}
	if f.Market != "" {
		filled++
	}
	if f.Event != "" {
		filled++
	}
	if f.Date != "" {
		filled++
	}
	if f.Promotion != "" {
		filled++
	}
	return float64(filled) / 7
}

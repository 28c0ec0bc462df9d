package models

import "strings"

// PromotionKind is the tagged classification of a bet's free-text
// promotion label. Classifying once here keeps settlement and
// leaderboard logic from re-matching substrings independently.
type PromotionKind int

const (
	// PromotionNone means the bet carries no promotion label.
	PromotionNone PromotionKind = iota
	// PromotionFreebetConversion marks free-bet conversion products,
	// whose first leg is funded by bonus balance rather than real money.
	PromotionFreebetConversion
	// PromotionOther covers every other labelled promotion.
	PromotionOther
)

// freebetConversionMarkers are matched case-insensitively as substrings
// of the promotion label. Both the accented and plain spellings occur in
// stored records.
var freebetConversionMarkers = []string{"conversão freebet", "conversao freebet"}

// ClassifyPromotion maps a free-text promotion label to its kind.
func ClassifyPromotion(label string) PromotionKind {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return PromotionNone
	}
	for _, marker := range freebetConversionMarkers {
		if strings.Contains(lower, marker) {
			return PromotionFreebetConversion
		}
	}
	return PromotionOther
}

// PromotionKind classifies this bet's promotion label.
func (b *Bet) PromotionKind() PromotionKind {
	return ClassifyPromotion(b.Promotion)
}

// PromotionLabel returns the label used for leaderboard buckets, with
// the empty label normalized to "None".
func (b *Bet) PromotionLabel() string {
	label := strings.TrimSpace(b.Promotion)
	if label == "" {
		return "None"
	}
	return label
}

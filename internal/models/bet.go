package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LegStatus represents the resolution status of a single coverage leg
type LegStatus string

const (
	LegStatusPending   LegStatus = "pending"
	LegStatusWon       LegStatus = "won"
	LegStatusLost      LegStatus = "lost"
	LegStatusVoid      LegStatus = "void"
	LegStatusHalfWon   LegStatus = "half_won"
	LegStatusHalfLost  LegStatus = "half_lost"
	LegStatusCashedOut LegStatus = "cashed_out"
)

// statusKeywords maps free-text status words (slips come annotated in
// Portuguese or English) to the fixed vocabulary. Matching is substring
// based over the lower-cased input, first match wins, so the half
// variants must come before their full counterparts.
var statusKeywords = []struct {
	keyword string
	status  LegStatus
}{
	{"meio green", LegStatusHalfWon},
	{"half won", LegStatusHalfWon},
	{"meio red", LegStatusHalfLost},
	{"half lost", LegStatusHalfLost},
	{"cashout", LegStatusCashedOut},
	{"cash out", LegStatusCashedOut},
	{"encerrada", LegStatusCashedOut},
	{"anulada", LegStatusVoid},
	{"void", LegStatusVoid},
	{"green", LegStatusWon},
	{"ganhou", LegStatusWon},
	{"won", LegStatusWon},
	{"red", LegStatusLost},
	{"perdeu", LegStatusLost},
	{"lost", LegStatusLost},
}

// ParseLegStatus maps free text to a LegStatus, defaulting to Pending
// when no keyword matches.
func ParseLegStatus(text string) LegStatus {
	lower := strings.ToLower(text)
	for _, entry := range statusKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.status
		}
	}
	return LegStatusPending
}

// BetStatus represents the overall status of a bet, which is tracked
// independently from its legs' statuses.
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusDraft   BetStatus = "draft"
	BetStatusGreen   BetStatus = "green"
	BetStatusRed     BetStatus = "red"
)

// Leg represents one stake placed at one bookmaker as part of a bet
type Leg struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BookmakerID string    `db:"bookmaker_id" json:"bookmaker_id" validate:"required"`
	Market      string    `db:"market" json:"market"`
	Odds        float64   `db:"odds" json:"odds" validate:"gte=0"`
	Stake       float64   `db:"stake" json:"stake" validate:"gte=0"`
	Status      LegStatus `db:"status" json:"status"`
	// PayoutOverride holds the value the platform actually paid when it
	// does not match the deterministic formula (partial cashout etc).
	// When set it wins over every status rule.
	PayoutOverride *float64 `db:"payout_override" json:"payout_override,omitempty"`
}

// Bet represents a recorded betting operation, possibly split across
// multiple legs/bookmakers (hedge or arbitrage).
type Bet struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Event           string    `db:"event" json:"event"`
	Date            string    `db:"date" json:"date" validate:"omitempty"` // calendar date, YYYY-MM-DD
	MainBookmakerID string    `db:"main_bookmaker_id" json:"main_bookmaker_id" validate:"required"`
	Promotion       string    `db:"promotion" json:"promotion"`
	Status          BetStatus `db:"status" json:"status"`
	// ExtraAdjustment is a bonus/cashback/fee attached to the bet as a
	// whole; it never flows through a leg and is applied by aggregation,
	// not by settlement.
	ExtraAdjustment *float64  `db:"extra_adjustment" json:"extra_adjustment,omitempty"`
	Legs            []Leg     `db:"-" json:"legs"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// IsSettled reports whether this bet contributes to profit figures.
// Pending and draft bets (in either language the app has stored over
// time) are excluded.
func (b *Bet) IsSettled() bool {
	switch strings.ToLower(string(b.Status)) {
	case "", string(BetStatusPending), "pendente", string(BetStatusDraft), "rascunho":
		return false
	}
	return true
}

// IsDraft reports whether this bet is still being written up. Draft
// stakes are not real exposure yet.
func (b *Bet) IsDraft() bool {
	switch strings.ToLower(string(b.Status)) {
	case string(BetStatusDraft), "rascunho":
		return true
	}
	return false
}

// Day returns the bet's calendar date parsed in the local location.
// The second return is false when the stored date is unparsable.
func (b *Bet) Day() (time.Time, bool) {
	t, err := ParseDate(b.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dateLayouts lists the formats historical records carry. Dates are
// parsed as local calendar dates, never through a timezone-sensitive
// timestamp parse, so window comparisons cannot drift at midnight.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02/01/06"}

// ParseDate parses a stored calendar date in the local location.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

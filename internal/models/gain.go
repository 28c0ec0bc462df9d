package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtraGain is a standalone monetary gain not tied to a bet (signup
// bonus, cashback). It only feeds period summaries as a parallel input.
type ExtraGain struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BookmakerID string    `db:"bookmaker_id" json:"bookmaker_id"`
	Description string    `db:"description" json:"description"`
	Amount      float64   `db:"amount" json:"amount"`
	Date        string    `db:"date" json:"date"` // calendar date, YYYY-MM-DD
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Day returns the gain's calendar date parsed in the local location.
func (g *ExtraGain) Day() (time.Time, bool) {
	t, err := ParseDate(g.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Package settlement turns a bet and its coverage legs into
// stake/return/profit figures. Everything here is pure computation over
// the input record.
package settlement

import (
	"math"

	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

// LegResult carries the settled figures for one leg.
type LegResult struct {
	BookmakerID string
	Stake       float64 // effective stake: zero for a bonus-funded leg
	Return      float64
	Profit      float64
	// Resolved is false for pending or unrecognized statuses; such legs
	// never count toward the double-win flag.
	Resolved bool
}

// Result is the settlement breakdown for one bet. The bet's extra
// adjustment is deliberately not part of Profit; it attaches to the bet
// as a whole and is added by the aggregation layer.
type Result struct {
	TotalStake  float64
	TotalReturn float64
	Profit      float64
	Legs        []LegResult
	IsDoubleWin bool
}

// Settle computes the settlement breakdown for a bet.
//
// On a free-bet conversion product the first leg in list order is
// funded by bonus balance: its stake is excluded from TotalStake and,
// when its auto-computed return is positive, subtracted from that
// return, since the stake was never real money and is not paid back.
// A manual payout override is used verbatim and is exempt from the
// subtraction.
func Settle(bet *models.Bet) Result {
	if bet == nil || len(bet.Legs) == 0 {
		return Result{}
	}

	freebet := bet.PromotionKind() == models.PromotionFreebetConversion
	result := Result{Legs: make([]LegResult, 0, len(bet.Legs))}

	resolvedLegs := 0
	allResolvedNonNegative := true

	for i := range bet.Legs {
		leg := &bet.Legs[i]
		stake := sanitize(leg.Stake)
		odds := sanitize(leg.Odds)

		ret, overridden, resolved := legReturn(leg, stake, odds)

		bonusFunded := freebet && i == 0
		effectiveStake := stake
		if bonusFunded {
			effectiveStake = 0
			if !overridden && ret > 0 {
				ret -= stake
			}
		}

		lr := LegResult{
			BookmakerID: leg.BookmakerID,
			Stake:       effectiveStake,
			Return:      ret,
			Profit:      ret - effectiveStake,
			Resolved:    resolved,
		}
		result.Legs = append(result.Legs, lr)

		result.TotalStake += effectiveStake
		result.TotalReturn += ret
		if resolved {
			resolvedLegs++
			if lr.Profit < 0 {
				allResolvedNonNegative = false
			}
		}
	}

	result.Profit = result.TotalReturn - result.TotalStake
	result.IsDoubleWin = resolvedLegs >= 2 && allResolvedNonNegative
	return result
}

// legReturn computes one leg's payout before any bonus-funding
// adjustment. It reports whether a manual override was used and whether
// the leg counts as resolved.
func legReturn(leg *models.Leg, stake, odds float64) (ret float64, overridden, resolved bool) {
	resolved = isResolvedStatus(leg.Status)

	if leg.PayoutOverride != nil {
		return sanitize(*leg.PayoutOverride), true, resolved
	}

	switch leg.Status {
	case models.LegStatusLost:
		return 0, false, resolved
	case models.LegStatusWon:
		return stake * odds, false, resolved
	case models.LegStatusVoid, models.LegStatusCashedOut:
		// Capital returned, no profit. A true cashout amount comes
		// through PayoutOverride.
		return stake, false, resolved
	case models.LegStatusHalfWon:
		return stake*odds/2 + stake/2, false, resolved
	case models.LegStatusHalfLost:
		return stake / 2, false, resolved
	}
	return 0, false, false
}

func isResolvedStatus(status models.LegStatus) bool {
	switch status {
	case models.LegStatusWon, models.LegStatusLost, models.LegStatusVoid,
		models.LegStatusHalfWon, models.LegStatusHalfLost, models.LegStatusCashedOut:
		return true
	}
	return false
}

// sanitize degrades malformed numeric fields to zero so a single bad
// historical record cannot poison aggregate views.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Adjustment returns the bet's extra monetary adjustment with NaN/Inf
// degraded to zero. Negative values are legitimate here (fees).
func Adjustment(bet *models.Bet) float64 {
	if bet == nil || bet.ExtraAdjustment == nil {
		return 0
	}
	v := *bet.ExtraAdjustment
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

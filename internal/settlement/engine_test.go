package settlement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestSettleSingleWonLeg(t *testing.T) {
	bet := &models.Bet{
		Date:            "2024-03-10",
		MainBookmakerID: "A",
		Status:          models.BetStatusGreen,
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusWon},
		},
	}

	res := Settle(bet)
	assert.Equal(t, 100.0, res.TotalStake)
	assert.Equal(t, 200.0, res.TotalReturn)
	assert.Equal(t, 100.0, res.Profit)
	assert.False(t, res.IsDoubleWin, "single leg never counts as double win")
}

func TestSettleLostLegReturnsZero(t *testing.T) {
	for _, stake := range []float64{0, 5, 1000} {
		bet := &models.Bet{Legs: []models.Leg{
			{BookmakerID: "A", Odds: 10.0, Stake: stake, Status: models.LegStatusLost},
		}}
		res := Settle(bet)
		assert.Equal(t, 0.0, res.TotalReturn)
		assert.Equal(t, -stake, res.Profit)
	}
}

func TestSettleStatusFormulas(t *testing.T) {
	tests := []struct {
		name   string
		status models.LegStatus
		want   float64
	}{
		{"won", models.LegStatusWon, 200},
		{"lost", models.LegStatusLost, 0},
		{"void", models.LegStatusVoid, 100},
		{"cashed out", models.LegStatusCashedOut, 100},
		{"half won", models.LegStatusHalfWon, 150},
		{"half lost", models.LegStatusHalfLost, 50},
		{"pending", models.LegStatusPending, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := &models.Bet{Legs: []models.Leg{
				{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: tt.status},
			}}
			res := Settle(bet)
			assert.Equal(t, tt.want, res.TotalReturn)
			// Pending stakes still count toward capital exposure.
			assert.Equal(t, 100.0, res.TotalStake)
		})
	}
}

func TestSettlePayoutOverrideWins(t *testing.T) {
	bet := &models.Bet{Legs: []models.Leg{
		{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusCashedOut, PayoutOverride: floatPtr(137.5)},
		{BookmakerID: "B", Odds: 3.0, Stake: 50, Status: models.LegStatusLost, PayoutOverride: floatPtr(10)},
	}}

	res := Settle(bet)
	require.Len(t, res.Legs, 2)
	assert.Equal(t, 137.5, res.Legs[0].Return)
	// Override beats the lost-status zeroing rule too.
	assert.Equal(t, 10.0, res.Legs[1].Return)
	assert.Equal(t, 147.5, res.TotalReturn)
}

func TestSettleFreebetConversion(t *testing.T) {
	bet := &models.Bet{
		Promotion: "Conversão Freebet",
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusWon},
			{BookmakerID: "B", Odds: 1.5, Stake: 50, Status: models.LegStatusLost},
		},
	}

	res := Settle(bet)
	assert.Equal(t, 50.0, res.TotalStake, "first leg stake is bonus money")
	assert.Equal(t, 100.0, res.Legs[0].Return, "stake subtracted from the winning return")
	assert.Equal(t, 0.0, res.Legs[1].Return)
	assert.Equal(t, 100.0, res.TotalReturn)
	assert.Equal(t, 50.0, res.Profit)
}

func TestSettleFreebetConversionCaseInsensitive(t *testing.T) {
	bet := &models.Bet{
		Promotion: "promo CONVERSAO FREEBET março",
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 4.0, Stake: 25, Status: models.LegStatusWon},
		},
	}
	res := Settle(bet)
	assert.Equal(t, 0.0, res.TotalStake)
	assert.Equal(t, 75.0, res.TotalReturn)
}

func TestSettleFreebetExemptionOnlyFirstLeg(t *testing.T) {
	bet := &models.Bet{
		Promotion: "conversão freebet",
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusLost},
			{BookmakerID: "B", Odds: 2.0, Stake: 100, Status: models.LegStatusWon},
		},
	}
	res := Settle(bet)
	// Only the first leg is exempt; the second is plain money.
	assert.Equal(t, 100.0, res.TotalStake)
	assert.Equal(t, 200.0, res.TotalReturn)
	assert.Equal(t, 100.0, res.Profit)
}

func TestSettleFreebetLosingFirstLegNoSubtraction(t *testing.T) {
	bet := &models.Bet{
		Promotion: "conversão freebet",
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusLost},
		},
	}
	res := Settle(bet)
	// Return is zero, nothing to subtract, and the bonus stake was
	// never real money.
	assert.Equal(t, 0.0, res.TotalStake)
	assert.Equal(t, 0.0, res.TotalReturn)
	assert.Equal(t, 0.0, res.Profit)
}

func TestSettleDoubleWin(t *testing.T) {
	bet := &models.Bet{Legs: []models.Leg{
		{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusWon},
		{BookmakerID: "B", Odds: 1.0, Stake: 50, Status: models.LegStatusVoid},
	}}
	res := Settle(bet)
	assert.True(t, res.IsDoubleWin, "void leg has zero profit, still non-negative")

	bet.Legs[1].Status = models.LegStatusLost
	assert.False(t, Settle(bet).IsDoubleWin)

	bet.Legs[1].Status = models.LegStatusPending
	assert.False(t, Settle(bet).IsDoubleWin, "needs at least two resolved legs")
}

func TestSettleEmptyBet(t *testing.T) {
	res := Settle(&models.Bet{})
	assert.Equal(t, Result{}, res)
	assert.Equal(t, Result{}, Settle(nil))
}

func TestSettleZeroOddsAndStake(t *testing.T) {
	bet := &models.Bet{Legs: []models.Leg{
		{BookmakerID: "A", Odds: 0, Stake: 100, Status: models.LegStatusWon},
		{BookmakerID: "B", Odds: 2.0, Stake: 0, Status: models.LegStatusWon},
	}}
	res := Settle(bet)
	assert.Equal(t, 100.0, res.TotalStake)
	assert.Equal(t, 0.0, res.TotalReturn)
}

func TestSettleSanitizesMalformedNumbers(t *testing.T) {
	bet := &models.Bet{Legs: []models.Leg{
		{BookmakerID: "A", Odds: math.NaN(), Stake: math.Inf(1), Status: models.LegStatusWon},
		{BookmakerID: "B", Odds: 2.0, Stake: -40, Status: models.LegStatusWon},
	}}
	res := Settle(bet)
	assert.Equal(t, 0.0, res.TotalStake)
	assert.Equal(t, 0.0, res.TotalReturn)
	assert.False(t, math.IsNaN(res.Profit))
}

func TestSettleProfitIdentity(t *testing.T) {
	bet := &models.Bet{
		Promotion: "conversão freebet",
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 2.3, Stake: 80, Status: models.LegStatusWon},
			{BookmakerID: "B", Odds: 1.9, Stake: 67.5, Status: models.LegStatusHalfWon},
			{BookmakerID: "C", Odds: 3.1, Stake: 12, Status: models.LegStatusHalfLost},
		},
	}
	res := Settle(bet)
	assert.Equal(t, res.TotalReturn-res.TotalStake, res.Profit)

	sum := 0.0
	for _, lr := range res.Legs {
		sum += lr.Profit
	}
	assert.InDelta(t, res.Profit, sum, 1e-9, "per-leg profits sum to bet profit")
}

func TestSettleIdempotent(t *testing.T) {
	bet := &models.Bet{
		Promotion: "Conversão Freebet",
		Legs: []models.Leg{
			{BookmakerID: "A", Odds: 2.0, Stake: 100, Status: models.LegStatusWon},
			{BookmakerID: "B", Odds: 1.5, Stake: 50, Status: models.LegStatusLost},
		},
	}
	first := Settle(bet)
	second := Settle(bet)
	assert.Equal(t, first, second)
}

func TestAdjustment(t *testing.T) {
	assert.Equal(t, 0.0, Adjustment(nil))
	assert.Equal(t, 0.0, Adjustment(&models.Bet{}))
	assert.Equal(t, -3.5, Adjustment(&models.Bet{ExtraAdjustment: floatPtr(-3.5)}), "fees stay negative")
	assert.Equal(t, 0.0, Adjustment(&models.Bet{ExtraAdjustment: floatPtr(math.NaN())}))
}

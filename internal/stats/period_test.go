package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func wonBet(date, bookmaker string, stake, odds float64) *models.Bet {
	return &models.Bet{
		Date:            date,
		MainBookmakerID: bookmaker,
		Status:          models.BetStatusGreen,
		Legs: []models.Leg{
			{BookmakerID: bookmaker, Stake: stake, Odds: odds, Status: models.LegStatusWon},
		},
	}
}

func marchWindow() Window {
	return MonthWindow(2024, time.March)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, nil, marchWindow())
	assert.Equal(t, 0, summary.Operations)
	assert.Equal(t, 0.0, summary.TotalStaked)
	assert.Equal(t, 0.0, summary.Profit)
	assert.Equal(t, 0.0, summary.ROI, "no division by zero")
	assert.Empty(t, summary.Curve)
}

func TestSummarizeBasicFigures(t *testing.T) {
	bets := []*models.Bet{
		wonBet("2024-03-10", "A", 100, 2.0), // +100
		{
			Date:            "2024-03-12",
			MainBookmakerID: "B",
			Status:          models.BetStatusRed,
			Legs: []models.Leg{
				{BookmakerID: "B", Stake: 50, Odds: 3.0, Status: models.LegStatusLost},
			},
		}, // -50
	}

	summary := Summarize(bets, nil, marchWindow())
	assert.Equal(t, 2, summary.Operations)
	assert.Equal(t, 150.0, summary.TotalStaked)
	assert.Equal(t, 200.0, summary.TotalReturn)
	assert.Equal(t, 50.0, summary.Profit)
	assert.InDelta(t, 33.333, summary.ROI, 0.01)
}

func TestSummarizeExcludesPendingAndDraftFromProfit(t *testing.T) {
	pending := wonBet("2024-03-05", "A", 80, 2.0)
	pending.Status = models.BetStatusPending
	draft := wonBet("2024-03-06", "A", 40, 2.0)
	draft.Status = models.BetStatusDraft

	summary := Summarize([]*models.Bet{pending, draft}, nil, marchWindow())
	assert.Equal(t, 0, summary.Operations)
	assert.Equal(t, 0.0, summary.Profit)
	assert.Equal(t, 0.0, summary.TotalStaked)
	// Pending capital is still at risk; drafts are not real operations.
	assert.Equal(t, 80.0, summary.StakeAtRisk)
}

func TestSummarizeWindowBoundaries(t *testing.T) {
	onStart := wonBet("2024-03-01", "A", 10, 2.0)
	dayBefore := wonBet("2024-02-29", "A", 10, 2.0)
	onEnd := wonBet("2024-03-31", "A", 10, 2.0)
	dayAfter := wonBet("2024-04-01", "A", 10, 2.0)

	summary := Summarize([]*models.Bet{onStart, dayBefore, onEnd, dayAfter}, nil, marchWindow())
	assert.Equal(t, 2, summary.Operations, "boundary days included, neighbours excluded")
}

func TestSummarizeCurveOrderingAndPrefixSum(t *testing.T) {
	first := wonBet("2024-03-20", "A", 10, 2.0)  // +10
	second := wonBet("2024-03-05", "B", 20, 3.0) // +40
	third := wonBet("2024-03-20", "C", 5, 3.0)   // +10, same day as first

	summary := Summarize([]*models.Bet{first, second, third}, nil, marchWindow())
	require.Len(t, summary.Curve, 3)
	assert.Equal(t, 40.0, summary.Curve[0].Profit)
	// Date tie between first and third keeps input relative order, so
	// first's +10 comes before third's +10.
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local), summary.Curve[1].Date)
	assert.Equal(t, 50.0, summary.Curve[1].Cumulative)
	assert.Equal(t, 60.0, summary.Curve[2].Cumulative)
	assert.Equal(t, 60.0, summary.Curve.Final())
}

func TestSummarizeAppliesExtraAdjustment(t *testing.T) {
	bet := wonBet("2024-03-10", "A", 100, 2.0)
	bet.ExtraAdjustment = floatPtr(-7.5)

	summary := Summarize([]*models.Bet{bet}, nil, marchWindow())
	assert.Equal(t, 92.5, summary.Profit)
}

func TestSummarizeExtraGains(t *testing.T) {
	gains := []*models.ExtraGain{
		{BookmakerID: "A", Amount: 25, Date: "2024-03-02"},
		{BookmakerID: "B", Amount: 10, Date: "2024-04-02"}, // outside window
	}
	summary := Summarize([]*models.Bet{wonBet("2024-03-10", "A", 100, 2.0)}, gains, marchWindow())
	assert.Equal(t, 25.0, summary.ExtraGains)
	assert.Equal(t, 125.0, summary.NetProfit())
	assert.Equal(t, 100.0, summary.Profit, "gains stay out of the ROI base")
}

func TestSummarizeSkipsUnparsableDates(t *testing.T) {
	bad := wonBet("someday", "A", 100, 2.0)
	summary := Summarize([]*models.Bet{bad, nil}, nil, marchWindow())
	assert.Equal(t, 0, summary.Operations)
}

func TestWindowHelpers(t *testing.T) {
	w := MonthWindow(2024, time.February)
	assert.True(t, w.Contains(time.Date(2024, 2, 29, 23, 0, 0, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)))

	y := YearWindow(2024)
	assert.True(t, y.Contains(time.Date(2024, 12, 31, 12, 0, 0, 0, time.Local)))
	assert.False(t, y.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)))
}

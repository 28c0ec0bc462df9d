// Package stats rolls settled bets into period summaries and
// bookmaker/month leaderboards.
package stats

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
	"github.com/geovana49/apostaspro-v2-sub001/internal/settlement"
)

// Window is an inclusive calendar-day range. Comparisons happen on
// calendar dates, never on timestamps.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the given day falls inside the window.
// Both boundary days are included.
func (w Window) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(w.From)) && !d.After(truncateDay(w.To))
}

// MonthWindow builds the window covering one calendar month.
func MonthWindow(year int, month time.Month) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Window{From: from, To: from.AddDate(0, 1, -1)}
}

// YearWindow builds the window covering one calendar year.
func YearWindow(year int) Window {
	return Window{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local),
	}
}

// ProfitPoint is one step of the cumulative profit series.
type ProfitPoint struct {
	Date       time.Time `json:"date"`
	Profit     float64   `json:"profit"`
	Cumulative float64   `json:"cumulative"`
}

// ProfitCurve is the cumulative-profit time series of a period, ordered
// by settlement date ascending.
type ProfitCurve []ProfitPoint

// Final returns the last cumulative value, zero for an empty curve.
func (c ProfitCurve) Final() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Cumulative
}

// ToJSON exports the curve for the chart layer.
func (c ProfitCurve) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}

// PeriodSummary aggregates the settled bets of a date window.
type PeriodSummary struct {
	Operations  int         `json:"operations"`
	TotalStaked float64     `json:"total_staked"`  // settled bets only
	StakeAtRisk float64     `json:"stake_at_risk"` // includes pending bets' capital
	TotalReturn float64     `json:"total_return"`
	Profit      float64     `json:"profit"` // bet profit incl. per-bet adjustments
	ExtraGains  float64     `json:"extra_gains"`
	ROI         float64     `json:"roi"` // percent
	Curve       ProfitCurve `json:"curve"`
}

// NetProfit is bet profit plus standalone gains for the period.
func (s PeriodSummary) NetProfit() float64 {
	return s.Profit + s.ExtraGains
}

// Summarize rolls the bets dated inside the window into a summary.
// Pending and draft bets are excluded from every profit/ROI/series
// figure, but pending bets' stakes still count toward StakeAtRisk so
// the dashboard shows exposure before resolution. Standalone gains
// dated inside the window accumulate into ExtraGains.
func Summarize(bets []*models.Bet, gains []*models.ExtraGain, window Window) PeriodSummary {
	summary := PeriodSummary{}

	type datedBet struct {
		day    time.Time
		profit float64
	}
	settled := make([]datedBet, 0, len(bets))

	for _, bet := range bets {
		if bet == nil {
			continue
		}
		day, ok := bet.Day()
		if !ok || !window.Contains(day) {
			continue
		}

		res := settlement.Settle(bet)

		if !bet.IsDraft() {
			summary.StakeAtRisk += res.TotalStake
		}
		if !bet.IsSettled() {
			continue
		}

		profit := res.Profit + settlement.Adjustment(bet)
		summary.Operations++
		summary.TotalStaked += res.TotalStake
		summary.TotalReturn += res.TotalReturn
		summary.Profit += profit
		settled = append(settled, datedBet{day: truncateDay(day), profit: profit})
	}

	for _, gain := range gains {
		if gain == nil {
			continue
		}
		if day, ok := gain.Day(); ok && window.Contains(day) {
			summary.ExtraGains += gain.Amount
		}
	}

	// Ties in date keep input relative order.
	sort.SliceStable(settled, func(i, j int) bool {
		return settled[i].day.Before(settled[j].day)
	})

	summary.Curve = make(ProfitCurve, 0, len(settled))
	cumulative := 0.0
	for _, db := range settled {
		cumulative += db.profit
		summary.Curve = append(summary.Curve, ProfitPoint{
			Date:       db.day,
			Profit:     db.profit,
			Cumulative: cumulative,
		})
	}

	if summary.TotalStaked > 0 {
		summary.ROI = summary.Profit / summary.TotalStaked * 100
	}
	return summary
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

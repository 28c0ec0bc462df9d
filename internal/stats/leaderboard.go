package stats

import (
	"sort"

	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
	"github.com/geovana49/apostaspro-v2-sub001/internal/settlement"
)

// topN is the leaderboard depth shown by the dashboard.
const topN = 3

// distributedLabel is the promotion bucket used when all-wins profit is
// credited to a bookmaker other than the bet's main one, where the
// bet's own promotion context does not apply.
const distributedLabel = "None"

// PromotionProfit is one promotion bucket inside a bookmaker's total.
type PromotionProfit struct {
	Label  string  `json:"label"`
	Profit float64 `json:"profit"`
}

// BookmakerAttribution is a bookmaker's total attributed profit with
// its per-promotion breakdown.
type BookmakerAttribution struct {
	BookmakerID string            `json:"bookmaker_id"`
	Profit      float64           `json:"profit"`
	Promotions  []PromotionProfit `json:"promotions"`
}

// MonthProfit is one calendar month's aggregate profit.
type MonthProfit struct {
	Month  string  `json:"month"` // YYYY-MM
	Profit float64 `json:"profit"`
}

// RankBookmakers attributes each settled bet's profit to the bookmakers
// actually responsible and returns the top bookmakers by total profit.
//
// When any leg paid a hedging cost (negative individual profit), the
// whole net profit goes to the bet's main bookmaker: the cost of
// hedging belongs to the main bookmaker's strategy. When every leg
// individually profited (double-win / all-bonus scenario), each leg's
// own profit is credited to that leg's own bookmaker. The bet's extra
// adjustment always goes to the main bookmaker.
func RankBookmakers(bets []*models.Bet) []BookmakerAttribution {
	totals := map[string]float64{}
	promos := map[string]map[string]float64{}

	credit := func(bookmaker, label string, amount float64) {
		totals[bookmaker] += amount
		if promos[bookmaker] == nil {
			promos[bookmaker] = map[string]float64{}
		}
		promos[bookmaker][label] += amount
	}

	for _, bet := range bets {
		if bet == nil || !bet.IsSettled() {
			continue
		}
		res := settlement.Settle(bet)

		hedged := false
		for _, lr := range res.Legs {
			if lr.Profit < 0 {
				hedged = true
				break
			}
		}

		if hedged {
			credit(bet.MainBookmakerID, bet.PromotionLabel(), res.Profit)
		} else {
			for _, lr := range res.Legs {
				label := distributedLabel
				if lr.BookmakerID == bet.MainBookmakerID {
					label = bet.PromotionLabel()
				}
				credit(lr.BookmakerID, label, lr.Profit)
			}
		}

		if adj := settlement.Adjustment(bet); adj != 0 {
			credit(bet.MainBookmakerID, bet.PromotionLabel(), adj)
		}
	}

	ranking := make([]BookmakerAttribution, 0, len(totals))
	for _, id := range sortedKeys(totals) {
		ranking = append(ranking, BookmakerAttribution{
			BookmakerID: id,
			Profit:      totals[id],
			Promotions:  topPromotions(promos[id]),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Profit > ranking[j].Profit
	})
	if len(ranking) > topN {
		ranking = ranking[:topN]
	}
	return ranking
}

// RankMonths groups all settled bets by calendar year-month and returns
// the top months by profit. The grouping is deliberately global: it
// ignores whatever window the dashboard is currently filtered to.
func RankMonths(bets []*models.Bet) []MonthProfit {
	totals := map[string]float64{}
	for _, bet := range bets {
		if bet == nil || !bet.IsSettled() {
			continue
		}
		day, ok := bet.Day()
		if !ok {
			continue
		}
		res := settlement.Settle(bet)
		totals[day.Format("2006-01")] += res.Profit + settlement.Adjustment(bet)
	}

	ranking := make([]MonthProfit, 0, len(totals))
	for _, month := range sortedKeys(totals) {
		ranking = append(ranking, MonthProfit{Month: month, Profit: totals[month]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Profit > ranking[j].Profit
	})
	if len(ranking) > topN {
		ranking = ranking[:topN]
	}
	return ranking
}

func topPromotions(buckets map[string]float64) []PromotionProfit {
	out := make([]PromotionProfit, 0, len(buckets))
	for _, label := range sortedKeys(buckets) {
		out = append(out, PromotionProfit{Label: label, Profit: buckets[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit > out[j].Profit
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// sortedKeys keeps map iteration out of the ranking order so ties
// resolve deterministically.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

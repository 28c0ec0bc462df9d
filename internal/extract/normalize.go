package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseNumber parses a decimal-comma-or-dot numeric token. Returns nil
// when the token is not a usable non-negative number.
func parseNumber(token string) *float64 {
	token = strings.ReplaceAll(strings.TrimSpace(token), ",", ".")
	d, err := decimal.NewFromString(token)
	if err != nil || d.IsNegative() {
		return nil
	}
	v, _ := d.Float64()
	return &v
}

// normalizeDate turns a matched date token into an ISO YYYY-MM-DD
// string. "hoje"/"today" is the current local calendar date, "ontem"/
// "yesterday" the previous one. DD/MM[/YY[YY]] tokens assume the
// current year when the year is missing and the 2000s for two-digit
// years. Unusable tokens yield "".
func normalizeDate(token string, now time.Time) string {
	token = strings.TrimSpace(strings.ToLower(token))
	switch token {
	case "hoje", "today":
		return now.Format("2006-01-02")
	case "ontem", "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02")
	}

	parts := strings.Split(token, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return ""
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || day < 1 || day > 31 || month < 1 || month > 12 {
		return ""
	}

	year := now.Year()
	if len(parts) == 3 {
		y, err := strconv.Atoi(parts[2])
		if err != nil {
			return ""
		}
		if y < 100 {
			y += 2000
		}
		year = y
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// marketFromLines runs the multi-line market heuristic: keep every line
// containing a market keyword, dedupe by content, join with " + ".
func marketFromLines(lower string) string {
	seen := map[string]bool{}
	var markets []string
	for _, line := range strings.Split(lower, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		for _, keyword := range marketKeywords {
			if strings.Contains(line, keyword) {
				seen[line] = true
				markets = append(markets, line)
				break
			}
		}
	}
	return strings.Join(markets, " + ")
}

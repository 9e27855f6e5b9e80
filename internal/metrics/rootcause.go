package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/ledger"
)

// TopDriverCount caps how many month-over-month drivers are reported.
const TopDriverCount = 5

// CategoryDelta is the month-over-month spend change for one category.
type CategoryDelta struct {
	Category string          `json:"category"`
	Previous decimal.Decimal `json:"previous"`
	Latest   decimal.Decimal `json:"latest"`
	Delta    decimal.Decimal `json:"delta"`
}

// RootCauseMoM compares the two most recent months in the per-month
// category breakdown and ranks categories by signed spend delta,
// largest increase first. Categories absent from the previous month
// count as zero there. Categories absent from the latest month are not
// considered (a left join of latest onto previous). Negative deltas are
// ranked alongside positive ones; whether cost reductions belong in a
// "top driver" list is an open product question.
//
// Fewer than two distinct months yields nil.
func RootCauseMoM(rows []ledger.MonthCategoryTotal) []CategoryDelta {
	months := distinctMonths(rows)
	if len(months) < 2 {
		return nil
	}
	latestMonth := months[len(months)-1]
	previousMonth := months[len(months)-2]

	previous := make(map[string]decimal.Decimal)
	for _, r := range rows {
		if r.Month == previousMonth {
			previous[r.Category] = r.Total
		}
	}

	var deltas []CategoryDelta
	for _, r := range rows {
		if r.Month != latestMonth {
			continue
		}
		prev, ok := previous[r.Category]
		if !ok {
			prev = decimal.Zero
		}
		deltas = append(deltas, CategoryDelta{
			Category: r.Category,
			Previous: prev,
			Latest:   r.Total,
			Delta:    r.Total.Sub(prev),
		})
	}

	sort.SliceStable(deltas, func(i, j int) bool {
		if c := deltas[i].Delta.Cmp(deltas[j].Delta); c != 0 {
			return c > 0
		}
		return deltas[i].Category < deltas[j].Category
	})

	if len(deltas) > TopDriverCount {
		deltas = deltas[:TopDriverCount]
	}
	return deltas
}

func distinctMonths(rows []ledger.MonthCategoryTotal) []string {
	seen := make(map[string]bool)
	var months []string
	for _, r := range rows {
		if !seen[r.Month] {
			seen[r.Month] = true
			months = append(months, r.Month)
		}
	}
	sort.Strings(months)
	return months
}

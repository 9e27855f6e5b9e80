package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/ledger"
)

// TopRiskCount caps how many vendors the risk ranking returns.
const TopRiskCount = 10

// Risk score weights: payment volume dominates, then frequency, then size.
var (
	weightTotalPaid  = decimal.RequireFromString("0.5")
	weightPayments   = decimal.RequireFromString("0.3")
	weightAvgPayment = decimal.RequireFromString("0.2")
)

// VendorRisk is one vendor's composite exposure score. The score is a
// weighted heuristic over payment volume, frequency and size, not a
// calibrated probability of anything.
type VendorRisk struct {
	Vendor     string          `json:"vendor"`
	Payments   int64           `json:"payments"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	AvgPayment decimal.Decimal `json:"avg_payment"`
	Score      decimal.Decimal `json:"score"`
}

// VendorRiskRanking scores each vendor aggregate and returns the top
// vendors by score, highest first, ties broken by vendor name.
func VendorRiskRanking(aggs []ledger.VendorAggregate) []VendorRisk {
	ranked := make([]VendorRisk, 0, len(aggs))
	for _, a := range aggs {
		score := a.TotalPaid.Mul(weightTotalPaid).
			Add(decimal.NewFromInt(a.Payments).Mul(weightPayments)).
			Add(a.AvgPayment.Mul(weightAvgPayment))
		ranked = append(ranked, VendorRisk{
			Vendor:     a.Vendor,
			Payments:   a.Payments,
			TotalPaid:  a.TotalPaid,
			AvgPayment: a.AvgPayment,
			Score:      score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Score.Cmp(ranked[j].Score); c != 0 {
			return c > 0
		}
		return ranked[i].Vendor < ranked[j].Vendor
	})

	if len(ranked) > TopRiskCount {
		ranked = ranked[:TopRiskCount]
	}
	return ranked
}

package metrics

import "github.com/shopspring/decimal"

// DefaultForecastDays is the standard projection horizon.
const DefaultForecastDays = 90

// ForecastPoint is one day of the balance projection.
type ForecastPoint struct {
	Day              int             `json:"day"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
}

// Forecast projects the balance forward by subtracting the daily burn
// once per day, clamped at zero. This is a naive linear depletion
// model: it assumes the trailing burn rate holds and ignores inflows,
// seasonality and variance.
func Forecast(balance, burnPerDay decimal.Decimal, days int) []ForecastPoint {
	if days <= 0 {
		days = DefaultForecastDays
	}

	points := make([]ForecastPoint, 0, days)
	running := balance
	for day := 1; day <= days; day++ {
		running = running.Sub(burnPerDay)
		if running.IsNegative() {
			running = decimal.Zero
		}
		points = append(points, ForecastPoint{Day: day, ProjectedBalance: running})
	}
	return points
}

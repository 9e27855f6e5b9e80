package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/ledger"
)

// ScenarioInput holds the what-if adjustment percentages. Each must be
// within [0, 100].
type ScenarioInput struct {
	SalaryHikePct  float64 `json:"salary_hike_pct"`
	VendorHikePct  float64 `json:"vendor_hike_pct"`
	RevenueDropPct float64 `json:"revenue_drop_pct"`
}

// InvalidScenarioInputError reports a percentage outside [0, 100].
type InvalidScenarioInputError struct {
	Field string
	Value float64
}

func (e *InvalidScenarioInputError) Error() string {
	return fmt.Sprintf("scenario input %s = %v is outside [0, 100]", e.Field, e.Value)
}

// Validate checks every percentage before any computation happens.
func (in ScenarioInput) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"salary_hike_pct", in.SalaryHikePct},
		{"vendor_hike_pct", in.VendorHikePct},
		{"revenue_drop_pct", in.RevenueDropPct},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > 100 {
			return &InvalidScenarioInputError{Field: c.field, Value: c.value}
		}
	}
	return nil
}

// ScenarioResult is the scenario-adjusted projection.
type ScenarioResult struct {
	AdjustedInflow  decimal.Decimal `json:"adjusted_inflow"`
	AdjustedOutflow decimal.Decimal `json:"adjusted_outflow"`
	AdjustedBurn    decimal.Decimal `json:"adjusted_burn"`
	AdjustedRunway  Runway          `json:"adjusted_runway"`
}

// Simulate applies the scenario to the base 30-day flows and recomputes
// burn and runway from the adjusted values. The two cost hikes are
// averaged (divided by 200) before being applied to the outflow.
func Simulate(balance decimal.Decimal, base ledger.Flows, in ScenarioInput) (ScenarioResult, error) {
	if err := in.Validate(); err != nil {
		return ScenarioResult{}, err
	}

	hundred := decimal.NewFromInt(100)
	twoHundred := decimal.NewFromInt(200)

	inflowFactor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(in.RevenueDropPct).Div(hundred))
	outflowFactor := decimal.NewFromInt(1).Add(
		decimal.NewFromFloat(in.SalaryHikePct).Add(decimal.NewFromFloat(in.VendorHikePct)).Div(twoHundred))

	adjustedInflow := base.Inflow.Mul(inflowFactor)
	adjustedOutflow := base.Outflow.Mul(outflowFactor)
	adjustedBurn := BurnRate(adjustedOutflow)

	return ScenarioResult{
		AdjustedInflow:  adjustedInflow,
		AdjustedOutflow: adjustedOutflow,
		AdjustedBurn:    adjustedBurn,
		AdjustedRunway:  ComputeRunway(balance, adjustedBurn),
	}, nil
}

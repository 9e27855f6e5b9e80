// Package metrics derives financial indicators from ledger aggregates.
// Everything here is pure computation: no I/O, no clock, no store.
package metrics

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/ledger"
)

// FlowWindowDays is the trailing window the burn rate is averaged over.
const FlowWindowDays = 30

// UnboundedRunwaySentinel is the numeric stand-in for an unbounded
// runway, kept for wire compatibility where a plain number is needed.
// It means "effectively infinite", not a literal number of days.
const UnboundedRunwaySentinel = 999

// Runway is the number of days until the balance reaches zero at the
// current burn rate. A zero burn rate makes it unbounded; callers must
// check Unbounded before doing arithmetic on Days.
type Runway struct {
	days      int64
	unbounded bool
}

// UnboundedRunway returns the "no meaningful burn" runway.
func UnboundedRunway() Runway {
	return Runway{unbounded: true}
}

// BoundedRunway returns a runway of exactly days days.
func BoundedRunway(days int64) Runway {
	return Runway{days: days}
}

// Unbounded reports whether the runway is effectively infinite.
func (r Runway) Unbounded() bool { return r.unbounded }

// Days returns the bounded day count. Zero when unbounded.
func (r Runway) Days() int64 {
	if r.unbounded {
		return 0
	}
	return r.days
}

// SentinelDays returns Days, or UnboundedRunwaySentinel when unbounded.
func (r Runway) SentinelDays() int64 {
	if r.unbounded {
		return UnboundedRunwaySentinel
	}
	return r.days
}

// runwayJSON is the wire shape of a Runway. Days carries the sentinel
// when unbounded so numeric consumers keep working.
type runwayJSON struct {
	Days      int64 `json:"days"`
	Unbounded bool  `json:"unbounded"`
}

// MarshalJSON implements json.Marshaler.
func (r Runway) MarshalJSON() ([]byte, error) {
	return json.Marshal(runwayJSON{Days: r.SentinelDays(), Unbounded: r.unbounded})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Runway) UnmarshalJSON(data []byte) error {
	var w runwayJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Unbounded {
		*r = UnboundedRunway()
		return nil
	}
	*r = BoundedRunway(w.Days)
	return nil
}

// BurnRate averages the 30-day outflow into a per-day figure.
// Zero outflow yields a zero burn rate.
func BurnRate(outflow30 decimal.Decimal) decimal.Decimal {
	if !outflow30.IsPositive() {
		return decimal.Zero
	}
	return outflow30.Div(decimal.NewFromInt(FlowWindowDays))
}

// ComputeRunway divides the balance by the daily burn, floored.
// A non-positive burn rate yields an unbounded runway.
func ComputeRunway(balance, burnPerDay decimal.Decimal) Runway {
	if !burnPerDay.IsPositive() {
		return UnboundedRunway()
	}
	return BoundedRunway(balance.Div(burnPerDay).IntPart())
}

// Snapshot is the result of one metrics computation. It has no
// identity beyond the query that produced it and is owned by the
// caller that requested it.
type Snapshot struct {
	Balance     decimal.Decimal `json:"balance"`
	Inflow30    decimal.Decimal `json:"inflow_30d"`
	Outflow30   decimal.Decimal `json:"outflow_30d"`
	NetChange30 decimal.Decimal `json:"net_change_30d"`
	BurnPerDay  decimal.Decimal `json:"burn_per_day"`
	Runway      Runway          `json:"runway"`
}

// NewSnapshot derives the KPI set from a balance and 30-day flows.
func NewSnapshot(balance decimal.Decimal, flows ledger.Flows) Snapshot {
	burn := BurnRate(flows.Outflow)
	return Snapshot{
		Balance:     balance,
		Inflow30:    flows.Inflow,
		Outflow30:   flows.Outflow,
		NetChange30: flows.Inflow.Sub(flows.Outflow),
		BurnPerDay:  burn,
		Runway:      ComputeRunway(balance, burn),
	}
}

// CashShortfall is the payroll coverage gap: total recorded balances
// minus salaries already paid out. Negative means payroll exceeds the
// recorded cash position.
func CashShortfall(balanceSum, paidPayroll decimal.Decimal) decimal.Decimal {
	return balanceSum.Sub(paidPayroll)
}

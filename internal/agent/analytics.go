package agent

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/domain"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/metrics"
)

// LowRunwayThresholdDays marks when the runway alert fires.
const LowRunwayThresholdDays = 30

// TrendPoint is one day of the reconstructed balance curve.
type TrendPoint struct {
	Date    civil.Date      `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthlyNet is one month of the cash flow table.
type MonthlyNet struct {
	Month   string          `json:"month"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// Dashboard aggregates everything the dashboard view renders.
type Dashboard struct {
	Snapshot         metrics.Snapshot        `json:"snapshot"`
	CashTrend        []TrendPoint            `json:"cash_trend"`
	ExpenseBreakdown []ledger.CategoryTotal  `json:"expense_breakdown"`
	MonthlyFlows     []MonthlyNet            `json:"monthly_flows"`
	RootCause        []metrics.CategoryDelta `json:"root_cause"`
	VendorRisk       []metrics.VendorRisk    `json:"vendor_risk"`
}

// Alerts is the risk summary view.
type Alerts struct {
	LowRunway        bool                   `json:"low_runway"`
	Runway           metrics.Runway         `json:"runway"`
	UnpaidInvoices   []domain.VendorInvoice `json:"unpaid_invoices"`
	PayrollShortfall decimal.Decimal        `json:"payroll_shortfall"`
}

// Snapshot computes the KPI set from the current ledger state.
// Returns ledger.ErrNoData (wrapped) when there are no transactions.
func (e *Engine) Snapshot(ctx context.Context) (metrics.Snapshot, error) {
	balance, err := e.store.LatestBalance(ctx)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	flows, err := e.store.WindowedFlows(ctx, metrics.FlowWindowDays)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return metrics.NewSnapshot(balance, flows), nil
}

// Dashboard assembles the full dashboard payload.
func (e *Engine) Dashboard(ctx context.Context) (Dashboard, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	series, err := e.store.DailyNetSeries(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	trend := make([]TrendPoint, 0, len(series))
	running := decimal.Zero
	for _, dn := range series {
		running = running.Add(dn.Net)
		trend = append(trend, TrendPoint{Date: dn.Date, Balance: running})
	}

	breakdown, err := e.store.CategoryBreakdown(ctx, domain.Debit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	monthly, err := e.store.MonthlyFlows(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	months := make([]MonthlyNet, 0, len(monthly))
	for _, m := range monthly {
		months = append(months, MonthlyNet{
			Month:   m.Month,
			Inflow:  m.Inflow,
			Outflow: m.Outflow,
			Net:     m.Inflow.Sub(m.Outflow),
		})
	}

	byMonthCategory, err := e.store.MonthlyCategoryOutflows(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	vendorAggs, err := e.store.VendorAggregates(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	return Dashboard{
		Snapshot:         snap,
		CashTrend:        trend,
		ExpenseBreakdown: breakdown,
		MonthlyFlows:     months,
		RootCause:        metrics.RootCauseMoM(byMonthCategory),
		VendorRisk:       metrics.VendorRiskRanking(vendorAggs),
	}, nil
}

// Simulate runs the what-if scenario against the current aggregates.
func (e *Engine) Simulate(ctx context.Context, in metrics.ScenarioInput) (metrics.ScenarioResult, error) {
	if err := in.Validate(); err != nil {
		return metrics.ScenarioResult{}, err
	}

	balance, err := e.store.LatestBalance(ctx)
	if err != nil {
		return metrics.ScenarioResult{}, fmt.Errorf("simulate: %w", err)
	}
	flows, err := e.store.WindowedFlows(ctx, metrics.FlowWindowDays)
	if err != nil {
		return metrics.ScenarioResult{}, fmt.Errorf("simulate: %w", err)
	}

	return metrics.Simulate(balance, flows, in)
}

// Forecast projects the balance days ahead at the current burn rate.
func (e *Engine) Forecast(ctx context.Context, days int) ([]metrics.ForecastPoint, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.Forecast(snap.Balance, snap.BurnPerDay, days), nil
}

// Alerts gathers the risk summary: runway health, unpaid vendor
// invoices and the payroll coverage gap.
func (e *Engine) Alerts(ctx context.Context) (Alerts, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return Alerts{}, err
	}

	unpaid, err := e.store.UnpaidVendorInvoices(ctx)
	if err != nil {
		return Alerts{}, fmt.Errorf("alerts: %w", err)
	}

	balanceSum, err := e.store.BalanceSum(ctx)
	if err != nil {
		return Alerts{}, fmt.Errorf("alerts: %w", err)
	}
	paidPayroll, err := e.store.PaidPayrollTotal(ctx)
	if err != nil {
		return Alerts{}, fmt.Errorf("alerts: %w", err)
	}

	return Alerts{
		LowRunway:        !snap.Runway.Unbounded() && snap.Runway.Days() < LowRunwayThresholdDays,
		Runway:           snap.Runway,
		UnpaidInvoices:   unpaid,
		PayrollShortfall: metrics.CashShortfall(balanceSum, paidPayroll),
	}, nil
}

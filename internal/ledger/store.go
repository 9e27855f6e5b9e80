package ledger

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/domain"
)

// ErrNoData is returned when an aggregate query has no rows to
// aggregate (for example an empty bank_statements table). Handlers are
// expected to map it to an "insufficient data" message, never to
// surface it raw.
var ErrNoData = errors.New("ledger: no data")

// Flows is the credit/debit sum pair for a time window.
type Flows struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
}

// DailyNet is the signed net flow for one calendar date
// (credits positive, debits negative).
type DailyNet struct {
	Date civil.Date
	Net  decimal.Decimal
}

// CategoryTotal is an amount sum for one category label.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// VendorAggregate summarizes debit activity toward one counterparty.
type VendorAggregate struct {
	Vendor     string
	Payments   int64
	TotalPaid  decimal.Decimal
	AvgPayment decimal.Decimal
}

// MonthlyFlow is the inflow/outflow pair for one "YYYY-MM" month.
type MonthlyFlow struct {
	Month   string
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
}

// MonthCategoryTotal is a debit sum for one (month, category) pair.
type MonthCategoryTotal struct {
	Month    string
	Category string
	Total    decimal.Decimal
}

// Store is the read-only aggregation surface over the ledger tables.
// Implementations must not mutate the underlying data. All methods are
// safe for concurrent use as long as the implementation's client is.
type Store interface {
	// LatestBalance returns the balance_after of the most recent
	// transaction (ties broken by highest transaction_id).
	// Returns ErrNoData when the table is empty.
	LatestBalance(ctx context.Context) (decimal.Decimal, error)

	// WindowedFlows sums credits and debits over the trailing
	// windowDays days. An empty window yields zero flows, not an error.
	WindowedFlows(ctx context.Context, windowDays int) (Flows, error)

	// DailyNetSeries returns the signed net flow per distinct date,
	// ordered chronologically.
	DailyNetSeries(ctx context.Context) ([]DailyNet, error)

	// CategoryBreakdown sums amounts per category for one transaction
	// type, largest first.
	CategoryBreakdown(ctx context.Context, txType domain.TxType) ([]CategoryTotal, error)

	// TopOutflowCategories returns the biggest debit categories of the
	// trailing window, largest first, at most limit rows.
	TopOutflowCategories(ctx context.Context, windowDays, limit int) ([]CategoryTotal, error)

	// VendorAggregates returns per-counterparty debit statistics.
	VendorAggregates(ctx context.Context) ([]VendorAggregate, error)

	// MonthlyFlows returns inflow/outflow per calendar month,
	// chronological, keyed "YYYY-MM".
	MonthlyFlows(ctx context.Context) ([]MonthlyFlow, error)

	// MonthlyCategoryOutflows returns debit sums per (month, category).
	MonthlyCategoryOutflows(ctx context.Context) ([]MonthCategoryTotal, error)

	// UnpaidVendorInvoices lists vendor invoices whose payment status
	// is anything other than Paid.
	UnpaidVendorInvoices(ctx context.Context) ([]domain.VendorInvoice, error)

	// BalanceSum totals balance_after across all statements. Feeds the
	// payroll shortfall alert.
	BalanceSum(ctx context.Context) (decimal.Decimal, error)

	// PaidPayrollTotal sums net salaries already marked Paid.
	PaidPayrollTotal(ctx context.Context) (decimal.Decimal, error)
}

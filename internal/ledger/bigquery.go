package ledger

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/nsarda/cashlens/internal/domain"
)

// BigQueryStore is the Store implementation backed by BigQuery. It
// holds a shared client; acquire one store per logical session and
// Close it on all exit paths.
type BigQueryStore struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewBigQueryStore creates a store with its own BigQuery client.
func NewBigQueryStore(ctx context.Context, projectID, datasetID string) (*BigQueryStore, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryStore: creating client: %w", err)
	}
	return &BigQueryStore{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Client exposes the underlying BigQuery client for components that
// share the connection, such as the CSV loader.
func (s *BigQueryStore) Client() *bigquery.Client {
	return s.client
}

// Close closes the underlying BigQuery client.
func (s *BigQueryStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *BigQueryStore) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.projectID, s.datasetID, name)
}

// decFromRat converts a BigQuery NUMERIC value to a decimal, treating
// NULL as zero.
func decFromRat(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, 2)
}

type balanceRow struct {
	BalanceAfter *big.Rat `bigquery:"balance_after"`
}

// LatestBalance implements Store.
func (s *BigQueryStore) LatestBalance(ctx context.Context) (decimal.Decimal, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT balance_after
		FROM %s
		ORDER BY transaction_date DESC, transaction_id DESC
		LIMIT 1
	`, s.table("bank_statements")))

	it, err := q.Read(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("LatestBalance: reading query: %w", err)
	}

	var row balanceRow
	err = it.Next(&row)
	if err == iterator.Done {
		return decimal.Zero, ErrNoData
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("LatestBalance: reading row: %w", err)
	}

	return decFromRat(row.BalanceAfter), nil
}

type flowsRow struct {
	Inflow  *big.Rat `bigquery:"inflow"`
	Outflow *big.Rat `bigquery:"outflow"`
}

// WindowedFlows implements Store.
func (s *BigQueryStore) WindowedFlows(ctx context.Context, windowDays int) (Flows, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			SUM(CASE WHEN transaction_type = 'CREDIT' THEN amount ELSE 0 END) AS inflow,
			SUM(CASE WHEN transaction_type = 'DEBIT' THEN amount ELSE 0 END) AS outflow
		FROM %s
		WHERE transaction_date >= DATE_SUB(CURRENT_DATE(), INTERVAL @window DAY)
	`, s.table("bank_statements")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "window", Value: windowDays},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return Flows{}, fmt.Errorf("WindowedFlows: reading query: %w", err)
	}

	var row flowsRow
	if err := it.Next(&row); err != nil && err != iterator.Done {
		return Flows{}, fmt.Errorf("WindowedFlows: reading row: %w", err)
	}

	// SUM over an empty window is NULL; decFromRat maps that to zero.
	return Flows{
		Inflow:  decFromRat(row.Inflow),
		Outflow: decFromRat(row.Outflow),
	}, nil
}

type dailyNetRow struct {
	TransactionDate civil.Date `bigquery:"transaction_date"`
	Net             *big.Rat   `bigquery:"net"`
}

// DailyNetSeries implements Store.
func (s *BigQueryStore) DailyNetSeries(ctx context.Context) ([]DailyNet, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			transaction_date,
			SUM(CASE WHEN transaction_type = 'CREDIT' THEN amount ELSE -amount END) AS net
		FROM %s
		GROUP BY transaction_date
		ORDER BY transaction_date
	`, s.table("bank_statements")))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("DailyNetSeries: reading query: %w", err)
	}

	var series []DailyNet
	for {
		var row dailyNetRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("DailyNetSeries: iterating: %w", err)
		}
		series = append(series, DailyNet{Date: row.TransactionDate, Net: decFromRat(row.Net)})
	}

	return series, nil
}

type categoryTotalRow struct {
	Category string   `bigquery:"category"`
	Total    *big.Rat `bigquery:"total"`
}

// CategoryBreakdown implements Store.
func (s *BigQueryStore) CategoryBreakdown(ctx context.Context, txType domain.TxType) ([]CategoryTotal, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT category, SUM(amount) AS total
		FROM %s
		WHERE transaction_type = @tx_type
		GROUP BY category
		ORDER BY total DESC
	`, s.table("bank_statements")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "tx_type", Value: string(txType)},
	}

	return s.readCategoryTotals(ctx, q, "CategoryBreakdown")
}

// TopOutflowCategories implements Store.
func (s *BigQueryStore) TopOutflowCategories(ctx context.Context, windowDays, limit int) ([]CategoryTotal, error) {
	// BigQuery does not accept a parameter in LIMIT, so the validated
	// integer is formatted into the statement.
	q := s.client.Query(fmt.Sprintf(`
		SELECT category, SUM(amount) AS total
		FROM %s
		WHERE transaction_type = 'DEBIT'
		  AND transaction_date >= DATE_SUB(CURRENT_DATE(), INTERVAL @window DAY)
		GROUP BY category
		ORDER BY total DESC
		LIMIT %d
	`, s.table("bank_statements"), limit))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "window", Value: windowDays},
	}

	return s.readCategoryTotals(ctx, q, "TopOutflowCategories")
}

func (s *BigQueryStore) readCategoryTotals(ctx context.Context, q *bigquery.Query, op string) ([]CategoryTotal, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: reading query: %w", op, err)
	}

	var totals []CategoryTotal
	for {
		var row categoryTotalRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: iterating: %w", op, err)
		}
		totals = append(totals, CategoryTotal{Category: row.Category, Total: decFromRat(row.Total)})
	}

	return totals, nil
}

type vendorAggregateRow struct {
	Vendor     string   `bigquery:"vendor"`
	Payments   int64    `bigquery:"payments"`
	TotalPaid  *big.Rat `bigquery:"total_paid"`
	AvgPayment *big.Rat `bigquery:"avg_payment"`
}

// VendorAggregates implements Store.
func (s *BigQueryStore) VendorAggregates(ctx context.Context) ([]VendorAggregate, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			counterparty_name AS vendor,
			COUNT(*) AS payments,
			SUM(amount) AS total_paid,
			AVG(amount) AS avg_payment
		FROM %s
		WHERE transaction_type = 'DEBIT'
		GROUP BY vendor
	`, s.table("bank_statements")))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("VendorAggregates: reading query: %w", err)
	}

	var aggs []VendorAggregate
	for {
		var row vendorAggregateRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("VendorAggregates: iterating: %w", err)
		}
		aggs = append(aggs, VendorAggregate{
			Vendor:     row.Vendor,
			Payments:   row.Payments,
			TotalPaid:  decFromRat(row.TotalPaid),
			AvgPayment: decFromRat(row.AvgPayment),
		})
	}

	return aggs, nil
}

type monthlyFlowRow struct {
	Month   string   `bigquery:"month"`
	Inflow  *big.Rat `bigquery:"inflow"`
	Outflow *big.Rat `bigquery:"outflow"`
}

// MonthlyFlows implements Store.
func (s *BigQueryStore) MonthlyFlows(ctx context.Context) ([]MonthlyFlow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			FORMAT_DATE('%%Y-%%m', transaction_date) AS month,
			SUM(CASE WHEN transaction_type = 'CREDIT' THEN amount ELSE 0 END) AS inflow,
			SUM(CASE WHEN transaction_type = 'DEBIT' THEN amount ELSE 0 END) AS outflow
		FROM %s
		GROUP BY month
		ORDER BY month
	`, s.table("bank_statements")))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("MonthlyFlows: reading query: %w", err)
	}

	var flows []MonthlyFlow
	for {
		var row monthlyFlowRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("MonthlyFlows: iterating: %w", err)
		}
		flows = append(flows, MonthlyFlow{
			Month:   row.Month,
			Inflow:  decFromRat(row.Inflow),
			Outflow: decFromRat(row.Outflow),
		})
	}

	return flows, nil
}

type monthCategoryRow struct {
	Month    string   `bigquery:"month"`
	Category string   `bigquery:"category"`
	Total    *big.Rat `bigquery:"total"`
}

// MonthlyCategoryOutflows implements Store.
func (s *BigQueryStore) MonthlyCategoryOutflows(ctx context.Context) ([]MonthCategoryTotal, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			FORMAT_DATE('%%Y-%%m', transaction_date) AS month,
			category,
			SUM(amount) AS total
		FROM %s
		WHERE transaction_type = 'DEBIT'
		GROUP BY month, category
		ORDER BY month, category
	`, s.table("bank_statements")))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("MonthlyCategoryOutflows: reading query: %w", err)
	}

	var totals []MonthCategoryTotal
	for {
		var row monthCategoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("MonthlyCategoryOutflows: iterating: %w", err)
		}
		totals = append(totals, MonthCategoryTotal{
			Month:    row.Month,
			Category: row.Category,
			Total:    decFromRat(row.Total),
		})
	}

	return totals, nil
}

type vendorInvoiceRow struct {
	InvoiceID     string     `bigquery:"invoice_id"`
	VendorName    string     `bigquery:"vendor_name"`
	InvoiceDate   civil.Date `bigquery:"invoice_date"`
	DueDate       civil.Date `bigquery:"due_date"`
	NetAmount     *big.Rat   `bigquery:"net_amount"`
	PaymentStatus string     `bigquery:"payment_status"`
}

// UnpaidVendorInvoices implements Store.
func (s *BigQueryStore) UnpaidVendorInvoices(ctx context.Context) ([]domain.VendorInvoice, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT invoice_id, vendor_name, invoice_date, due_date, net_amount, payment_status
		FROM %s
		WHERE payment_status != @paid
		ORDER BY due_date
	`, s.table("vendor_invoices")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "paid", Value: domain.PaymentStatusPaid},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("UnpaidVendorInvoices: reading query: %w", err)
	}

	var invoices []domain.VendorInvoice
	for {
		var row vendorInvoiceRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("UnpaidVendorInvoices: iterating: %w", err)
		}
		invoices = append(invoices, domain.VendorInvoice{
			ID:            row.InvoiceID,
			VendorName:    row.VendorName,
			InvoiceDate:   row.InvoiceDate.In(time.UTC),
			DueDate:       row.DueDate.In(time.UTC),
			NetAmount:     decFromRat(row.NetAmount),
			PaymentStatus: row.PaymentStatus,
		})
	}

	return invoices, nil
}

type sumRow struct {
	Total *big.Rat `bigquery:"total"`
}

// BalanceSum implements Store.
func (s *BigQueryStore) BalanceSum(ctx context.Context) (decimal.Decimal, error) {
	return s.readSum(ctx, fmt.Sprintf(`
		SELECT SUM(balance_after) AS total FROM %s
	`, s.table("bank_statements")), "BalanceSum")
}

// PaidPayrollTotal implements Store.
func (s *BigQueryStore) PaidPayrollTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.readSum(ctx, fmt.Sprintf(`
		SELECT SUM(net_salary) AS total
		FROM %s
		WHERE payment_status = 'Paid'
	`, s.table("payroll")), "PaidPayrollTotal")
}

func (s *BigQueryStore) readSum(ctx context.Context, query, op string) (decimal.Decimal, error) {
	it, err := s.client.Query(query).Read(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: reading query: %w", op, err)
	}

	var row sumRow
	if err := it.Next(&row); err != nil && err != iterator.Done {
		return decimal.Zero, fmt.Errorf("%s: reading row: %w", op, err)
	}

	return decFromRat(row.Total), nil
}

// Ensure BigQueryStore satisfies the Store interface.
var _ Store = (*BigQueryStore)(nil)

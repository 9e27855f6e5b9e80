package ingest

import (
	"math/big"

	"cloud.google.com/go/civil"
)

// Row types mirror the ledger table schemas. NUMERIC columns go over
// the wire as *big.Rat, DATE columns as civil.Date.

type BankStatementRow struct {
	TransactionID    string     `bigquery:"transaction_id"`
	AccountNumber    string     `bigquery:"account_number"`
	TransactionDate  civil.Date `bigquery:"transaction_date"`
	TransactionType  string     `bigquery:"transaction_type"`
	Amount           *big.Rat   `bigquery:"amount"`
	BalanceAfter     *big.Rat   `bigquery:"balance_after"`
	CounterpartyName string     `bigquery:"counterparty_name"`
	Narration        string     `bigquery:"narration"`
	Category         string     `bigquery:"category"`
	PaymentMode      string     `bigquery:"payment_mode"`
}

type VendorInvoiceRow struct {
	InvoiceID     string     `bigquery:"invoice_id"`
	VendorName    string     `bigquery:"vendor_name"`
	InvoiceDate   civil.Date `bigquery:"invoice_date"`
	DueDate       civil.Date `bigquery:"due_date"`
	NetAmount     *big.Rat   `bigquery:"net_amount"`
	PaymentStatus string     `bigquery:"payment_status"`
}

type ClientInvoiceRow struct {
	InvoiceID        string     `bigquery:"invoice_id"`
	ClientName       string     `bigquery:"client_name"`
	InvoiceDate      civil.Date `bigquery:"invoice_date"`
	DueDate          civil.Date `bigquery:"due_date"`
	NetAmount        *big.Rat   `bigquery:"net_amount"`
	CollectionStatus string     `bigquery:"collection_status"`
}

type PayrollRow struct {
	EmployeeName  string   `bigquery:"employee_name"`
	PayPeriod     string   `bigquery:"pay_period"`
	NetSalary     *big.Rat `bigquery:"net_salary"`
	PaymentStatus string   `bigquery:"payment_status"`
}

type ExpenseReceiptRow struct {
	ExpenseDate     civil.Date `bigquery:"expense_date"`
	MerchantName    string     `bigquery:"merchant_name"`
	ExpenseCategory string     `bigquery:"expense_category"`
	Amount          *big.Rat   `bigquery:"amount"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the direction of a ledger transaction.
type TxType string

const (
	// Credit is money coming into the account.
	Credit TxType = "CREDIT"
	// Debit is money leaving the account.
	Debit TxType = "DEBIT"
)

// Transaction is one normalized row of the bank_statements table.
// Rows are produced by ingestion and never mutated by the engine;
// applying type-signed amounts in date order reproduces BalanceAfter.
type Transaction struct {
	ID           string
	Account      string
	Date         time.Time
	Type         TxType
	Amount       decimal.Decimal // non-negative; sign carried by Type
	BalanceAfter decimal.Decimal
	Counterparty string
	Narration    string
	Category     string
	Channel      string
}

// VendorInvoice is one row of the vendor_invoices table.
type VendorInvoice struct {
	ID            string          `json:"invoice_id"`
	VendorName    string          `json:"vendor_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	PaymentStatus string          `json:"payment_status"`
}

// PaymentStatusPaid is the settled state of a vendor invoice; anything
// else (Unpaid, Late, Overdue) counts as outstanding.
const PaymentStatusPaid = "Paid"

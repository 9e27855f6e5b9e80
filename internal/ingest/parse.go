package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Ledger table names accepted by the loader.
const (
	TableBankStatements  = "bank_statements"
	TableVendorInvoices  = "vendor_invoices"
	TableClientInvoices  = "client_invoices"
	TablePayroll         = "payroll"
	TableExpenseReceipts = "expense_receipts"
)

// KnownTable reports whether name is one of the ledger tables.
func KnownTable(name string) bool {
	switch name {
	case TableBankStatements, TableVendorInvoices, TableClientInvoices,
		TablePayroll, TableExpenseReceipts:
		return true
	}
	return false
}

// readRecords reads and validates a CSV export: the header row must
// match wantHeader exactly (case-insensitive), every record must have
// the same field count.
func readRecords(r io.Reader, wantHeader []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(wantHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV, expected header %v", wantHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), wantHeader[i]) {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, col, wantHeader[i])
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

func parseNumeric(field string, line int, col string) (*big.Rat, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(field))
	if err != nil {
		return nil, fmt.Errorf("line %d: %s %q: %w", line, col, field, err)
	}
	return d.Rat(), nil
}

func parseDate(field string, line int, col string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(field))
	if err != nil {
		return civil.Date{}, fmt.Errorf("line %d: %s %q: %w", line, col, field, err)
	}
	return d, nil
}

// ParseBankStatements parses a bank statement export.
func ParseBankStatements(r io.Reader) ([]*BankStatementRow, error) {
	records, err := readRecords(r, []string{
		"transaction_id", "account_number", "transaction_date", "transaction_type",
		"amount", "balance_after", "counterparty_name", "narration", "category", "payment_mode",
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*BankStatementRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		date, err := parseDate(rec[2], line, "transaction_date")
		if err != nil {
			return nil, err
		}
		amount, err := parseNumeric(rec[4], line, "amount")
		if err != nil {
			return nil, err
		}
		balance, err := parseNumeric(rec[5], line, "balance_after")
		if err != nil {
			return nil, err
		}
		rows = append(rows, &BankStatementRow{
			TransactionID:    rec[0],
			AccountNumber:    rec[1],
			TransactionDate:  date,
			TransactionType:  strings.ToUpper(strings.TrimSpace(rec[3])),
			Amount:           amount,
			BalanceAfter:     balance,
			CounterpartyName: rec[6],
			Narration:        rec[7],
			Category:         rec[8],
			PaymentMode:      rec[9],
		})
	}
	return rows, nil
}

// ParseVendorInvoices parses a vendor invoice export.
func ParseVendorInvoices(r io.Reader) ([]*VendorInvoiceRow, error) {
	records, err := readRecords(r, []string{
		"invoice_id", "vendor_name", "invoice_date", "due_date", "net_amount", "payment_status",
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*VendorInvoiceRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		invoiceDate, err := parseDate(rec[2], line, "invoice_date")
		if err != nil {
			return nil, err
		}
		dueDate, err := parseDate(rec[3], line, "due_date")
		if err != nil {
			return nil, err
		}
		amount, err := parseNumeric(rec[4], line, "net_amount")
		if err != nil {
			return nil, err
		}
		rows = append(rows, &VendorInvoiceRow{
			InvoiceID:     rec[0],
			VendorName:    rec[1],
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			NetAmount:     amount,
			PaymentStatus: rec[5],
		})
	}
	return rows, nil
}

// ParseClientInvoices parses a client invoice export.
func ParseClientInvoices(r io.Reader) ([]*ClientInvoiceRow, error) {
	records, err := readRecords(r, []string{
		"invoice_id", "client_name", "invoice_date", "due_date", "net_amount", "collection_status",
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*ClientInvoiceRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		invoiceDate, err := parseDate(rec[2], line, "invoice_date")
		if err != nil {
			return nil, err
		}
		dueDate, err := parseDate(rec[3], line, "due_date")
		if err != nil {
			return nil, err
		}
		amount, err := parseNumeric(rec[4], line, "net_amount")
		if err != nil {
			return nil, err
		}
		rows = append(rows, &ClientInvoiceRow{
			InvoiceID:        rec[0],
			ClientName:       rec[1],
			InvoiceDate:      invoiceDate,
			DueDate:          dueDate,
			NetAmount:        amount,
			CollectionStatus: rec[5],
		})
	}
	return rows, nil
}

// ParsePayroll parses a payroll export.
func ParsePayroll(r io.Reader) ([]*PayrollRow, error) {
	records, err := readRecords(r, []string{
		"employee_name", "pay_period", "net_salary", "payment_status",
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*PayrollRow, 0, len(records))
	for i, rec := range records {
		salary, err := parseNumeric(rec[2], i+2, "net_salary")
		if err != nil {
			return nil, err
		}
		rows = append(rows, &PayrollRow{
			EmployeeName:  rec[0],
			PayPeriod:     rec[1],
			NetSalary:     salary,
			PaymentStatus: rec[3],
		})
	}
	return rows, nil
}

// ParseExpenseReceipts parses an expense receipt export.
func ParseExpenseReceipts(r io.Reader) ([]*ExpenseReceiptRow, error) {
	records, err := readRecords(r, []string{
		"expense_date", "merchant_name", "expense_category", "amount",
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*ExpenseReceiptRow, 0, len(records))
	for i, rec := range records {
		line := i + 2
		date, err := parseDate(rec[0], line, "expense_date")
		if err != nil {
			return nil, err
		}
		amount, err := parseNumeric(rec[3], line, "amount")
		if err != nil {
			return nil, err
		}
		rows = append(rows, &ExpenseReceiptRow{
			ExpenseDate:     date,
			MerchantName:    rec[1],
			ExpenseCategory: rec[2],
			Amount:          amount,
		})
	}
	return rows, nil
}

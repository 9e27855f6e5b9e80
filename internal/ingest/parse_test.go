package ingest

import (
	"strings"
	"testing"
)

const bankStatementCSV = `transaction_id,account_number,transaction_date,transaction_type,amount,balance_after,counterparty_name,narration,category,payment_mode
TXN001,ACC123,2025-06-01,credit,50000.00,150000.00,Acme Corp,Invoice settlement,Client Receipts,NEFT
TXN002,ACC123,2025-06-02,DEBIT,12000.50,137999.50,Metro Utilities,Electricity bill,Utilities,UPI
`

func TestParseBankStatements(t *testing.T) {
	rows, err := ParseBankStatements(strings.NewReader(bankStatementCSV))
	if err != nil {
		t.Fatalf("ParseBankStatements returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.TransactionID != "TXN001" {
		t.Errorf("TransactionID = %q", first.TransactionID)
	}
	if first.TransactionType != "CREDIT" {
		t.Errorf("TransactionType = %q, want normalized CREDIT", first.TransactionType)
	}
	if got := first.TransactionDate.String(); got != "2025-06-01" {
		t.Errorf("TransactionDate = %q", got)
	}
	if first.Amount.FloatString(2) != "50000.00" {
		t.Errorf("Amount = %s", first.Amount.FloatString(2))
	}
	if rows[1].BalanceAfter.FloatString(2) != "137999.50" {
		t.Errorf("BalanceAfter = %s", rows[1].BalanceAfter.FloatString(2))
	}
}

func TestParseBankStatementsRejectsBadHeader(t *testing.T) {
	csv := "id,account,date\nTXN001,ACC123,2025-06-01\n"
	_, err := ParseBankStatements(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected header mismatch error")
	}
}

func TestParseBankStatementsReportsLineOnBadAmount(t *testing.T) {
	csv := `transaction_id,account_number,transaction_date,transaction_type,amount,balance_after,counterparty_name,narration,category,payment_mode
TXN001,ACC123,2025-06-01,CREDIT,not-a-number,150000.00,Acme Corp,Invoice,Client Receipts,NEFT
`
	_, err := ParseBankStatements(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not mention line 2", err)
	}
}

func TestParseVendorInvoices(t *testing.T) {
	csv := `invoice_id,vendor_name,invoice_date,due_date,net_amount,payment_status
INV100,Sharma Supplies,2025-05-15,2025-06-15,84000.00,Unpaid
`
	rows, err := ParseVendorInvoices(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseVendorInvoices returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].VendorName != "Sharma Supplies" || rows[0].PaymentStatus != "Unpaid" {
		t.Errorf("row = %+v", rows[0])
	}
	if got := rows[0].DueDate.String(); got != "2025-06-15" {
		t.Errorf("DueDate = %q", got)
	}
}

func TestParsePayroll(t *testing.T) {
	csv := `employee_name,pay_period,net_salary,payment_status
Priya Nair,2025-06,95000.00,Paid
Rohan Mehta,2025-06,87000.00,Pending
`
	rows, err := ParsePayroll(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParsePayroll returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].NetSalary.FloatString(2) != "95000.00" {
		t.Errorf("NetSalary = %s", rows[0].NetSalary.FloatString(2))
	}
}

func TestParseExpenseReceipts(t *testing.T) {
	csv := `expense_date,merchant_name,expense_category,amount
2025-06-10,City Cab,Travel,450.00
`
	rows, err := ParseExpenseReceipts(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseExpenseReceipts returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].ExpenseCategory != "Travel" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestParseEmptyInputFails(t *testing.T) {
	if _, err := ParsePayroll(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestKnownTable(t *testing.T) {
	for _, name := range []string{
		TableBankStatements, TableVendorInvoices, TableClientInvoices,
		TablePayroll, TableExpenseReceipts,
	} {
		if !KnownTable(name) {
			t.Errorf("KnownTable(%q) = false", name)
		}
	}
	if KnownTable("transactions") {
		t.Error(`KnownTable("transactions") = true`)
	}
}

func TestSplitGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://exports/2025/bank.csv", "exports", "2025/bank.csv", false},
		{"gs://exports", "", "", true},
		{"https://exports/bank.csv", "", "", true},
		{"gs:///bank.csv", "", "", true},
	}

	for _, tt := range tests {
		bucket, object, err := splitGCSURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitGCSURI(%q): expected error", tt.uri)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitGCSURI(%q): %v", tt.uri, err)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("splitGCSURI(%q) = %q, %q", tt.uri, bucket, object)
		}
	}
}

package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/domain"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/metrics"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeStore is a hand-rolled ledger.Store for tests. Zero values
// behave like an empty ledger.
type fakeStore struct {
	balance     decimal.Decimal
	balanceErr  error
	flows       ledger.Flows
	flowsErr    error
	daily       []ledger.DailyNet
	breakdown   []ledger.CategoryTotal
	topOutflows []ledger.CategoryTotal
	outflowsErr error
	vendors     []ledger.VendorAggregate
	monthly     []ledger.MonthlyFlow
	byMonthCat  []ledger.MonthCategoryTotal
	unpaid      []domain.VendorInvoice
	balanceSum  decimal.Decimal
	paidPayroll decimal.Decimal
}

func (f *fakeStore) LatestBalance(ctx context.Context) (decimal.Decimal, error) {
	return f.balance, f.balanceErr
}

func (f *fakeStore) WindowedFlows(ctx context.Context, windowDays int) (ledger.Flows, error) {
	return f.flows, f.flowsErr
}

func (f *fakeStore) DailyNetSeries(ctx context.Context) ([]ledger.DailyNet, error) {
	return f.daily, nil
}

func (f *fakeStore) CategoryBreakdown(ctx context.Context, txType domain.TxType) ([]ledger.CategoryTotal, error) {
	return f.breakdown, nil
}

func (f *fakeStore) TopOutflowCategories(ctx context.Context, windowDays, limit int) ([]ledger.CategoryTotal, error) {
	return f.topOutflows, f.outflowsErr
}

func (f *fakeStore) VendorAggregates(ctx context.Context) ([]ledger.VendorAggregate, error) {
	return f.vendors, nil
}

func (f *fakeStore) MonthlyFlows(ctx context.Context) ([]ledger.MonthlyFlow, error) {
	return f.monthly, nil
}

func (f *fakeStore) MonthlyCategoryOutflows(ctx context.Context) ([]ledger.MonthCategoryTotal, error) {
	return f.byMonthCat, nil
}

func (f *fakeStore) UnpaidVendorInvoices(ctx context.Context) ([]domain.VendorInvoice, error) {
	return f.unpaid, nil
}

func (f *fakeStore) BalanceSum(ctx context.Context) (decimal.Decimal, error) {
	return f.balanceSum, nil
}

func (f *fakeStore) PaidPayrollTotal(ctx context.Context) (decimal.Decimal, error) {
	return f.paidPayroll, nil
}

// fakeCompleter records the prompt it was given.
type fakeCompleter struct {
	answer string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func populatedStore() *fakeStore {
	return &fakeStore{
		balance: dec("250000"),
		flows:   ledger.Flows{Inflow: dec("90000"), Outflow: dec("60000")},
		topOutflows: []ledger.CategoryTotal{
			{Category: "Salary", Total: dec("30000")},
			{Category: "Rent", Total: dec("20000")},
			{Category: "Vendor Payment", Total: dec("10000")},
		},
	}
}

func newTestEngine(store ledger.Store, completer *fakeCompleter) *Engine {
	return New(store, completer, zerolog.Nop())
}

func TestAskRouting(t *testing.T) {
	tests := []struct {
		question   string
		wantSubstr string
		viaLLM     bool
	}{
		{"Why is my cash reducing?", "Your cash is reducing mainly due to", false},
		{"What's my balance?", "Your current cash balance is approximately", false},
		{"Show cash flow", "Top cash outflows in the last 30 days", false},
		{"Any big outflow this month?", "Top cash outflows in the last 30 days", false},
		{"WHY IS MY CASH DISAPPEARING", "Your cash is reducing mainly due to", false},
		{"Tell me a joke", "a generated answer", true},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			completer := &fakeCompleter{answer: "a generated answer"}
			e := newTestEngine(populatedStore(), completer)

			answer, _ := e.Ask(context.Background(), tt.question, nil)

			if !strings.Contains(answer, tt.wantSubstr) {
				t.Errorf("answer = %q, want substring %q", answer, tt.wantSubstr)
			}
			if tt.viaLLM && completer.prompt == "" {
				t.Error("expected the generative fallback to be called")
			}
			if !tt.viaLLM && completer.prompt != "" {
				t.Errorf("deterministic intent must not call the fallback, prompt = %q", completer.prompt)
			}
		})
	}
}

func TestAskExplainIncludesBalanceAndCategories(t *testing.T) {
	e := newTestEngine(populatedStore(), &fakeCompleter{})

	answer, _ := e.Ask(context.Background(), "why is cash reducing", nil)

	for _, want := range []string{
		"- Salary: approximately ₹30,000",
		"- Rent: approximately ₹20,000",
		"Current available cash balance is approximately ₹250,000.",
	} {
		if !strings.Contains(answer, want) {
			t.Errorf("answer missing %q:\n%s", want, answer)
		}
	}
}

func TestAskTranscriptAppendOnly(t *testing.T) {
	e := newTestEngine(populatedStore(), &fakeCompleter{})

	prior := []domain.ConversationTurn{
		{Role: domain.RoleUser, Text: "hello"},
		{Role: domain.RoleAssistant, Text: "hi"},
	}

	answer, updated := e.Ask(context.Background(), "what is my balance", prior)

	if len(updated) != 4 {
		t.Fatalf("transcript has %d turns, want 4", len(updated))
	}
	if updated[0].Text != "hello" || updated[1].Text != "hi" {
		t.Error("prior turns were rewritten")
	}
	if updated[2].Role != domain.RoleUser || updated[2].Text != "what is my balance" {
		t.Errorf("user turn = %+v", updated[2])
	}
	if updated[3].Role != domain.RoleAssistant || updated[3].Text != answer {
		t.Errorf("assistant turn = %+v", updated[3])
	}
	if len(prior) != 2 {
		t.Error("prior slice was mutated")
	}
}

func TestAskInsufficientData(t *testing.T) {
	empty := &fakeStore{balanceErr: ledger.ErrNoData}

	tests := []struct {
		question string
		want     string
	}{
		{"what is my balance", msgInsufficientBalance},
		{"why is my cash reducing", msgInsufficientExplain},
		{"show cash flow", msgNoOutflowData},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			e := newTestEngine(empty, &fakeCompleter{})
			answer, _ := e.Ask(context.Background(), tt.question, nil)
			if answer != tt.want {
				t.Errorf("answer = %q, want %q", answer, tt.want)
			}
		})
	}
}

func TestAskExplainWithNoRecentOutflows(t *testing.T) {
	store := populatedStore()
	store.topOutflows = nil

	e := newTestEngine(store, &fakeCompleter{})
	answer, _ := e.Ask(context.Background(), "why is cash down", nil)

	if answer != msgInsufficientExplain {
		t.Errorf("answer = %q, want %q", answer, msgInsufficientExplain)
	}
}

func TestAskFallbackPassesPreamble(t *testing.T) {
	completer := &fakeCompleter{answer: "Working capital is..."}
	e := newTestEngine(populatedStore(), completer)

	e.Ask(context.Background(), "What is working capital?", nil)

	if !strings.Contains(completer.prompt, "Currency is INR") {
		t.Errorf("prompt missing INR framing: %q", completer.prompt)
	}
	if !strings.Contains(completer.prompt, "What is working capital?") {
		t.Errorf("prompt missing original question: %q", completer.prompt)
	}
}

func TestAskFallbackFailureDegrades(t *testing.T) {
	completer := &fakeCompleter{err: context.DeadlineExceeded}
	e := newTestEngine(populatedStore(), completer)

	answer, updated := e.Ask(context.Background(), "tell me a story", nil)

	if answer != msgFallbackUnavailable {
		t.Errorf("answer = %q, want degraded message", answer)
	}
	// The degraded answer still lands in the transcript as a normal turn.
	if len(updated) != 2 || updated[1].Role != domain.RoleAssistant {
		t.Errorf("transcript = %+v", updated)
	}
}

func TestSimulateThroughEngine(t *testing.T) {
	store := &fakeStore{
		balance: dec("33000"),
		flows:   ledger.Flows{Inflow: dec("10000"), Outflow: dec("3000")},
	}
	e := newTestEngine(store, &fakeCompleter{})

	res, err := e.Simulate(context.Background(), metrics.ScenarioInput{SalaryHikePct: 10, VendorHikePct: 10})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	if res.AdjustedRunway.Days() != 300 {
		t.Errorf("AdjustedRunway = %d days, want 300", res.AdjustedRunway.Days())
	}
}

func TestSimulateRejectsBadInputBeforeQuerying(t *testing.T) {
	// balanceErr would surface if the store were hit first.
	store := &fakeStore{balanceErr: context.DeadlineExceeded}
	e := newTestEngine(store, &fakeCompleter{})

	_, err := e.Simulate(context.Background(), metrics.ScenarioInput{RevenueDropPct: 200})
	var invalid *metrics.InvalidScenarioInputError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidScenarioInputError, got %v", err)
	}
}

func TestAlerts(t *testing.T) {
	store := &fakeStore{
		balance:     dec("1000"),
		flows:       ledger.Flows{Outflow: dec("3000")}, // burn 100/day, runway 10 days
		balanceSum:  dec("500000"),
		paidPayroll: dec("200000"),
		unpaid: []domain.VendorInvoice{
			{VendorName: "Acme", NetAmount: dec("12000"), PaymentStatus: "Unpaid"},
		},
	}
	e := newTestEngine(store, &fakeCompleter{})

	alerts, err := e.Alerts(context.Background())
	if err != nil {
		t.Fatalf("Alerts returned error: %v", err)
	}
	if !alerts.LowRunway {
		t.Error("expected low runway alert at 10 days")
	}
	if len(alerts.UnpaidInvoices) != 1 {
		t.Errorf("unpaid invoices = %d, want 1", len(alerts.UnpaidInvoices))
	}
	if !alerts.PayrollShortfall.Equal(dec("300000")) {
		t.Errorf("PayrollShortfall = %s, want 300000", alerts.PayrollShortfall)
	}
}

func TestAlertsUnboundedRunwayIsHealthy(t *testing.T) {
	store := &fakeStore{balance: dec("1000")} // zero flows
	e := newTestEngine(store, &fakeCompleter{})

	alerts, err := e.Alerts(context.Background())
	if err != nil {
		t.Fatalf("Alerts returned error: %v", err)
	}
	if alerts.LowRunway {
		t.Error("unbounded runway must not trigger the low runway alert")
	}
}

func TestDashboardAssembly(t *testing.T) {
	store := populatedStore()
	store.daily = []ledger.DailyNet{
		{Net: dec("100")},
		{Net: dec("-40")},
	}
	store.monthly = []ledger.MonthlyFlow{
		{Month: "2026-07", Inflow: dec("90000"), Outflow: dec("60000")},
	}
	store.byMonthCat = []ledger.MonthCategoryTotal{
		{Month: "2026-06", Category: "Rent", Total: dec("20000")},
		{Month: "2026-07", Category: "Rent", Total: dec("25000")},
	}
	store.vendors = []ledger.VendorAggregate{
		{Vendor: "Acme", Payments: 2, TotalPaid: dec("5000"), AvgPayment: dec("2500")},
	}

	e := newTestEngine(store, &fakeCompleter{})
	dash, err := e.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	// Trend is the cumulative sum of the daily net series.
	if !dash.CashTrend[1].Balance.Equal(dec("60")) {
		t.Errorf("trend[1] = %s, want 60", dash.CashTrend[1].Balance)
	}
	if !dash.MonthlyFlows[0].Net.Equal(dec("30000")) {
		t.Errorf("monthly net = %s, want 30000", dash.MonthlyFlows[0].Net)
	}
	if len(dash.RootCause) != 1 || !dash.RootCause[0].Delta.Equal(dec("5000")) {
		t.Errorf("root cause = %+v", dash.RootCause)
	}
	if len(dash.VendorRisk) != 1 {
		t.Errorf("vendor risk = %+v", dash.VendorRisk)
	}
}

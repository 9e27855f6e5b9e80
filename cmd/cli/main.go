package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/nsarda/cashlens/internal/agent"
	"github.com/nsarda/cashlens/internal/config"
	"github.com/nsarda/cashlens/internal/format"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/llm"
	"github.com/nsarda/cashlens/internal/logger"
	"github.com/nsarda/cashlens/internal/metrics"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ask":
		runAsk(log)
	case "dashboard":
		runDashboard(log)
	case "simulate":
		runSimulate(log)
	case "forecast":
		runForecast(log)
	case "alerts":
		runAlerts(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("CashLens CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ask        Ask a question about the cash position")
	fmt.Println("  dashboard  Print the KPI snapshot and analytics tables")
	fmt.Println("  simulate   Run a what-if scenario on the cash runway")
	fmt.Println("  forecast   Project the balance forward at the current burn rate")
	fmt.Println("  alerts     Show runway, invoice and payroll alerts")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// newEngine wires a BigQuery-backed engine from the environment. The
// returned closer releases the BigQuery client.
func newEngine(ctx context.Context, log zerolog.Logger) (*agent.Engine, *config.Config, func()) {
	cfg := config.Load(log)
	if cfg.GCPProject == "" {
		log.Fatal().Msg("GCP_PROJECT is required")
	}

	store, err := ledger.NewBigQueryStore(ctx, cfg.GCPProject, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger store")
	}

	completer := llm.NewGemini(cfg.GeminiModel, cfg.LLMTimeout)
	return agent.New(store, completer, log), cfg, func() { store.Close() }
}

func runAsk(log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	question := fs.String("q", "", "Question to ask")
	fs.Parse(os.Args[2:])

	if *question == "" {
		log.Fatal().Msg("Error: -q is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine, _, closeStore := newEngine(ctx, log)
	defer closeStore()

	answer, _ := engine.Ask(ctx, *question, nil)
	fmt.Println(answer)
}

func runDashboard(log zerolog.Logger) {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine, _, closeStore := newEngine(ctx, log)
	defer closeStore()

	dash, err := engine.Dashboard(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to assemble dashboard")
	}

	for _, line := range format.SnapshotLines(dash.Snapshot) {
		fmt.Println(line)
	}

	if len(dash.ExpenseBreakdown) > 0 {
		fmt.Println("\nExpense breakdown:")
		for _, line := range format.OutflowLines(dash.ExpenseBreakdown) {
			fmt.Println(line)
		}
	}

	if len(dash.MonthlyFlows) > 0 {
		fmt.Println("\nMonthly cash flow:")
		for _, m := range dash.MonthlyFlows {
			fmt.Printf("- %s: in %s, out %s, net %s\n",
				m.Month, format.INR(m.Inflow), format.INR(m.Outflow), format.SignedINR(m.Net))
		}
	}

	if len(dash.RootCause) > 0 {
		fmt.Println("\nMonth-over-month spend drivers:")
		for _, line := range format.RootCauseLines(dash.RootCause) {
			fmt.Println(line)
		}
	}

	if len(dash.VendorRisk) > 0 {
		fmt.Println("\nVendor concentration:")
		for _, line := range format.VendorRiskLines(dash.VendorRisk) {
			fmt.Println(line)
		}
	}
}

func runSimulate(log zerolog.Logger) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	salaryHike := fs.Float64("salary-hike", 0, "Salary hike percentage [0,100]")
	vendorHike := fs.Float64("vendor-hike", 0, "Vendor cost hike percentage [0,100]")
	revenueDrop := fs.Float64("revenue-drop", 0, "Revenue drop percentage [0,100]")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine, _, closeStore := newEngine(ctx, log)
	defer closeStore()

	result, err := engine.Simulate(ctx, metrics.ScenarioInput{
		SalaryHikePct:  *salaryHike,
		VendorHikePct:  *vendorHike,
		RevenueDropPct: *revenueDrop,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Scenario failed")
	}

	fmt.Printf("Adjusted inflow (30d):  %s\n", format.INR(result.AdjustedInflow))
	fmt.Printf("Adjusted outflow (30d): %s\n", format.INR(result.AdjustedOutflow))
	fmt.Printf("Adjusted burn per day:  %s\n", format.INR(result.AdjustedBurn))
	fmt.Printf("Adjusted runway:        %s\n", format.Runway(result.AdjustedRunway))
}

func runForecast(log zerolog.Logger) {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	days := fs.Int("days", 0, "Projection horizon in days (default from FORECAST_DAYS)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine, cfg, closeStore := newEngine(ctx, log)
	defer closeStore()

	horizon := *days
	if horizon <= 0 {
		horizon = cfg.ForecastDays
	}

	points, err := engine.Forecast(ctx, horizon)
	if err != nil {
		log.Fatal().Err(err).Msg("Forecast failed")
	}

	for _, p := range points {
		fmt.Printf("day %3d: %s\n", p.Day, format.INR(p.ProjectedBalance))
	}
}

func runAlerts(log zerolog.Logger) {
	fs := flag.NewFlagSet("alerts", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine, _, closeStore := newEngine(ctx, log)
	defer closeStore()

	alerts, err := engine.Alerts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to gather alerts")
	}

	if alerts.LowRunway {
		fmt.Printf("LOW RUNWAY: %s of cash left at the current burn rate\n", format.Runway(alerts.Runway))
	} else {
		fmt.Printf("Runway healthy: %s\n", format.Runway(alerts.Runway))
	}

	if len(alerts.UnpaidInvoices) > 0 {
		fmt.Printf("\nUnpaid vendor invoices (%d):\n", len(alerts.UnpaidInvoices))
		for _, inv := range alerts.UnpaidInvoices {
			fmt.Printf("- %s %s due %s: %s (%s)\n",
				inv.ID, inv.VendorName, inv.DueDate.Format("2006-01-02"),
				format.INR(inv.NetAmount), inv.PaymentStatus)
		}
	} else {
		fmt.Println("\nNo unpaid vendor invoices.")
	}

	fmt.Printf("\nPayroll coverage gap: %s\n", format.SignedINR(alerts.PayrollShortfall))
}

// Package format renders metric results as user-facing text. It is a
// pure rendering layer: values are printed in the order given, never
// re-sorted or re-aggregated.
package format

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/metrics"
)

// CurrencySymbol prefixes every rendered amount. The engine reports in
// Indian rupees.
const CurrencySymbol = "₹"

// INR renders an amount as an integer-rounded rupee string with comma
// thousands separators. Rounding truncates toward zero, matching how
// the dashboards have always displayed amounts.
func INR(d decimal.Decimal) string {
	n := d.Truncate(0).BigInt()
	if n.Sign() < 0 {
		return CurrencySymbol + "-" + groupThousands(new(big.Int).Abs(n).String())
	}
	return CurrencySymbol + groupThousands(n.String())
}

// SignedINR renders an amount with an explicit leading + or - sign,
// used for deltas.
func SignedINR(d decimal.Decimal) string {
	if d.Sign() < 0 {
		return "-" + CurrencySymbol + groupThousands(d.Truncate(0).Neg().BigInt().String())
	}
	return "+" + CurrencySymbol + groupThousands(d.Truncate(0).BigInt().String())
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Runway renders a runway as a day count, with the unbounded case
// spelled out instead of a sentinel number.
func Runway(r metrics.Runway) string {
	if r.Unbounded() {
		return "effectively unlimited"
	}
	return fmt.Sprintf("%d days", r.Days())
}

// OutflowLines renders category totals as bullet lines, preserving
// their order.
func OutflowLines(totals []ledger.CategoryTotal) []string {
	lines := make([]string, 0, len(totals))
	for _, ct := range totals {
		lines = append(lines, fmt.Sprintf("- %s: approximately %s", ct.Category, INR(ct.Total)))
	}
	return lines
}

// RootCauseLines renders month-over-month drivers as signed bullet
// lines, preserving their order.
func RootCauseLines(drivers []metrics.CategoryDelta) []string {
	lines := make([]string, 0, len(drivers))
	for _, d := range drivers {
		lines = append(lines, fmt.Sprintf("- %s: %s", d.Category, SignedINR(d.Delta)))
	}
	return lines
}

// VendorRiskLines renders the vendor risk ranking, preserving order.
func VendorRiskLines(ranked []metrics.VendorRisk) []string {
	lines := make([]string, 0, len(ranked))
	for _, v := range ranked {
		lines = append(lines, fmt.Sprintf("- %s: paid %s across %d payments (score %s)",
			v.Vendor, INR(v.TotalPaid), v.Payments, v.Score.StringFixed(2)))
	}
	return lines
}

// SnapshotLines renders the KPI snapshot for terminal display.
func SnapshotLines(s metrics.Snapshot) []string {
	return []string{
		fmt.Sprintf("Cash balance:     %s", INR(s.Balance)),
		fmt.Sprintf("Net change (30d): %s", INR(s.NetChange30)),
		fmt.Sprintf("Burn per day:     %s", INR(s.BurnPerDay)),
		fmt.Sprintf("Cash runway:      %s", Runway(s.Runway)),
	}
}

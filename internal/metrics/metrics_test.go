package metrics

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nsarda/cashlens/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBurnRate(t *testing.T) {
	tests := []struct {
		name      string
		outflow30 string
		want      string
	}{
		{"normal", "3000", "100"},
		{"zero outflow", "0", "0"},
		{"fractional", "100", "3.3333333333333333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BurnRate(dec(tt.outflow30))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("BurnRate(%s) = %s, want %s", tt.outflow30, got, tt.want)
			}
		})
	}
}

func TestComputeRunway(t *testing.T) {
	t.Run("floors the division", func(t *testing.T) {
		r := ComputeRunway(dec("1000"), dec("300"))
		if r.Unbounded() {
			t.Fatal("expected bounded runway")
		}
		if r.Days() != 3 {
			t.Errorf("Days() = %d, want 3", r.Days())
		}
	})

	t.Run("zero burn is unbounded", func(t *testing.T) {
		r := ComputeRunway(dec("1000"), decimal.Zero)
		if !r.Unbounded() {
			t.Fatal("expected unbounded runway")
		}
		if r.SentinelDays() != UnboundedRunwaySentinel {
			t.Errorf("SentinelDays() = %d, want %d", r.SentinelDays(), UnboundedRunwaySentinel)
		}
	})
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot(dec("50000"), ledger.Flows{Inflow: dec("12000"), Outflow: dec("3000")})

	if !snap.NetChange30.Equal(dec("9000")) {
		t.Errorf("NetChange30 = %s, want 9000", snap.NetChange30)
	}
	if !snap.BurnPerDay.Equal(dec("100")) {
		t.Errorf("BurnPerDay = %s, want 100", snap.BurnPerDay)
	}
	if snap.Runway.Unbounded() || snap.Runway.Days() != 500 {
		t.Errorf("Runway = %+v, want bounded 500 days", snap.Runway)
	}
}

func TestNewSnapshotEmptyWindow(t *testing.T) {
	// Zero flows must produce a zero burn rate and an unbounded runway.
	snap := NewSnapshot(dec("50000"), ledger.Flows{Inflow: decimal.Zero, Outflow: decimal.Zero})

	if !snap.BurnPerDay.IsZero() {
		t.Errorf("BurnPerDay = %s, want 0", snap.BurnPerDay)
	}
	if !snap.Runway.Unbounded() {
		t.Error("expected unbounded runway for zero burn")
	}
	if snap.Runway.SentinelDays() != 999 {
		t.Errorf("SentinelDays() = %d, want 999", snap.Runway.SentinelDays())
	}
}

func TestRunwayJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		runway Runway
		want   string
	}{
		{"bounded", BoundedRunway(42), `{"days":42,"unbounded":false}`},
		{"unbounded carries the sentinel", UnboundedRunway(), `{"days":999,"unbounded":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.runway)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshaled %s, want %s", data, tt.want)
			}

			var back Runway
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back != tt.runway {
				t.Errorf("round trip = %+v, want %+v", back, tt.runway)
			}
		})
	}
}

func TestCashShortfall(t *testing.T) {
	got := CashShortfall(dec("100000"), dec("40000"))
	if !got.Equal(dec("60000")) {
		t.Errorf("CashShortfall = %s, want 60000", got)
	}
}

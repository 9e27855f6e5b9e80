package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestForecastLinearDepletion(t *testing.T) {
	points := Forecast(dec("300"), dec("100"), 5)

	if len(points) != 5 {
		t.Fatalf("got %d points, want 5", len(points))
	}
	want := []string{"200", "100", "0", "0", "0"}
	for i, w := range want {
		if !points[i].ProjectedBalance.Equal(dec(w)) {
			t.Errorf("day %d balance = %s, want %s", points[i].Day, points[i].ProjectedBalance, w)
		}
	}
}

func TestForecastFloorReachesExactlyZero(t *testing.T) {
	// Burn exceeding the balance: the projection must hit exactly zero
	// on the exhaustion day and stay there, never going negative.
	points := Forecast(dec("250"), dec("100"), 90)

	if len(points) != 90 {
		t.Fatalf("got %d points, want 90", len(points))
	}
	for _, p := range points {
		if p.ProjectedBalance.IsNegative() {
			t.Fatalf("day %d balance %s is negative", p.Day, p.ProjectedBalance)
		}
	}
	if !points[2].ProjectedBalance.IsZero() {
		t.Errorf("day 3 balance = %s, want exactly 0", points[2].ProjectedBalance)
	}
	if !points[89].ProjectedBalance.IsZero() {
		t.Errorf("day 90 balance = %s, want 0", points[89].ProjectedBalance)
	}
}

func TestForecastZeroBurnHoldsBalance(t *testing.T) {
	points := Forecast(dec("500"), decimal.Zero, 3)
	for _, p := range points {
		if !p.ProjectedBalance.Equal(dec("500")) {
			t.Errorf("day %d balance = %s, want 500", p.Day, p.ProjectedBalance)
		}
	}
}

func TestForecastDefaultHorizon(t *testing.T) {
	points := Forecast(dec("100"), dec("1"), 0)
	if len(points) != DefaultForecastDays {
		t.Errorf("got %d points, want %d", len(points), DefaultForecastDays)
	}
}

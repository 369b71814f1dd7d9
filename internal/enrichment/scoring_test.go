package enrichment

import (
	"math"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Echoes  ", "echoes"},
		{"The\tDark   Side", "the dark side"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimpleRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "dark side of the moon", "dark side of the moon", 1.0},
		{"case and spacing ignored", "Dark  Side", "dark side", 1.0},
		{"half overlap", "dark side", "dark moon", 1.0 / 3.0},
		{"disjoint", "echoes", "money", 0},
		{"empty side", "", "echoes", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SimpleRatio(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("SimpleRatio() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestYearProximity(t *testing.T) {
	year := func(y int) *int { return &y }

	tests := []struct {
		name   string
		target *int
		cand   *int
		want   float64
	}{
		{"exact", year(1973), year(1973), 1.0},
		{"off by one", year(1973), year(1974), 0.7},
		{"off by two", year(1973), year(1971), 0.4},
		{"off by three", year(1973), year(1976), 0},
		{"unknown target", nil, year(1973), 0},
		{"unknown candidate", year(1973), nil, 0},
		{"zero year", year(0), year(1973), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := YearProximity(tc.target, tc.cand); got != tc.want {
				t.Errorf("YearProximity() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAggregateScore(t *testing.T) {
	if got := AggregateScore(1, 1, 1); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("AggregateScore(1,1,1) = %v, want 1", got)
	}
	if got := AggregateScore(0.5, 0, 0); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("AggregateScore(0.5,0,0) = %v, want 0.3", got)
	}
	// Provider confidence dominates title and year together.
	strong := AggregateScore(1, 0, 0)
	weak := AggregateScore(0, 1, 1)
	if strong <= weak {
		t.Errorf("provider weight %v should exceed title+year %v", strong, weak)
	}
}

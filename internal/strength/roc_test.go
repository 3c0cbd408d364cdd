package strength

import (
	"math"
	"testing"
)

func TestRateOfChange(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		k      int
		want   float64
		ok     bool
	}{
		{"one period gain", []float64{100, 110}, 1, 10, true},
		{"doubling", []float64{50, 80, 100}, 2, 100, true},
		{"decline", []float64{100, 90, 80}, 2, -20, true},
		{"flat", []float64{100, 100, 100}, 2, 0, true},
		{"exact minimum length", []float64{100, 101, 102, 103, 104}, 4, 4, true},
		{"series too short", []float64{100, 110}, 2, 0, false},
		{"zero past value", []float64{0, 100}, 1, 0, false},
		{"non-positive lag", []float64{100, 110}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RateOfChange(tt.closes, tt.k)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

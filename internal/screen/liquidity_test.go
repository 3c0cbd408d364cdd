package screen

import (
	"testing"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
)

func volumeSeries(volumes ...int64) *contracts.PriceSeries {
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, len(volumes))
	for i, v := range volumes {
		bars[i] = contracts.Bar{Date: base.AddDate(0, 0, i), Close: 100, Volume: v}
	}
	return &contracts.PriceSeries{Ticker: "VOL", Bars: bars}
}

func TestLiquidityFilter_Check(t *testing.T) {
	f := NewLiquidityFilter(300_000, 3)

	tests := []struct {
		name    string
		volumes []int64
		wantAvg float64
		pass    bool
	}{
		{
			name:    "clears the gate",
			volumes: []int64{100_000, 400_000, 400_000, 400_000},
			wantAvg: 400_000,
			pass:    true,
		},
		{
			name:    "exactly at the threshold passes",
			volumes: []int64{500_000, 300_000, 300_000, 300_000},
			wantAvg: 300_000,
			pass:    true,
		},
		{
			name:    "thin trading fails",
			volumes: []int64{900_000, 100_000, 100_000, 100_000},
			wantAvg: 100_000,
			pass:    false,
		},
		{
			name:    "short series averages what exists",
			volumes: []int64{350_000, 350_000},
			wantAvg: 350_000,
			pass:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, ok := f.Check(volumeSeries(tt.volumes...))
			if avg != tt.wantAvg {
				t.Errorf("expected avg %v, got %v", tt.wantAvg, avg)
			}
			if ok != tt.pass {
				t.Errorf("expected pass=%v, got %v", tt.pass, ok)
			}
		})
	}
}

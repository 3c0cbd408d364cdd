package strength

import (
	"math"
	"testing"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// flatSeriesWith builds a 100-valued series of length n with chosen
// closes planted at specific indices.
func flatSeriesWith(ticker string, n int, overrides map[int]float64) *contracts.PriceSeries {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, n)
	for i := range bars {
		c := 100.0
		if v, ok := overrides[i]; ok {
			c = v
		}
		bars[i] = contracts.Bar{Date: base.AddDate(0, 0, i), Close: c, Volume: 1_000_000}
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}
}

func TestScorer_CompositeFormula(t *testing.T) {
	scorer := NewScorer(DefaultConfig(), logger.Discard())

	// 253 bars: last index 252, horizon bases at 252-63, 252-126,
	// 252-189 and 0.
	s := flatSeriesWith("COMP", 253, map[int]float64{
		252: 120, // latest close
		189: 100, // 63d ago:  +20%
		126: 80,  // 126d ago: +50%
		63:  96,  // 189d ago: +25%
		0:   60,  // 252d ago: +100%
	})

	rec, ok := scorer.Score(s)
	if !ok {
		t.Fatal("expected a scored record")
	}

	if math.Abs(rec.ROC3M-20) > 1e-9 {
		t.Errorf("roc 3m: expected 20, got %v", rec.ROC3M)
	}
	if math.Abs(rec.ROC6M-50) > 1e-9 {
		t.Errorf("roc 6m: expected 50, got %v", rec.ROC6M)
	}
	if math.Abs(rec.ROC9M-25) > 1e-9 {
		t.Errorf("roc 9m: expected 25, got %v", rec.ROC9M)
	}
	if math.Abs(rec.ROC12M-100) > 1e-9 {
		t.Errorf("roc 12m: expected 100, got %v", rec.ROC12M)
	}

	// 0.40*20 + 0.20*50 + 0.20*25 + 0.20*100
	if math.Abs(rec.Strength-43) > 1e-9 {
		t.Errorf("strength: expected 43, got %v", rec.Strength)
	}
	if rec.Percentile != 0 {
		t.Errorf("percentile must be left for the ranker, got %d", rec.Percentile)
	}
}

func TestScorer_DropPolicy(t *testing.T) {
	scorer := NewScorer(DefaultConfig(), logger.Discard())

	// 200 bars cannot serve the 252-day horizon.
	if _, ok := scorer.Score(flatSeriesWith("SHRT", 200, nil)); ok {
		t.Error("expected ticker dropped under the drop policy")
	}
}

func TestScorer_ZeroPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NaNPolicy = NaNZero
	scorer := NewScorer(cfg, logger.Discard())

	// 150 bars: 63d and 126d horizons defined, 189d and 252d undefined.
	s := flatSeriesWith("PART", 150, map[int]float64{149: 110})
	rec, ok := scorer.Score(s)
	if !ok {
		t.Fatal("expected a scored record under the zero policy")
	}

	if math.Abs(rec.ROC3M-10) > 1e-9 || math.Abs(rec.ROC6M-10) > 1e-9 {
		t.Errorf("defined horizons: expected 10/10, got %v/%v", rec.ROC3M, rec.ROC6M)
	}
	if rec.ROC9M != 0 || rec.ROC12M != 0 {
		t.Errorf("undefined horizons must contribute zero, got %v/%v", rec.ROC9M, rec.ROC12M)
	}
	if math.Abs(rec.Strength-6) > 1e-9 {
		t.Errorf("strength: expected 6, got %v", rec.Strength)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"reference config", func(c *Config) {}, false},
		{"weights off by too much", func(c *Config) { c.Weights[0] = 0.5 }, true},
		{"negative weight", func(c *Config) { c.Weights[0] = -0.1 }, true},
		{"non-ascending horizons", func(c *Config) { c.Horizons[1] = 63 }, true},
		{"zero horizon", func(c *Config) { c.Horizons[0] = 0 }, true},
		{"unknown nan policy", func(c *Config) { c.NaNPolicy = "skip" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

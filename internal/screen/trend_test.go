package screen

import (
	"testing"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
)

func relaxedConfig() Config {
	return Config{
		Variant:       VariantRelaxed,
		MAShort:       50,
		MALong:        200,
		SlopeLag:      50,
		HighProximity: 0.85,
	}
}

func strictConfig() Config {
	return Config{
		Variant:       VariantStrict,
		MAShort:       50,
		MAMid:         150,
		MALong:        200,
		SlopeLag:      20,
		HighProximity: 0.75,
		LowExtension:  1.25,
	}
}

func TestApply_Relaxed(t *testing.T) {
	f := NewFilter(relaxedConfig())

	tests := []struct {
		name     string
		st       stats
		passed   bool
		wantRule string
	}{
		{
			name:   "healthy uptrend passes",
			st:     stats{price: 100, maShort: 95, maLong: 90, slope: 0.1, maxClose: 105, minClose: 60},
			passed: true,
		},
		{
			name:     "price below short MA",
			st:       stats{price: 94, maShort: 95, maLong: 90, slope: 0.1, maxClose: 105, minClose: 60},
			wantRule: RuleMAStack,
		},
		{
			name:     "inverted MA stack",
			st:       stats{price: 100, maShort: 90, maLong: 95, slope: 0.1, maxClose: 105, minClose: 60},
			wantRule: RuleMAStack,
		},
		{
			name:     "flat long MA",
			st:       stats{price: 100, maShort: 95, maLong: 90, slope: 0, maxClose: 105, minClose: 60},
			wantRule: RuleMASlope,
		},
		{
			name:   "exactly 85 percent of high passes",
			st:     stats{price: 85, maShort: 80, maLong: 75, slope: 0.1, maxClose: 100, minClose: 50},
			passed: true,
		},
		{
			name:     "just under 85 percent of high",
			st:       stats{price: 84.99, maShort: 80, maLong: 75, slope: 0.1, maxClose: 100, minClose: 50},
			wantRule: RuleHighProximity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := f.apply(tt.st)
			if v.Passed() != tt.passed {
				t.Fatalf("passed: expected %v, got %v", tt.passed, v.Passed())
			}
			if !tt.passed {
				fail := v.Failure("TEST")
				if fail.Reason != contracts.ReasonTrendRule {
					t.Errorf("expected trend_rule reason, got %s", fail.Reason)
				}
				if fail.Rule != tt.wantRule {
					t.Errorf("expected rule %s, got %s", tt.wantRule, fail.Rule)
				}
			}
		})
	}
}

func TestApply_Strict(t *testing.T) {
	f := NewFilter(strictConfig())

	tests := []struct {
		name     string
		st       stats
		passed   bool
		wantRule string
	}{
		{
			name:   "full template passes",
			st:     stats{price: 100, maShort: 98, maMid: 95, maLong: 90, slope: 0.5, maxClose: 130, minClose: 75},
			passed: true,
		},
		{
			name:     "short MA under mid MA",
			st:       stats{price: 100, maShort: 94, maMid: 95, maLong: 90, slope: 0.5, maxClose: 130, minClose: 75},
			wantRule: RuleMAStack,
		},
		{
			name:   "exactly 25 percent above low passes",
			st:     stats{price: 100, maShort: 98, maMid: 95, maLong: 90, slope: 0.5, maxClose: 130, minClose: 80},
			passed: true,
		},
		{
			name:     "just under 25 percent above low",
			st:       stats{price: 100, maShort: 98, maMid: 95, maLong: 90, slope: 0.5, maxClose: 130, minClose: 100 / 1.2499},
			wantRule: RuleLowExtension,
		},
		{
			name:   "exactly 75 percent of high passes",
			st:     stats{price: 75, maShort: 72, maMid: 70, maLong: 68, slope: 0.5, maxClose: 100, minClose: 50},
			passed: true,
		},
		{
			name:     "just under 75 percent of high",
			st:       stats{price: 74.99, maShort: 72, maMid: 70, maLong: 68, slope: 0.5, maxClose: 100, minClose: 50},
			wantRule: RuleHighProximity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := f.apply(tt.st)
			if v.Passed() != tt.passed {
				t.Fatalf("passed: expected %v, got %v", tt.passed, v.Passed())
			}
			if !tt.passed {
				if fail := v.Failure("TEST"); fail.Rule != tt.wantRule {
					t.Errorf("expected rule %s, got %s", tt.wantRule, fail.Rule)
				}
			}
		})
	}
}

func TestApply_OverextensionGuard(t *testing.T) {
	cfg := relaxedConfig()
	cfg.MaxExtensionAboveMA50 = 0.5
	f := NewFilter(cfg)

	st := stats{price: 200, maShort: 100, maLong: 90, slope: 0.5, maxClose: 210, minClose: 80}
	v := f.apply(st)
	if v.Passed() {
		t.Fatal("expected overextension failure")
	}
	if fail := v.Failure("TEST"); fail.Rule != RuleOverextended {
		t.Errorf("expected rule %s, got %s", RuleOverextended, fail.Rule)
	}

	// Guard disabled: the same stats pass.
	if v := NewFilter(relaxedConfig()).apply(st); !v.Passed() {
		t.Error("expected pass with guard disabled")
	}
}

// series builds a chronological test series from closes only.
func series(ticker string, closes ...float64) *contracts.PriceSeries {
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.Bar{Date: base.AddDate(0, 0, i), Close: c, Volume: 1_000_000}
	}
	return &contracts.PriceSeries{Ticker: ticker, Bars: bars}
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	f := NewFilter(relaxedConfig())

	v := f.Evaluate(series("SHRT", 1, 2, 3))
	if v.Passed() {
		t.Fatal("expected failure")
	}
	if fail := v.Failure("SHRT"); fail.Reason != contracts.ReasonInsufficientHistory {
		t.Errorf("expected insufficient_history, got %s", fail.Reason)
	}
}

func TestEvaluate_MissingIndicator(t *testing.T) {
	// Enough bars for the long MA but the slope lag reaches back into
	// the undefined MA prefix.
	cfg := Config{
		Variant:       VariantRelaxed,
		MAShort:       3,
		MALong:        5,
		SlopeLag:      10,
		HighProximity: 0.85,
	}
	f := NewFilter(cfg)

	v := f.Evaluate(series("GAP", 1, 2, 3, 4, 5, 6, 7, 8))
	if v.Passed() {
		t.Fatal("expected failure")
	}
	if fail := v.Failure("GAP"); fail.Reason != contracts.ReasonMissingIndicator {
		t.Errorf("expected missing_indicator, got %s", fail.Reason)
	}
}

func TestEvaluate_RisingSeriesPasses(t *testing.T) {
	cfg := Config{
		Variant:       VariantRelaxed,
		MAShort:       3,
		MALong:        5,
		SlopeLag:      2,
		HighProximity: 0.85,
	}
	f := NewFilter(cfg)

	s := series("UP", 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20)
	v := f.Evaluate(s)
	if !v.Passed() {
		t.Fatalf("expected pass, got %+v", v.Failure("UP"))
	}

	snap := v.Snapshot()
	if snap.Price != 20 {
		t.Errorf("expected price 20, got %v", snap.Price)
	}
	// The latest close is the 52-week high of a rising series.
	if snap.PctFrom52WHigh != 0 {
		t.Errorf("expected 0 pct from high, got %v", snap.PctFrom52WHigh)
	}
	if snap.PctFrom52WLow != 1 {
		t.Errorf("expected 100 pct above low, got %v", snap.PctFrom52WLow)
	}
}

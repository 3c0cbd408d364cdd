package screen

import (
	"math"

	"github.com/wonny/trendscan/internal/contracts"
)

// Variant selects which trend-template cascade applies. The two variants
// are mutually exclusive and never merged.
type Variant string

const (
	// VariantRelaxed is the 2-MA screen: price > MA50 > MA200, gentle
	// MA200 uptrend, price within 15% of the 52-week high.
	VariantRelaxed Variant = "relaxed"
	// VariantStrict is the 3-MA trend template: full ascending MA stack,
	// price at least 25% off the 52-week low and within 25% of the high.
	VariantStrict Variant = "strict"
)

// Rule identifiers reported on trend failures.
const (
	RuleMAStack       = "ma_stack"
	RuleMASlope       = "ma_slope"
	RuleLowExtension  = "low_extension"
	RuleHighProximity = "high_proximity"
	RuleOverextended  = "overextended"
)

// Config tunes the trend cascade. Zero values for MAMid and LowExtension
// are expected under the relaxed variant.
type Config struct {
	Variant               Variant
	MAShort               int     // 50
	MAMid                 int     // 150, strict only
	MALong                int     // 200
	SlopeLag              int     // 50 relaxed, 20 strict
	HighProximity         float64 // price/high lower bound: 0.85 relaxed, 0.75 strict
	LowExtension          float64 // price/low lower bound, strict only: 1.25
	MaxExtensionAboveMA50 float64 // optional overheat guard, 0 disables
}

// Snapshot is the pass-side output of the trend evaluation.
type Snapshot struct {
	Price          float64
	MA50           float64
	MA150          float64 // zero under the relaxed variant
	MA200          float64
	PctFrom52WHigh float64 // 1 - price/max(close)
	PctFrom52WLow  float64 // price/min(close) - 1
}

// Verdict is the terminal outcome of one ticker's trend evaluation:
// either a pass with its snapshot or a fail with exactly one reason.
type Verdict struct {
	passed   bool
	snapshot Snapshot
	reason   contracts.FailureReason
	rule     string
}

func pass(s Snapshot) Verdict {
	return Verdict{passed: true, snapshot: s}
}

func fail(reason contracts.FailureReason, rule string) Verdict {
	return Verdict{reason: reason, rule: rule}
}

// Passed reports whether the ticker survived the cascade.
func (v Verdict) Passed() bool { return v.passed }

// Snapshot returns the pass-side snapshot. Only meaningful after Passed.
func (v Verdict) Snapshot() Snapshot { return v.snapshot }

// Failure converts a failing verdict into a tagged failure record.
func (v Verdict) Failure(ticker string) contracts.Failure {
	return contracts.Failure{Ticker: ticker, Reason: v.reason, Rule: v.rule}
}

// stats carries the derived values the cascade tests. Keeping them in one
// struct lets rule logic be exercised without constructing full series.
type stats struct {
	price    float64
	maShort  float64
	maMid    float64
	maLong   float64
	slope    float64
	maxClose float64
	minClose float64
}

// Filter evaluates the trend template over one price series. Evaluation
// is pure: no state is shared across tickers.
type Filter struct {
	cfg Config
}

// NewFilter creates a trend filter for one policy.
func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Evaluate runs the ordered predicate cascade for one series and
// short-circuits at the first failing rule.
func (f *Filter) Evaluate(series *contracts.PriceSeries) Verdict {
	closes := series.Closes()
	if len(closes) < f.cfg.MALong {
		return fail(contracts.ReasonInsufficientHistory, "")
	}

	maShort := SMA(closes, f.cfg.MAShort)
	maLong := SMA(closes, f.cfg.MALong)

	st := stats{
		price:    closes[len(closes)-1],
		maShort:  maShort[len(maShort)-1],
		maLong:   maLong[len(maLong)-1],
		slope:    Slope(maLong, f.cfg.SlopeLag),
		maxClose: series.MaxClose(),
		minClose: series.MinClose(),
	}

	if f.cfg.Variant == VariantStrict {
		maMid := SMA(closes, f.cfg.MAMid)
		st.maMid = maMid[len(maMid)-1]
	}

	if math.IsNaN(st.maShort) || math.IsNaN(st.maLong) || math.IsNaN(st.slope) {
		return fail(contracts.ReasonMissingIndicator, "")
	}
	if f.cfg.Variant == VariantStrict && math.IsNaN(st.maMid) {
		return fail(contracts.ReasonMissingIndicator, "")
	}
	if st.maxClose <= 0 || st.minClose <= 0 {
		// Non-positive closes make the range position meaningless.
		return fail(contracts.ReasonMissingIndicator, "")
	}

	return f.apply(st)
}

// apply runs the rule cascade over precomputed stats.
func (f *Filter) apply(st stats) Verdict {
	switch f.cfg.Variant {
	case VariantStrict:
		// Full ascending stack by recency: price and MA50 both above
		// MA150, MA150 above MA200.
		if !(st.price > st.maMid && st.maMid > st.maLong && st.maShort > st.maMid) {
			return fail(contracts.ReasonTrendRule, RuleMAStack)
		}
	default:
		if !(st.price > st.maShort && st.maShort > st.maLong) {
			return fail(contracts.ReasonTrendRule, RuleMAStack)
		}
	}

	if !(st.slope > 0) {
		return fail(contracts.ReasonTrendRule, RuleMASlope)
	}

	// Thresholds are inclusive at the boundary: exactly 1.25x the low or
	// 0.75x the high passes.
	if f.cfg.Variant == VariantStrict {
		if st.price/st.minClose < f.cfg.LowExtension {
			return fail(contracts.ReasonTrendRule, RuleLowExtension)
		}
	}

	if st.price/st.maxClose < f.cfg.HighProximity {
		return fail(contracts.ReasonTrendRule, RuleHighProximity)
	}

	if f.cfg.MaxExtensionAboveMA50 > 0 && st.price > st.maShort*(1+f.cfg.MaxExtensionAboveMA50) {
		return fail(contracts.ReasonTrendRule, RuleOverextended)
	}

	snap := Snapshot{
		Price:          st.price,
		MA50:           st.maShort,
		MA150:          st.maMid,
		MA200:          st.maLong,
		PctFrom52WHigh: 1 - st.price/st.maxClose,
		PctFrom52WLow:  st.price/st.minClose - 1,
	}
	return pass(snap)
}

package strength

import (
	"fmt"
	"math"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// NaNPolicy controls how tickers with an undefined horizon ROC are
// handled. One policy applies consistently to the whole run.
type NaNPolicy string

const (
	// NaNDrop excludes the ticker from the ranked set entirely.
	NaNDrop NaNPolicy = "drop"
	// NaNZero lets undefined horizons contribute zero to the composite.
	NaNZero NaNPolicy = "zero"
)

// Config holds the composite horizons and weights. The reference values
// (63/126/189/252 days at 0.40/0.20/0.20/0.20) front-load the most
// recent quarter; they are a fixed policy constant, not derived.
type Config struct {
	Horizons  [4]int
	Weights   [4]float64
	NaNPolicy NaNPolicy
}

// DefaultConfig returns the reference composite.
func DefaultConfig() Config {
	return Config{
		Horizons:  [4]int{63, 126, 189, 252},
		Weights:   [4]float64{0.40, 0.20, 0.20, 0.20},
		NaNPolicy: NaNDrop,
	}
}

// Validate checks the composite shape.
func (c Config) Validate() error {
	sum := 0.0
	for i, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("strength weight %d must be >= 0", i)
		}
		sum += w
		if c.Horizons[i] <= 0 {
			return fmt.Errorf("strength horizon %d must be > 0", i)
		}
		if i > 0 && c.Horizons[i] <= c.Horizons[i-1] {
			return fmt.Errorf("strength horizons must be strictly ascending")
		}
	}
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("strength weights must sum to 1.0, got %.4f", sum)
	}
	switch c.NaNPolicy {
	case NaNDrop, NaNZero:
	default:
		return fmt.Errorf("unknown nan policy %q", c.NaNPolicy)
	}
	return nil
}

// Scorer computes the multi-horizon relative-strength composite over the
// extended price history of trend survivors.
type Scorer struct {
	cfg    Config
	logger *logger.Logger
}

// NewScorer creates a scorer.
func NewScorer(cfg Config, log *logger.Logger) *Scorer {
	return &Scorer{cfg: cfg, logger: log}
}

// Score computes the composite strength for one extended series. ok is
// false when the ticker is excluded under the drop policy because one or
// more horizon ROCs are undefined. The percentile field is left zero;
// the ranker fills it in cross-sectionally.
func (s *Scorer) Score(series *contracts.PriceSeries) (contracts.RSRecord, bool) {
	closes := series.Closes()

	var rocs [4]float64
	for i, k := range s.cfg.Horizons {
		roc, defined := RateOfChange(closes, k)
		if !defined {
			if s.cfg.NaNPolicy == NaNDrop {
				s.logger.WithFields(map[string]interface{}{
					"ticker":  series.Ticker,
					"horizon": k,
					"length":  len(closes),
				}).Debug("Dropping ticker with undefined horizon ROC")
				return contracts.RSRecord{}, false
			}
			roc = 0
		}
		rocs[i] = roc
	}

	strength := 0.0
	for i, w := range s.cfg.Weights {
		strength += w * rocs[i]
	}

	return contracts.RSRecord{
		Ticker:   series.Ticker,
		ROC3M:    rocs[0],
		ROC6M:    rocs[1],
		ROC9M:    rocs[2],
		ROC12M:   rocs[3],
		Strength: strength,
	}, true
}

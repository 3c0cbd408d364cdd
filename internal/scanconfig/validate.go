package scanconfig

import (
	"fmt"
	"math"
)

// ValidationError is a fatal policy problem, checked once before any
// processing starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required policy constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.PolicyID == "" {
		return ValidationError{"meta.policy_id", "required"}
	}

	// === Fetch ===
	if cfg.Fetch.BatchSize <= 0 {
		return ValidationError{"fetch.batch_size", "must be > 0"}
	}
	if cfg.Fetch.MaxRetries <= 0 {
		return ValidationError{"fetch.max_retries", "must be > 0"}
	}
	if cfg.Fetch.BackoffMin < 0 || cfg.Fetch.BackoffMax < cfg.Fetch.BackoffMin {
		return ValidationError{"fetch.backoff", "must satisfy 0 <= backoff_min <= backoff_max"}
	}
	if cfg.Fetch.TrendLookbackDays <= 0 {
		return ValidationError{"fetch.trend_lookback_days", "must be > 0"}
	}
	if cfg.Fetch.ExtendedLookbackDays < cfg.Fetch.TrendLookbackDays {
		return ValidationError{"fetch.extended_lookback_days", "must be >= trend_lookback_days"}
	}

	// === Trend ===
	switch cfg.Trend.Variant {
	case "relaxed":
		if cfg.Trend.MAMid != 0 {
			return ValidationError{"trend.ma_mid", "not used by the relaxed variant"}
		}
		if cfg.Trend.LowExtension != 0 {
			return ValidationError{"trend.low_extension", "not used by the relaxed variant"}
		}
	case "strict":
		if cfg.Trend.MAMid <= cfg.Trend.MAShort || cfg.Trend.MAMid >= cfg.Trend.MALong {
			return ValidationError{"trend.ma_mid", "must satisfy ma_short < ma_mid < ma_long"}
		}
		if cfg.Trend.LowExtension <= 1 {
			return ValidationError{"trend.low_extension", "must be > 1"}
		}
	default:
		return ValidationError{"trend.variant", "must be 'relaxed' or 'strict'"}
	}
	if cfg.Trend.MAShort <= 0 || cfg.Trend.MALong <= cfg.Trend.MAShort {
		return ValidationError{"trend.ma_long", "must satisfy 0 < ma_short < ma_long"}
	}
	if cfg.Trend.SlopeLag <= 0 {
		return ValidationError{"trend.slope_lag", "must be > 0"}
	}
	if cfg.Trend.HighProximity <= 0 || cfg.Trend.HighProximity > 1 {
		return ValidationError{"trend.high_proximity", "must be in (0, 1]"}
	}
	if cfg.Trend.MaxExtensionAboveMA50 < 0 {
		return ValidationError{"trend.max_extension_above_ma50", "must be >= 0"}
	}

	// === Liquidity ===
	if cfg.Liquidity.MinVolume < 0 {
		return ValidationError{"liquidity.min_volume", "must be >= 0"}
	}
	if cfg.Liquidity.VolumeWindow <= 0 {
		return ValidationError{"liquidity.volume_window", "must be > 0"}
	}

	// === Strength ===
	// Four horizons (~3/6/9/12 trading months); the values are tunable,
	// the shape of the composite is not.
	if len(cfg.Strength.HorizonsDays) != 4 {
		return ValidationError{"strength.horizons_days", "must list exactly 4 horizons"}
	}
	if len(cfg.Strength.Weights) != len(cfg.Strength.HorizonsDays) {
		return ValidationError{"strength.weights", "must pair with horizons_days"}
	}
	sum := 0.0
	for i, w := range cfg.Strength.Weights {
		if w < 0 {
			return ValidationError{"strength.weights", "must be >= 0"}
		}
		sum += w
		if i > 0 && cfg.Strength.HorizonsDays[i] <= cfg.Strength.HorizonsDays[i-1] {
			return ValidationError{"strength.horizons_days", "must be strictly ascending"}
		}
	}
	if math.Abs(sum-1.0) > 0.001 {
		return ValidationError{"strength.weights", fmt.Sprintf("must sum to 1.0, got %.4f", sum)}
	}
	switch cfg.Strength.NaNPolicy {
	case "drop", "zero":
	default:
		return ValidationError{"strength.nan_policy", "must be 'drop' or 'zero'"}
	}

	return nil
}

package scanconfig

import "time"

// Config is the full strategy policy for one screening run. It is loaded
// from YAML with unknown fields rejected, so a typo in a policy file
// fails the run before any data is fetched.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Fetch     Fetch     `yaml:"fetch" json:"fetch"`
	Trend     Trend     `yaml:"trend" json:"trend"`
	Liquidity Liquidity `yaml:"liquidity" json:"liquidity"`
	Strength  Strength  `yaml:"strength" json:"strength"`
}

// Meta identifies the policy.
type Meta struct {
	PolicyID string `yaml:"policy_id" json:"policy_id"`
	Version  string `yaml:"version" json:"version"`
}

// Fetch controls batched data acquisition.
type Fetch struct {
	BatchSize            int      `yaml:"batch_size" json:"batch_size"`
	MaxRetries           int      `yaml:"max_retries" json:"max_retries"` // total attempts per batch
	BackoffMin           Duration `yaml:"backoff_min" json:"backoff_min"`
	BackoffMax           Duration `yaml:"backoff_max" json:"backoff_max"`
	BatchDelay           Duration `yaml:"batch_delay" json:"batch_delay"`
	TrendLookbackDays    int      `yaml:"trend_lookback_days" json:"trend_lookback_days"`
	ExtendedLookbackDays int      `yaml:"extended_lookback_days" json:"extended_lookback_days"`
}

// Trend selects and tunes the trend-template cascade.
// Variant "relaxed" uses the 2-MA stack, "strict" the full 3-MA template.
type Trend struct {
	Variant               string  `yaml:"variant" json:"variant"`
	MAShort               int     `yaml:"ma_short" json:"ma_short"`
	MAMid                 int     `yaml:"ma_mid" json:"ma_mid"` // strict only
	MALong                int     `yaml:"ma_long" json:"ma_long"`
	SlopeLag              int     `yaml:"slope_lag" json:"slope_lag"`
	HighProximity         float64 `yaml:"high_proximity" json:"high_proximity"`
	LowExtension          float64 `yaml:"low_extension" json:"low_extension"` // strict only
	MaxExtensionAboveMA50 float64 `yaml:"max_extension_above_ma50" json:"max_extension_above_ma50"` // 0 disables
}

// Liquidity is the volume gate applied to trend survivors.
type Liquidity struct {
	MinVolume    float64 `yaml:"min_volume" json:"min_volume"`
	VolumeWindow int     `yaml:"volume_window" json:"volume_window"`
}

// Strength configures the relative-strength composite.
// Weights must sum to 1.0 and pair with horizons by index.
type Strength struct {
	HorizonsDays []int     `yaml:"horizons_days" json:"horizons_days"`
	Weights      []float64 `yaml:"weights" json:"weights"`
	NaNPolicy    string    `yaml:"nan_policy" json:"nan_policy"` // drop | zero
}

// Relaxed returns the 2-MA policy matching the reference screen.
func Relaxed() *Config {
	cfg := base()
	cfg.Meta.PolicyID = "trend_template_relaxed"
	cfg.Trend = Trend{
		Variant:       "relaxed",
		MAShort:       50,
		MALong:        200,
		SlopeLag:      50,
		HighProximity: 0.85,
	}
	return cfg
}

// Strict returns the full 3-MA trend-template policy.
func Strict() *Config {
	cfg := base()
	cfg.Meta.PolicyID = "trend_template_strict"
	cfg.Trend = Trend{
		Variant:       "strict",
		MAShort:       50,
		MAMid:         150,
		MALong:        200,
		SlopeLag:      20,
		HighProximity: 0.75,
		LowExtension:  1.25,
	}
	return cfg
}

func base() *Config {
	return &Config{
		Meta: Meta{Version: "1"},
		Fetch: Fetch{
			BatchSize:            20,
			MaxRetries:           3,
			BackoffMin:           Duration(10 * time.Second),
			BackoffMax:           Duration(20 * time.Second),
			BatchDelay:           Duration(2 * time.Second),
			TrendLookbackDays:    365,
			ExtendedLookbackDays: 548, // ~18 months
		},
		Liquidity: Liquidity{
			MinVolume:    300_000,
			VolumeWindow: 50,
		},
		Strength: Strength{
			HorizonsDays: []int{63, 126, 189, 252},
			Weights:      []float64{0.40, 0.20, 0.20, 0.20},
			NaNPolicy:    "drop",
		},
	}
}

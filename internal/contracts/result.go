package contracts

// Metadata holds best-effort classification data for a ticker.
// Absent fields default to "Unknown" and never fail a ticker.
type Metadata struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// UnknownMetadata is the fallback when the metadata collaborator has
// nothing for a ticker.
var UnknownMetadata = Metadata{Sector: "Unknown", Industry: "Unknown"}

// ScreenResult is the snapshot produced for a ticker that passed both
// the trend template and the liquidity gate.
type ScreenResult struct {
	Ticker         string  `json:"ticker"`
	Sector         string  `json:"sector"`
	Industry       string  `json:"industry"`
	Price          float64 `json:"price"`
	MA50           float64 `json:"ma50"`
	MA150          float64 `json:"ma150,omitempty"` // zero under the relaxed policy
	MA200          float64 `json:"ma200"`
	PctFrom52WHigh float64 `json:"pct_from_52w_high"` // 1 - price/max(close), fraction
	PctFrom52WLow  float64 `json:"pct_from_52w_low"`  // price/min(close) - 1, fraction
}

// RSRecord is the relative-strength record for a trend survivor with a
// complete extended history.
type RSRecord struct {
	Ticker     string  `json:"ticker"`
	ROC3M      float64 `json:"roc_3m"`
	ROC6M      float64 `json:"roc_6m"`
	ROC9M      float64 `json:"roc_9m"`
	ROC12M     float64 `json:"roc_12m"`
	Strength   float64 `json:"strength"`
	Percentile int     `json:"percentile"`
}

// FinalRecord is the inner join of ScreenResult and RSRecord on ticker
// identity. A ticker lacking either half never becomes a FinalRecord.
type FinalRecord struct {
	Ticker string       `json:"ticker"`
	Screen ScreenResult `json:"screen"`
	RS     RSRecord     `json:"rs"`
}

// SectorCount is one row of the (sector, industry) aggregate.
type SectorCount struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

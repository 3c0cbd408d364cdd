package screen

import "github.com/wonny/trendscan/internal/contracts"

// LiquidityFilter gates trend survivors on trailing mean volume. It runs
// after the trend cascade so the check is never spent on tickers that
// are already excluded.
type LiquidityFilter struct {
	MinVolume float64 // minimum trailing mean volume
	Window    int     // trailing periods, 50 in the reference screen
}

// NewLiquidityFilter creates a liquidity gate.
func NewLiquidityFilter(minVolume float64, window int) *LiquidityFilter {
	return &LiquidityFilter{MinVolume: minVolume, Window: window}
}

// Check returns the trailing mean volume and whether it clears the gate.
func (l *LiquidityFilter) Check(series *contracts.PriceSeries) (float64, bool) {
	avg := series.AvgVolume(l.Window)
	return avg, avg >= l.MinVolume
}

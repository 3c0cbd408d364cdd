package contracts

import "time"

// Bar is one daily observation reduced to the fields the screen consumes.
type Bar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a chronologically ordered bar series for one ticker.
// It is the single normalized shape every data provider adapter returns,
// regardless of how many symbols were requested in one call.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the closing prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent closing price, 0 when empty.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// MaxClose returns the highest close over the whole series.
func (s *PriceSeries) MaxClose() float64 {
	max := 0.0
	for i, b := range s.Bars {
		if i == 0 || b.Close > max {
			max = b.Close
		}
	}
	return max
}

// MinClose returns the lowest close over the whole series.
func (s *PriceSeries) MinClose() float64 {
	min := 0.0
	for i, b := range s.Bars {
		if i == 0 || b.Close < min {
			min = b.Close
		}
	}
	return min
}

// AvgVolume returns the mean volume over the trailing n bars.
// When the series is shorter than n the whole series is used.
func (s *PriceSeries) AvgVolume(n int) float64 {
	if len(s.Bars) == 0 || n <= 0 {
		return 0
	}
	start := len(s.Bars) - n
	if start < 0 {
		start = 0
	}
	var sum int64
	for _, b := range s.Bars[start:] {
		sum += b.Volume
	}
	return float64(sum) / float64(len(s.Bars)-start)
}

package screen

import "math"

// SMA computes the trailing simple moving average of values over window.
// The result is aligned with the input; positions before the first full
// window are NaN.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Slope returns the finite-difference slope of a rolling series between
// its latest value and the value lag periods earlier:
// (series[now] - series[now-lag]) / lag.
// NaN when either endpoint is undefined.
func Slope(series []float64, lag int) float64 {
	n := len(series)
	if lag <= 0 || n < lag+1 {
		return math.NaN()
	}
	now, then := series[n-1], series[n-1-lag]
	if math.IsNaN(now) || math.IsNaN(then) {
		return math.NaN()
	}
	return (now - then) / float64(lag)
}

package strength

// RateOfChange returns the percentage change between the latest close and
// the close k periods earlier: (latest/past - 1) * 100. ok is false when
// the series has fewer than k+1 observations or the past value is zero.
func RateOfChange(closes []float64, k int) (float64, bool) {
	n := len(closes)
	if k <= 0 || n < k+1 {
		return 0, false
	}
	past := closes[n-1-k]
	if past == 0 {
		return 0, false
	}
	return (closes[n-1]/past - 1) * 100, true
}

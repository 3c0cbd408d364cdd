package strength

import (
	"math"
	"sort"

	"github.com/wonny/trendscan/internal/contracts"
)

// PercentileRanker converts composite strengths to cross-sectional
// average-rank percentiles in roughly [1, 100]. Tied scores share the
// mean percentile of their tied block; the highest strength maps to 100.
type PercentileRanker struct{}

// Rank returns a copy of records with percentiles assigned. Input order
// is preserved. A singleton input ranks 100 by convention; empty input
// yields empty output.
func (PercentileRanker) Rank(records []contracts.RSRecord) []contracts.RSRecord {
	n := len(records)
	out := make([]contracts.RSRecord, n)
	copy(out, records)
	if n == 0 {
		return out
	}

	// Ascending rank positions by strength.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].Strength < out[order[b]].Strength
	})

	// Walk tied blocks; each member gets the block's mean 1-based rank.
	for lo := 0; lo < n; {
		hi := lo + 1
		for hi < n && out[order[hi]].Strength == out[order[lo]].Strength {
			hi++
		}
		avgRank := float64(lo+hi+1) / 2 // mean of ranks lo+1 .. hi
		pct := int(math.Round(100 * avgRank / float64(n)))
		if pct < 1 {
			pct = 1
		}
		for i := lo; i < hi; i++ {
			out[order[i]].Percentile = pct
		}
		lo = hi
	}

	return out
}

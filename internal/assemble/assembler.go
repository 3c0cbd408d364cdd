package assemble

import (
	"sort"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// Assembler inner-joins screen snapshots with relative-strength records
// and builds the sector aggregate.
type Assembler struct {
	logger *logger.Logger
}

// New creates an assembler.
func New(log *logger.Logger) *Assembler {
	return &Assembler{logger: log}
}

// Assemble joins by ticker identity. Screen survivors without a strength
// record are dropped from the final table and come back as join-miss
// diagnostics, distinct from trend or liquidity failures. The final
// table is sorted by descending percentile; ties break on strength then
// ticker so output is deterministic.
func (a *Assembler) Assemble(screens []contracts.ScreenResult, rs []contracts.RSRecord) ([]contracts.FinalRecord, []contracts.Failure) {
	byTicker := make(map[string]contracts.RSRecord, len(rs))
	for _, r := range rs {
		byTicker[r.Ticker] = r
	}

	finals := make([]contracts.FinalRecord, 0, len(screens))
	var misses []contracts.Failure

	for _, sc := range screens {
		r, ok := byTicker[sc.Ticker]
		if !ok {
			misses = append(misses, contracts.Failure{
				Ticker: sc.Ticker,
				Reason: contracts.ReasonJoinMiss,
			})
			continue
		}
		finals = append(finals, contracts.FinalRecord{
			Ticker: sc.Ticker,
			Screen: sc,
			RS:     r,
		})
	}

	sort.SliceStable(finals, func(i, j int) bool {
		if finals[i].RS.Percentile != finals[j].RS.Percentile {
			return finals[i].RS.Percentile > finals[j].RS.Percentile
		}
		if finals[i].RS.Strength != finals[j].RS.Strength {
			return finals[i].RS.Strength > finals[j].RS.Strength
		}
		return finals[i].Ticker < finals[j].Ticker
	})

	a.logger.WithFields(map[string]interface{}{
		"screened":  len(screens),
		"finalists": len(finals),
		"join_miss": len(misses),
	}).Info("Result assembly completed")

	return finals, misses
}

// SectorBreakdown counts finalists grouped by (sector, industry).
// Missing metadata lands in explicit "Unknown" buckets rather than being
// dropped. Sorted by descending count, then sector and industry.
func (a *Assembler) SectorBreakdown(finals []contracts.FinalRecord) []contracts.SectorCount {
	type key struct{ sector, industry string }
	counts := make(map[key]int)

	for _, rec := range finals {
		k := key{sector: rec.Screen.Sector, industry: rec.Screen.Industry}
		if k.sector == "" {
			k.sector = "Unknown"
		}
		if k.industry == "" {
			k.industry = "Unknown"
		}
		counts[k]++
	}

	out := make([]contracts.SectorCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, contracts.SectorCount{Sector: k.sector, Industry: k.industry, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Sector != out[j].Sector {
			return out[i].Sector < out[j].Sector
		}
		return out[i].Industry < out[j].Industry
	})

	return out
}

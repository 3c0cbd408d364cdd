package contracts

import "time"

// ScanReport is the terminal output of one screening run: the ranked
// final table plus a fully classified diagnostic set. Finalists and
// Failures partition the input universe; no ticker appears in both and
// no ticker vanishes unclassified.
type ScanReport struct {
	Date       time.Time     `json:"date"`
	Policy     string        `json:"policy"`
	PolicyHash string        `json:"policy_hash,omitempty"`
	TotalInput int           `json:"total_input"`
	Finalists  []FinalRecord `json:"finalists"` // sorted by descending percentile
	Sectors    []SectorCount `json:"sectors"`   // sorted by descending count
	Failures   []Failure     `json:"failures"`
	Duration   time.Duration `json:"duration"`
}

// FailureCount returns how many failures carry the given reason.
func (r *ScanReport) FailureCount(reason FailureReason) int {
	n := 0
	for _, f := range r.Failures {
		if f.Reason == reason {
			n++
		}
	}
	return n
}

// Classified reports whether ticker landed in exactly one terminal
// bucket, and which one.
func (r *ScanReport) Classified(ticker string) (bucket string, ok bool) {
	hits := 0
	for _, rec := range r.Finalists {
		if rec.Ticker == ticker {
			bucket = "final"
			hits++
		}
	}
	for _, f := range r.Failures {
		if f.Ticker == ticker {
			bucket = string(f.Reason)
			hits++
		}
	}
	return bucket, hits == 1
}

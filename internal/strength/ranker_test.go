package strength

import (
	"fmt"
	"testing"

	"github.com/wonny/trendscan/internal/contracts"
)

func rsRecords(strengths ...float64) []contracts.RSRecord {
	out := make([]contracts.RSRecord, len(strengths))
	for i, s := range strengths {
		out[i] = contracts.RSRecord{Ticker: fmt.Sprintf("T%02d", i), Strength: s}
	}
	return out
}

func TestRank_ThreeDistinct(t *testing.T) {
	var ranker PercentileRanker
	out := ranker.Rank(rsRecords(10, 20, 30))

	want := []int{33, 67, 100}
	for i, w := range want {
		if out[i].Percentile != w {
			t.Errorf("record %d: expected percentile %d, got %d", i, w, out[i].Percentile)
		}
	}
}

func TestRank_TiesShareBlockMean(t *testing.T) {
	var ranker PercentileRanker
	out := ranker.Rank(rsRecords(10, 10, 20, 30))

	// Tied block occupies ranks 1 and 2: mean rank 1.5 over n=4.
	want := []int{38, 38, 75, 100}
	for i, w := range want {
		if out[i].Percentile != w {
			t.Errorf("record %d: expected percentile %d, got %d", i, w, out[i].Percentile)
		}
	}
}

func TestRank_PreservesInputOrder(t *testing.T) {
	var ranker PercentileRanker
	in := rsRecords(30, 10, 20)
	out := ranker.Rank(in)

	for i := range in {
		if out[i].Ticker != in[i].Ticker {
			t.Fatalf("record %d: expected ticker %s, got %s", i, in[i].Ticker, out[i].Ticker)
		}
	}
	if out[0].Percentile != 100 || out[1].Percentile != 33 || out[2].Percentile != 67 {
		t.Errorf("unexpected percentiles: %d %d %d",
			out[0].Percentile, out[1].Percentile, out[2].Percentile)
	}

	// The input slice is untouched.
	if in[0].Percentile != 0 {
		t.Error("input must not be mutated")
	}
}

func TestRank_Singleton(t *testing.T) {
	var ranker PercentileRanker
	out := ranker.Rank(rsRecords(42))
	if len(out) != 1 || out[0].Percentile != 100 {
		t.Fatalf("singleton must rank 100, got %+v", out)
	}
}

func TestRank_Empty(t *testing.T) {
	var ranker PercentileRanker
	if out := ranker.Rank(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d records", len(out))
	}
}

func TestRank_LowerBoundClamp(t *testing.T) {
	var ranker PercentileRanker

	// With 300 records the weakest raw percentile rounds to zero and is
	// clamped to 1.
	strengths := make([]float64, 300)
	for i := range strengths {
		strengths[i] = float64(i)
	}
	out := ranker.Rank(rsRecords(strengths...))

	if out[0].Percentile != 1 {
		t.Errorf("weakest record: expected percentile 1, got %d", out[0].Percentile)
	}
	if out[299].Percentile != 100 {
		t.Errorf("strongest record: expected percentile 100, got %d", out[299].Percentile)
	}
}

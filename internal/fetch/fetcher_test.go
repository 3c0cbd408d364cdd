package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// fakeProvider scripts per-call outcomes. failures is the number of
// calls that error before calls start succeeding.
type fakeProvider struct {
	failures int
	calls    int
	batches  [][]string
	missing  map[string]bool // tickers omitted from successful responses
}

func (p *fakeProvider) FetchDaily(ctx context.Context, tickers []string, lookbackDays int) (map[string]contracts.PriceSeries, error) {
	p.calls++
	p.batches = append(p.batches, append([]string(nil), tickers...))

	if p.calls <= p.failures {
		return nil, errors.New("upstream unavailable")
	}

	out := make(map[string]contracts.PriceSeries, len(tickers))
	for _, ticker := range tickers {
		if p.missing[ticker] {
			continue
		}
		out[ticker] = contracts.PriceSeries{
			Bars: []contracts.Bar{{Date: time.Now(), Close: 100, Volume: 1_000_000}},
		}
	}
	return out, nil
}

// newTestFetcher stubs out real sleeping and records requested delays.
func newTestFetcher(p Provider, cfg Config) (*BatchFetcher, *[]time.Duration) {
	f := New(p, cfg, logger.Discard())
	var slept []time.Duration
	f.sleep = func(d time.Duration) { slept = append(slept, d) }
	f.backoff = func() time.Duration { return cfg.BackoffMin }
	return f, &slept
}

func TestFetchAll_RetriesThenSucceeds(t *testing.T) {
	provider := &fakeProvider{failures: 2}
	cfg := DefaultConfig()
	f, slept := newTestFetcher(provider, cfg)

	result := f.FetchAll(context.Background(), []string{"AAPL", "MSFT"}, 365)

	if provider.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", provider.calls)
	}
	if len(result.Series) != 2 {
		t.Errorf("expected 2 series, got %d", len(result.Series))
	}
	if len(result.Failures) != 0 {
		t.Errorf("expected no failures, got %+v", result.Failures)
	}
	// Two backoff sleeps, no trailing batch delay for a single batch.
	if len(*slept) != 2 {
		t.Errorf("expected 2 backoff sleeps, got %d", len(*slept))
	}
}

func TestFetchAll_ExhaustedRetriesFailBatch(t *testing.T) {
	provider := &fakeProvider{failures: 100}
	cfg := DefaultConfig()
	f, _ := newTestFetcher(provider, cfg)

	result := f.FetchAll(context.Background(), []string{"AAPL", "MSFT", "NVDA"}, 365)

	if provider.calls != cfg.MaxRetries {
		t.Errorf("expected %d attempts, got %d", cfg.MaxRetries, provider.calls)
	}
	if len(result.Series) != 0 {
		t.Errorf("expected no series, got %d", len(result.Series))
	}
	if len(result.Failures) != 3 {
		t.Fatalf("expected every batch ticker to fail, got %d", len(result.Failures))
	}
	for _, fail := range result.Failures {
		if fail.Reason != contracts.ReasonDownloadFailure {
			t.Errorf("%s: expected download_failure, got %s", fail.Ticker, fail.Reason)
		}
	}
}

func TestFetchAll_MissingTickerFailsAlone(t *testing.T) {
	provider := &fakeProvider{missing: map[string]bool{"GONE": true}}
	f, _ := newTestFetcher(provider, DefaultConfig())

	result := f.FetchAll(context.Background(), []string{"AAPL", "GONE", "MSFT"}, 365)

	if len(result.Series) != 2 {
		t.Errorf("expected 2 series, got %d", len(result.Series))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if f := result.Failures[0]; f.Ticker != "GONE" || f.Reason != contracts.ReasonDownloadFailure {
		t.Errorf("unexpected failure: %+v", f)
	}
}

func TestFetchAll_PartitionsInOrder(t *testing.T) {
	provider := &fakeProvider{}
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	f, slept := newTestFetcher(provider, cfg)

	tickers := []string{"A", "B", "C", "D", "E"}
	result := f.FetchAll(context.Background(), tickers, 365)

	wantBatches := [][]string{{"A", "B"}, {"C", "D"}, {"E"}}
	if len(provider.batches) != len(wantBatches) {
		t.Fatalf("expected %d batches, got %d", len(wantBatches), len(provider.batches))
	}
	for i, want := range wantBatches {
		got := provider.batches[i]
		if len(got) != len(want) {
			t.Fatalf("batch %d: expected %v, got %v", i, want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("batch %d: expected %v, got %v", i, want, got)
			}
		}
	}

	if len(result.Series) != len(tickers) {
		t.Errorf("expected all tickers fetched, got %d", len(result.Series))
	}
	// Inter-batch throttle fires between batches, not after the last.
	if len(*slept) != 2 {
		t.Errorf("expected 2 batch delays, got %d", len(*slept))
	}
	for _, d := range *slept {
		if d != cfg.BatchDelay {
			t.Errorf("expected batch delay %s, got %s", cfg.BatchDelay, d)
		}
	}
}

func TestFetchAll_SetsTickerOnSeries(t *testing.T) {
	provider := &fakeProvider{}
	f, _ := newTestFetcher(provider, DefaultConfig())

	result := f.FetchAll(context.Background(), []string{"AAPL"}, 365)
	if s, ok := result.Series["AAPL"]; !ok || s.Ticker != "AAPL" {
		t.Errorf("expected normalized series keyed and tagged by ticker, got %+v", s)
	}
}

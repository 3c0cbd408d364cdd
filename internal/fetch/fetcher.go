package fetch

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// Provider supplies daily bars for a batch of tickers over a trailing
// lookback window. Implementations return one normalized series per
// ticker they have data for; a returned error fails the whole batch.
// Any parallelism inside a call is the provider's own business.
type Provider interface {
	FetchDaily(ctx context.Context, tickers []string, lookbackDays int) (map[string]contracts.PriceSeries, error)
}

// Config holds batching, retry and throttle parameters. The delays are
// deliberate backpressure against provider rate limits, not a
// correctness mechanism.
type Config struct {
	BatchSize  int
	MaxRetries int // total attempts per batch
	BackoffMin time.Duration
	BackoffMax time.Duration
	BatchDelay time.Duration
}

// DefaultConfig returns the reference fetch parameters.
func DefaultConfig() Config {
	return Config{
		BatchSize:  20,
		MaxRetries: 3,
		BackoffMin: 10 * time.Second,
		BackoffMax: 20 * time.Second,
		BatchDelay: 2 * time.Second,
	}
}

// Result maps successful tickers to their normalized series and tags
// every unsuccessful ticker with a failure.
type Result struct {
	Series   map[string]contracts.PriceSeries
	Failures []contracts.Failure
}

// BatchFetcher partitions tickers into fixed-size batches and fetches
// each batch with retries. A batch exhausting its retry budget fails
// atomically; the run continues with the next batch.
type BatchFetcher struct {
	provider Provider
	cfg      Config
	logger   *logger.Logger

	// Injectable for tests.
	sleep   func(time.Duration)
	backoff func() time.Duration
}

// New creates a batch fetcher with randomized inter-attempt backoff.
func New(provider Provider, cfg Config, log *logger.Logger) *BatchFetcher {
	f := &BatchFetcher{
		provider: provider,
		cfg:      cfg,
		logger:   log,
		sleep:    time.Sleep,
	}
	f.backoff = func() time.Duration {
		if cfg.BackoffMax <= cfg.BackoffMin {
			return cfg.BackoffMin
		}
		return cfg.BackoffMin + rand.N(cfg.BackoffMax-cfg.BackoffMin)
	}
	return f
}

// FetchAll fetches every ticker, batch by batch, in input order.
func (f *BatchFetcher) FetchAll(ctx context.Context, tickers []string, lookbackDays int) *Result {
	result := &Result{
		Series: make(map[string]contracts.PriceSeries, len(tickers)),
	}

	batches := partition(tickers, f.cfg.BatchSize)
	for i, batch := range batches {
		f.fetchBatch(ctx, batch, lookbackDays, result)

		// Mandatory self-throttle between batches.
		if i < len(batches)-1 {
			f.sleep(f.cfg.BatchDelay)
		}
	}

	f.logger.WithFields(map[string]interface{}{
		"tickers":  len(tickers),
		"batches":  len(batches),
		"fetched":  len(result.Series),
		"failures": len(result.Failures),
	}).Info("Batch fetch completed")

	return result
}

// fetchBatch attempts one batch up to MaxRetries times. On success,
// per-ticker gaps (missing key, empty series) fail only that ticker.
func (f *BatchFetcher) fetchBatch(ctx context.Context, batch []string, lookbackDays int, result *Result) {
	var lastErr error

	for attempt := 1; attempt <= f.cfg.MaxRetries; attempt++ {
		series, err := f.provider.FetchDaily(ctx, batch, lookbackDays)
		if err == nil {
			f.collect(batch, series, result)
			return
		}
		lastErr = err

		if attempt < f.cfg.MaxRetries {
			delay := f.backoff()
			f.logger.WithFields(map[string]interface{}{
				"batch_head": batch[0],
				"attempt":    attempt,
				"delay":      delay,
				"error":      err.Error(),
			}).Warn("Batch fetch failed, retrying")
			f.sleep(delay)
		}
	}

	// Retry budget exhausted: the whole batch fails, the run continues.
	f.logger.WithFields(map[string]interface{}{
		"batch_head": batch[0],
		"size":       len(batch),
		"error":      lastErr.Error(),
	}).Error("Batch fetch exhausted retries")

	for _, ticker := range batch {
		result.Failures = append(result.Failures, contracts.Failure{
			Ticker: ticker,
			Reason: contracts.ReasonDownloadFailure,
		})
	}
}

// collect normalizes a successful batch response into the result set.
func (f *BatchFetcher) collect(batch []string, series map[string]contracts.PriceSeries, result *Result) {
	for _, ticker := range batch {
		s, ok := series[ticker]
		if !ok || len(s.Bars) == 0 {
			result.Failures = append(result.Failures, contracts.Failure{
				Ticker: ticker,
				Reason: contracts.ReasonDownloadFailure,
			})
			continue
		}
		s.Ticker = ticker
		result.Series[ticker] = s
	}
}

// partition splits tickers into fixed-size, order-preserving batches.
func partition(tickers []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var batches [][]string
	for start := 0; start < len(tickers); start += size {
		end := start + size
		if end > len(tickers) {
			end = len(tickers)
		}
		batches = append(batches, tickers[start:end])
	}
	return batches
}

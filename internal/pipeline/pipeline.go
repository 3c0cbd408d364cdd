package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/trendscan/internal/assemble"
	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/fetch"
	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/internal/screen"
	"github.com/wonny/trendscan/internal/strength"
	"github.com/wonny/trendscan/pkg/logger"
)

// MetadataProvider resolves best-effort sector/industry metadata.
// A nil provider or any lookup error defaults to "Unknown".
type MetadataProvider interface {
	Lookup(ctx context.Context, ticker string) (contracts.Metadata, error)
}

// Config holds run-level pipeline parameters.
type Config struct {
	PolicyName string
	PolicyHash string

	// The trend evaluation runs on a ~1-year pull; the strength
	// composite on an independent, larger pull.
	TrendLookbackDays    int
	ExtendedLookbackDays int
}

// Pipeline coordinates the screening stages: fetch, trend, liquidity,
// metadata, strength, rank, assemble, publish. Data flows strictly
// forward; no stage reads another's internal state.
type Pipeline struct {
	cfg       Config
	fetcher   *fetch.BatchFetcher
	trend     *screen.Filter
	liquidity *screen.LiquidityFilter
	scorer    *strength.Scorer
	ranker    strength.PercentileRanker
	assembler *assemble.Assembler
	metadata  MetadataProvider // optional
	sink      report.Sink
	logger    *logger.Logger

	now func() time.Time
}

// New creates a pipeline. The sink is a mandatory downstream step, so a
// missing one is a run-level precondition failure, checked here once
// rather than per ticker.
func New(
	cfg Config,
	fetcher *fetch.BatchFetcher,
	trend *screen.Filter,
	liquidity *screen.LiquidityFilter,
	scorer *strength.Scorer,
	assembler *assemble.Assembler,
	metadata MetadataProvider,
	sink report.Sink,
	log *logger.Logger,
) (*Pipeline, error) {
	if sink == nil {
		return nil, fmt.Errorf("pipeline requires a report sink")
	}
	if cfg.TrendLookbackDays <= 0 || cfg.ExtendedLookbackDays < cfg.TrendLookbackDays {
		return nil, fmt.Errorf("invalid lookback configuration: trend=%d extended=%d",
			cfg.TrendLookbackDays, cfg.ExtendedLookbackDays)
	}

	return &Pipeline{
		cfg:       cfg,
		fetcher:   fetcher,
		trend:     trend,
		liquidity: liquidity,
		scorer:    scorer,
		assembler: assembler,
		metadata:  metadata,
		sink:      sink,
		logger:    log,
		now:       time.Now,
	}, nil
}

// Run executes one full scan over the ticker universe. Every input
// ticker lands in exactly one terminal bucket: the final table or a
// classified failure. Per-ticker faults never abort the run.
func (p *Pipeline) Run(ctx context.Context, tickers []string) (*contracts.ScanReport, error) {
	startTime := p.now()

	rep := &contracts.ScanReport{
		Date:       startTime.Truncate(24 * time.Hour),
		Policy:     p.cfg.PolicyName,
		PolicyHash: p.cfg.PolicyHash,
		TotalInput: len(tickers),
	}

	p.logger.WithFields(map[string]interface{}{
		"policy":  p.cfg.PolicyName,
		"tickers": len(tickers),
	}).Info("Starting scan")

	// Stage 1: normalize the ticker universe.
	valid, invalid := NormalizeTickers(tickers)
	rep.Failures = append(rep.Failures, invalid...)

	// Stage 2: trend-window acquisition.
	trendData := p.fetcher.FetchAll(ctx, valid, p.cfg.TrendLookbackDays)
	rep.Failures = append(rep.Failures, trendData.Failures...)

	// Stage 3: trend cascade + liquidity gate, per ticker, in input
	// order. Evaluation is independent and side-effect-free per ticker.
	var survivors []string
	var screens []contracts.ScreenResult
	for _, ticker := range valid {
		series, ok := trendData.Series[ticker]
		if !ok {
			continue // already recorded as a download failure
		}

		verdict := p.trend.Evaluate(&series)
		if !verdict.Passed() {
			rep.Failures = append(rep.Failures, verdict.Failure(ticker))
			continue
		}

		if avg, ok := p.liquidity.Check(&series); !ok {
			p.logger.WithFields(map[string]interface{}{
				"ticker":     ticker,
				"avg_volume": avg,
			}).Debug("Liquidity gate failed")
			rep.Failures = append(rep.Failures, contracts.Failure{
				Ticker: ticker,
				Reason: contracts.ReasonLiquidity,
			})
			continue
		}

		survivors = append(survivors, ticker)
		screens = append(screens, p.screenResult(ctx, ticker, verdict.Snapshot()))
	}

	p.logger.WithFields(map[string]interface{}{
		"evaluated": len(valid),
		"survivors": len(survivors),
	}).Info("Trend screen completed")

	// Stage 4: independent extended pull for survivors only. A survivor
	// the extended fetch cannot serve surfaces as a join miss later,
	// never as a second download failure.
	var ranked []contracts.RSRecord
	if len(survivors) > 0 {
		extData := p.fetcher.FetchAll(ctx, survivors, p.cfg.ExtendedLookbackDays)

		var records []contracts.RSRecord
		for _, ticker := range survivors {
			series, ok := extData.Series[ticker]
			if !ok {
				continue
			}
			if record, ok := p.scorer.Score(&series); ok {
				records = append(records, record)
			}
		}

		// Stage 5: cross-sectional percentile rank.
		ranked = p.ranker.Rank(records)
	}

	// Stage 6: join and aggregate.
	finals, misses := p.assembler.Assemble(screens, ranked)
	rep.Finalists = finals
	rep.Failures = append(rep.Failures, misses...)
	rep.Sectors = p.assembler.SectorBreakdown(finals)
	rep.Duration = p.now().Sub(startTime)

	// Stage 7: publish.
	if err := p.sink.Publish(ctx, rep); err != nil {
		return rep, fmt.Errorf("publish report: %w", err)
	}

	return rep, nil
}

// screenResult attaches best-effort metadata to a trend snapshot.
func (p *Pipeline) screenResult(ctx context.Context, ticker string, snap screen.Snapshot) contracts.ScreenResult {
	meta := contracts.UnknownMetadata
	if p.metadata != nil {
		if m, err := p.metadata.Lookup(ctx, ticker); err == nil {
			if m.Sector != "" {
				meta.Sector = m.Sector
			}
			if m.Industry != "" {
				meta.Industry = m.Industry
			}
		} else {
			p.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Debug("Metadata unavailable")
		}
	}

	return contracts.ScreenResult{
		Ticker:         ticker,
		Sector:         meta.Sector,
		Industry:       meta.Industry,
		Price:          snap.Price,
		MA50:           snap.MA50,
		MA150:          snap.MA150,
		MA200:          snap.MA200,
		PctFrom52WHigh: snap.PctFrom52WHigh,
		PctFrom52WLow:  snap.PctFrom52WLow,
	}
}

// NormalizeTickers trims and uppercases symbols, preserving order and
// dropping duplicates. Blank entries come back as invalid-ticker
// failures rather than vanishing.
func NormalizeTickers(tickers []string) ([]string, []contracts.Failure) {
	seen := make(map[string]bool, len(tickers))
	valid := make([]string, 0, len(tickers))
	var invalid []contracts.Failure

	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			invalid = append(invalid, contracts.Failure{
				Ticker: raw,
				Reason: contracts.ReasonInvalidTicker,
			})
			continue
		}
		if seen[ticker] {
			continue
		}
		seen[ticker] = true
		valid = append(valid, ticker)
	}

	return valid, invalid
}

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/wonny/trendscan/internal/assemble"
	"github.com/wonny/trendscan/internal/external/yahoo"
	"github.com/wonny/trendscan/internal/fetch"
	"github.com/wonny/trendscan/internal/pipeline"
	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/internal/scanconfig"
	"github.com/wonny/trendscan/internal/screen"
	"github.com/wonny/trendscan/internal/strength"
	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/database"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
	"github.com/wonny/trendscan/pkg/redis"
)

// stack bundles the wired application for one command invocation.
type stack struct {
	cfg      *config.Config
	policy   *scanconfig.Config
	logger   *logger.Logger
	pipeline *pipeline.Pipeline
	db       *database.DB // nil when the database is disabled
	redis    *redis.Client
}

// close releases held connections.
func (s *stack) close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

// buildStack wires the full pipeline from env config and the policy
// file. dryRun forces the log sink even when a database is configured.
func buildStack(dryRun bool) (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	path := policyFile
	if path == "" {
		path = cfg.Scan.PolicyFile
	}
	policy, err := scanconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load policy %s: %w", path, err)
	}
	policyHash, err := scanconfig.Hash(policy)
	if err != nil {
		return nil, fmt.Errorf("hash policy: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	httpClient := httputil.New(log).
		WithRateLimiter(redis.NewRateLimiter(redisClient, "trendscan"), redis.YahooRateLimit)

	yahooClient := yahoo.NewClient(httpClient, log, cfg.Yahoo).
		WithCache(redis.NewCache(redisClient, "trendscan"))

	fetcher := fetch.New(yahooClient, fetch.Config{
		BatchSize:  policy.Fetch.BatchSize,
		MaxRetries: policy.Fetch.MaxRetries,
		BackoffMin: policy.Fetch.BackoffMin.Std(),
		BackoffMax: policy.Fetch.BackoffMax.Std(),
		BatchDelay: policy.Fetch.BatchDelay.Std(),
	}, log)

	trendFilter := screen.NewFilter(screen.Config{
		Variant:               screen.Variant(policy.Trend.Variant),
		MAShort:               policy.Trend.MAShort,
		MAMid:                 policy.Trend.MAMid,
		MALong:                policy.Trend.MALong,
		SlopeLag:              policy.Trend.SlopeLag,
		HighProximity:         policy.Trend.HighProximity,
		LowExtension:          policy.Trend.LowExtension,
		MaxExtensionAboveMA50: policy.Trend.MaxExtensionAboveMA50,
	})

	liquidityFilter := screen.NewLiquidityFilter(policy.Liquidity.MinVolume, policy.Liquidity.VolumeWindow)

	strengthCfg := strength.Config{NaNPolicy: strength.NaNPolicy(policy.Strength.NaNPolicy)}
	copy(strengthCfg.Horizons[:], policy.Strength.HorizonsDays)
	copy(strengthCfg.Weights[:], policy.Strength.Weights)
	if err := strengthCfg.Validate(); err != nil {
		return nil, fmt.Errorf("strength config: %w", err)
	}
	scorer := strength.NewScorer(strengthCfg, log)

	var db *database.DB
	var sink report.Sink
	if cfg.Database.Enabled && !dryRun {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		sink = report.NewRepository(db.Pool)
	} else {
		sink = report.NewLogSink(log)
	}

	p, err := pipeline.New(
		pipeline.Config{
			PolicyName:           policy.Meta.PolicyID,
			PolicyHash:           policyHash,
			TrendLookbackDays:    policy.Fetch.TrendLookbackDays,
			ExtendedLookbackDays: policy.Fetch.ExtendedLookbackDays,
		},
		fetcher,
		trendFilter,
		liquidityFilter,
		scorer,
		assemble.New(log),
		yahooClient,
		sink,
		log,
	)
	if err != nil {
		return nil, err
	}

	return &stack{
		cfg:      cfg,
		policy:   policy,
		logger:   log,
		pipeline: p,
		db:       db,
		redis:    redisClient,
	}, nil
}

// readTickersFile loads one symbol per line, ignoring blanks and '#'
// comments. The pipeline does its own normalization and classification.
func readTickersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	return tickers, scanner.Err()
}

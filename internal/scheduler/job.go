package scheduler

import (
	"context"
	"fmt"

	"github.com/wonny/trendscan/internal/pipeline"
)

// ScanJob runs the screening pipeline on a cron schedule. Each firing is
// a complete, independent run over the ticker universe; there is no
// incremental state between firings.
type ScanJob struct {
	pipeline *pipeline.Pipeline
	tickers  func() ([]string, error) // re-read each firing
	schedule string
}

// NewScanJob creates a scheduled scan.
func NewScanJob(p *pipeline.Pipeline, tickers func() ([]string, error), schedule string) *ScanJob {
	return &ScanJob{pipeline: p, tickers: tickers, schedule: schedule}
}

// Name implements Job.
func (j *ScanJob) Name() string { return "trend_scan" }

// Schedule implements Job.
func (j *ScanJob) Schedule() string { return j.schedule }

// Run implements Job.
func (j *ScanJob) Run(ctx context.Context) error {
	tickers, err := j.tickers()
	if err != nil {
		return fmt.Errorf("load tickers: %w", err)
	}

	_, err = j.pipeline.Run(ctx, tickers)
	return err
}

package report

import (
	"context"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// LogSink writes the report summary to the structured log. Default sink
// for dry runs and when no database is configured.
type LogSink struct {
	logger *logger.Logger

	// TopN bounds how many finalists are logged individually.
	TopN int
}

// NewLogSink creates a log sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log, TopN: 20}
}

// Publish implements Sink.
func (s *LogSink) Publish(ctx context.Context, report *contracts.ScanReport) error {
	s.logger.WithFields(map[string]interface{}{
		"date":        report.Date.Format("2006-01-02"),
		"policy":      report.Policy,
		"total_input": report.TotalInput,
		"finalists":   len(report.Finalists),
		"failures":    len(report.Failures),
		"join_miss":   report.FailureCount(contracts.ReasonJoinMiss),
		"duration":    report.Duration,
	}).Info("Scan completed")

	for i, rec := range report.Finalists {
		if i >= s.TopN {
			break
		}
		s.logger.WithFields(map[string]interface{}{
			"rank":       i + 1,
			"ticker":     rec.Ticker,
			"percentile": rec.RS.Percentile,
			"strength":   rec.RS.Strength,
			"price":      rec.Screen.Price,
			"sector":     rec.Screen.Sector,
		}).Info("Finalist")
	}

	for _, sc := range report.Sectors {
		s.logger.WithFields(map[string]interface{}{
			"sector":   sc.Sector,
			"industry": sc.Industry,
			"count":    sc.Count,
		}).Debug("Sector bucket")
	}

	return nil
}

package report

import (
	"context"

	"github.com/wonny/trendscan/internal/contracts"
)

// Sink receives the terminal output of a scan run. The pipeline performs
// no transport formatting itself; persistence and notification live
// behind this interface.
type Sink interface {
	Publish(ctx context.Context, report *contracts.ScanReport) error
}

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/internal/contracts"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full screening pass over a ticker universe",
	Long: `Runs the complete pipeline once: batched data acquisition, trend
template, liquidity gate, relative-strength composite, percentile rank
and result assembly.

Example:
  go run ./cmd/trendscan scan --tickers AAPL,MSFT,NVDA
  go run ./cmd/trendscan scan --tickers-file universe.txt --policy config/strategy/strict.yaml --dry-run`,
	RunE: runScan,
}

var (
	scanTickers     string
	scanTickersFile string
	scanDryRun      bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanTickers, "tickers", "", "comma-separated ticker symbols")
	scanCmd.Flags().StringVar(&scanTickersFile, "tickers-file", "", "file with one ticker per line")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "log results instead of persisting them")
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := buildStack(scanDryRun)
	if err != nil {
		return err
	}
	defer s.close()

	tickers, err := loadTickers(s.cfg.Scan.TickersFile)
	if err != nil {
		return err
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers: pass --tickers, --tickers-file or set SCAN_TICKERS_FILE")
	}

	rep, err := s.pipeline.Run(context.Background(), tickers)
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"finalists":         len(rep.Finalists),
		"download_failures": rep.FailureCount(contracts.ReasonDownloadFailure),
		"join_misses":       rep.FailureCount(contracts.ReasonJoinMiss),
	}).Info("Scan finished")
	return nil
}

// loadTickers resolves the ticker universe from flags or env config.
func loadTickers(defaultFile string) ([]string, error) {
	if scanTickers != "" {
		return strings.Split(scanTickers, ","), nil
	}
	path := scanTickersFile
	if path == "" {
		path = defaultFile
	}
	if path == "" {
		return nil, nil
	}
	return readTickersFile(path)
}

package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	policyFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trendscan",
	Short: "trendscan - trend-template equity screener",
	Long: `trendscan screens a ticker universe against a moving-average trend
template, scores survivors on multi-horizon momentum and ranks them
cross-sectionally.

Usage:
  go run ./cmd/trendscan [command]

Examples:
  go run ./cmd/trendscan scan --tickers AAPL,MSFT,NVDA
  go run ./cmd/trendscan scan --tickers-file universe.txt --policy config/strategy/strict.yaml
  go run ./cmd/trendscan policy show --policy config/strategy/relaxed.yaml
  go run ./cmd/trendscan api
  go run ./cmd/trendscan scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "strategy policy YAML (default from SCAN_POLICY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

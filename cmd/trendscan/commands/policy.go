package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/internal/scanconfig"
	"github.com/wonny/trendscan/pkg/config"
)

// policyCmd represents the policy command
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate strategy policy files",
	Long: `Loads a strategy policy YAML, runs the full validation pass and
prints the resolved parameters with the policy hash.

Example:
  go run ./cmd/trendscan policy show --policy config/strategy/relaxed.yaml
  go run ./cmd/trendscan policy validate --policy config/strategy/strict.yaml`,
}

var (
	policyShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the resolved policy and its hash",
		RunE:  runPolicyShow,
	}

	policyValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate a policy file",
		RunE:  runPolicyValidate,
	}
)

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyValidateCmd)
}

func resolvePolicyPath() (string, error) {
	if policyFile != "" {
		return policyFile, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Scan.PolicyFile, nil
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	path, err := resolvePolicyPath()
	if err != nil {
		return err
	}

	policy, err := scanconfig.Load(path)
	if err != nil {
		return fmt.Errorf("load policy %s: %w", path, err)
	}
	hash, err := scanconfig.Hash(policy)
	if err != nil {
		return fmt.Errorf("hash policy: %w", err)
	}

	fmt.Printf("Policy:  %s (version %s)\n", policy.Meta.PolicyID, policy.Meta.Version)
	fmt.Printf("Hash:    %s\n", hash)
	fmt.Printf("File:    %s\n\n", path)

	fmt.Println("Fetch")
	fmt.Printf("  batch_size:             %d\n", policy.Fetch.BatchSize)
	fmt.Printf("  max_retries:            %d\n", policy.Fetch.MaxRetries)
	fmt.Printf("  backoff:                %s .. %s\n", policy.Fetch.BackoffMin, policy.Fetch.BackoffMax)
	fmt.Printf("  batch_delay:            %s\n", policy.Fetch.BatchDelay)
	fmt.Printf("  trend_lookback_days:    %d\n", policy.Fetch.TrendLookbackDays)
	fmt.Printf("  extended_lookback_days: %d\n", policy.Fetch.ExtendedLookbackDays)

	fmt.Println("Trend")
	fmt.Printf("  variant:        %s\n", policy.Trend.Variant)
	if policy.Trend.MAMid > 0 {
		fmt.Printf("  ma windows:     %d / %d / %d\n", policy.Trend.MAShort, policy.Trend.MAMid, policy.Trend.MALong)
	} else {
		fmt.Printf("  ma windows:     %d / %d\n", policy.Trend.MAShort, policy.Trend.MALong)
	}
	fmt.Printf("  slope_lag:      %d\n", policy.Trend.SlopeLag)
	fmt.Printf("  high_proximity: %.2f\n", policy.Trend.HighProximity)
	if policy.Trend.LowExtension > 0 {
		fmt.Printf("  low_extension:  %.2f\n", policy.Trend.LowExtension)
	}

	fmt.Println("Liquidity")
	fmt.Printf("  min_volume:    %.0f\n", policy.Liquidity.MinVolume)
	fmt.Printf("  volume_window: %d\n", policy.Liquidity.VolumeWindow)

	fmt.Println("Strength")
	fmt.Printf("  horizons_days: %v\n", policy.Strength.HorizonsDays)
	fmt.Printf("  weights:       %v\n", policy.Strength.Weights)
	fmt.Printf("  nan_policy:    %s\n", policy.Strength.NaNPolicy)

	return nil
}

func runPolicyValidate(cmd *cobra.Command, args []string) error {
	path, err := resolvePolicyPath()
	if err != nil {
		return err
	}

	policy, err := scanconfig.Load(path)
	if err != nil {
		return fmt.Errorf("invalid policy %s: %w", path, err)
	}
	hash, err := scanconfig.Hash(policy)
	if err != nil {
		return fmt.Errorf("hash policy: %w", err)
	}

	fmt.Printf("✅ %s is valid (policy %s, hash %s)\n", path, policy.Meta.PolicyID, hash)
	return nil
}

package contracts

// FailureReason classifies why a ticker was excluded from the final table.
// Every excluded ticker carries exactly one reason.
type FailureReason string

const (
	ReasonInvalidTicker       FailureReason = "invalid_ticker"
	ReasonDownloadFailure     FailureReason = "download_failure"
	ReasonInsufficientHistory FailureReason = "insufficient_history"
	ReasonMissingIndicator    FailureReason = "missing_indicator"
	ReasonTrendRule           FailureReason = "trend_rule"
	ReasonLiquidity           FailureReason = "liquidity"
	ReasonJoinMiss            FailureReason = "join_miss"
)

// Failure tags one excluded ticker with its causal reason.
// Rule carries the failing rule id when Reason is ReasonTrendRule.
type Failure struct {
	Ticker string        `json:"ticker"`
	Reason FailureReason `json:"reason"`
	Rule   string        `json:"rule,omitempty"`
}

// IsDiagnostic reports whether the failure is a join-level diagnostic
// rather than a screen rejection. A join miss means the ticker survived
// the trend and liquidity gates but had no complete strength record.
func (f Failure) IsDiagnostic() bool {
	return f.Reason == ReasonJoinMiss
}

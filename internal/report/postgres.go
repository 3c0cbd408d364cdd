package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/trendscan/internal/contracts"
)

// Repository persists scan output to Postgres and serves the read API.
// SSOT: screener result persistence happens here only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a scan result repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RunSummary is one persisted run header.
type RunSummary struct {
	Date       time.Time `json:"date"`
	Policy     string    `json:"policy"`
	PolicyHash string    `json:"policy_hash"`
	TotalInput int       `json:"total_input"`
	Finalists  int       `json:"finalists"`
	Failures   int       `json:"failures"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publish implements Sink. Re-publishing the same scan date replaces the
// previous rows, so a rerun is idempotent.
func (r *Repository) Publish(ctx context.Context, report *contracts.ScanReport) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	date := report.Date

	_, err = tx.Exec(ctx, `
		INSERT INTO screener.runs (scan_date, policy, policy_hash, total_input, finalists, failures)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (scan_date) DO UPDATE SET
			policy = EXCLUDED.policy,
			policy_hash = EXCLUDED.policy_hash,
			total_input = EXCLUDED.total_input,
			finalists = EXCLUDED.finalists,
			failures = EXCLUDED.failures,
			created_at = NOW()
	`, date, report.Policy, report.PolicyHash, report.TotalInput, len(report.Finalists), len(report.Failures))
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for _, table := range []string{"final_records", "failures", "sector_counts"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM screener.%s WHERE scan_date = $1", table), date); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := r.insertFinalRecords(ctx, tx, date, report.Finalists); err != nil {
		return err
	}
	if err := r.insertFailures(ctx, tx, date, report.Failures); err != nil {
		return err
	}
	if err := r.insertSectorCounts(ctx, tx, date, report.Sectors); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repository) insertFinalRecords(ctx context.Context, tx pgx.Tx, date time.Time, finals []contracts.FinalRecord) error {
	query := `
		INSERT INTO screener.final_records (
			scan_date, ticker, sector, industry, price,
			ma50, ma150, ma200, pct_from_high, pct_from_low,
			roc_3m, roc_6m, roc_9m, roc_12m, strength, percentile
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	for _, rec := range finals {
		_, err := tx.Exec(ctx, query,
			date, rec.Ticker, rec.Screen.Sector, rec.Screen.Industry, rec.Screen.Price,
			rec.Screen.MA50, rec.Screen.MA150, rec.Screen.MA200,
			rec.Screen.PctFrom52WHigh, rec.Screen.PctFrom52WLow,
			rec.RS.ROC3M, rec.RS.ROC6M, rec.RS.ROC9M, rec.RS.ROC12M,
			rec.RS.Strength, rec.RS.Percentile,
		)
		if err != nil {
			return fmt.Errorf("insert final record %s: %w", rec.Ticker, err)
		}
	}
	return nil
}

func (r *Repository) insertFailures(ctx context.Context, tx pgx.Tx, date time.Time, failures []contracts.Failure) error {
	query := `
		INSERT INTO screener.failures (scan_date, ticker, reason, rule)
		VALUES ($1, $2, $3, $4)
	`
	for _, f := range failures {
		if _, err := tx.Exec(ctx, query, date, f.Ticker, string(f.Reason), f.Rule); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Ticker, err)
		}
	}
	return nil
}

func (r *Repository) insertSectorCounts(ctx context.Context, tx pgx.Tx, date time.Time, sectors []contracts.SectorCount) error {
	query := `
		INSERT INTO screener.sector_counts (scan_date, sector, industry, count)
		VALUES ($1, $2, $3, $4)
	`
	for _, s := range sectors {
		if _, err := tx.Exec(ctx, query, date, s.Sector, s.Industry, s.Count); err != nil {
			return fmt.Errorf("insert sector count: %w", err)
		}
	}
	return nil
}

// LatestRun returns the most recent persisted run header.
func (r *Repository) LatestRun(ctx context.Context) (*RunSummary, error) {
	var summary RunSummary
	err := r.pool.QueryRow(ctx, `
		SELECT scan_date, policy, policy_hash, total_input, finalists, failures, created_at
		FROM screener.runs
		ORDER BY scan_date DESC
		LIMIT 1
	`).Scan(&summary.Date, &summary.Policy, &summary.PolicyHash,
		&summary.TotalInput, &summary.Finalists, &summary.Failures, &summary.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	return &summary, nil
}

// FinalRecords returns the persisted final table for one scan date,
// ordered by descending percentile.
func (r *Repository) FinalRecords(ctx context.Context, date time.Time) ([]contracts.FinalRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ticker, sector, industry, price,
			ma50, ma150, ma200, pct_from_high, pct_from_low,
			roc_3m, roc_6m, roc_9m, roc_12m, strength, percentile
		FROM screener.final_records
		WHERE scan_date = $1
		ORDER BY percentile DESC, strength DESC, ticker
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query final records: %w", err)
	}
	defer rows.Close()

	var finals []contracts.FinalRecord
	for rows.Next() {
		var rec contracts.FinalRecord
		err := rows.Scan(
			&rec.Ticker, &rec.Screen.Sector, &rec.Screen.Industry, &rec.Screen.Price,
			&rec.Screen.MA50, &rec.Screen.MA150, &rec.Screen.MA200,
			&rec.Screen.PctFrom52WHigh, &rec.Screen.PctFrom52WLow,
			&rec.RS.ROC3M, &rec.RS.ROC6M, &rec.RS.ROC9M, &rec.RS.ROC12M,
			&rec.RS.Strength, &rec.RS.Percentile,
		)
		if err != nil {
			return nil, fmt.Errorf("scan final record: %w", err)
		}
		rec.Screen.Ticker = rec.Ticker
		rec.RS.Ticker = rec.Ticker
		finals = append(finals, rec)
	}
	return finals, rows.Err()
}

// Failures returns the classified diagnostic set for one scan date.
func (r *Repository) Failures(ctx context.Context, date time.Time) ([]contracts.Failure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ticker, reason, rule
		FROM screener.failures
		WHERE scan_date = $1
		ORDER BY ticker
	`, date)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var failures []contracts.Failure
	for rows.Next() {
		var f contracts.Failure
		var reason string
		if err := rows.Scan(&f.Ticker, &reason, &f.Rule); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		f.Reason = contracts.FailureReason(reason)
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

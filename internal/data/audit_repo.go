package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/festivo/notify-api/internal/core"
)

// AuditRepo stores append-only dispatch attempt records.
type AuditRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewAuditRepo creates a new AuditRepo instance.
func NewAuditRepo(db *sql.DB, cfg RepoConfig) *AuditRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &AuditRepo{DB: db, timeProvider: tp, logger: cfg.Logger}
}

// Append inserts one dispatch attempt record. Audit rows are never updated
// or deleted.
func (r *AuditRepo) Append(ctx context.Context, rec core.AuditRecord) error {
	at := rec.At
	if at.IsZero() {
		at = r.timeProvider.Now()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO dispatch_audit(job_id, guest_id, channel, outcome, detail, at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		rec.JobID, rec.GuestID, rec.Channel, rec.Outcome, rec.Detail, at.UTC())
	if err != nil {
		return fmt.Errorf("append dispatch audit: %w", err)
	}
	return nil
}

// ListByJob returns the audit trail of one job, oldest first.
func (r *AuditRepo) ListByJob(ctx context.Context, jobID string, limit int) ([]core.AuditRecord, error) {
	if limit < 1 || limit > 1000 {
		limit = 200
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, job_id, guest_id, channel, outcome, COALESCE(detail, ''), at
		FROM dispatch_audit
		WHERE job_id = $1
		ORDER BY at ASC
		LIMIT $2`, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("list dispatch audit: %w", err)
	}
	defer closeRows(rows, r.logger, "list dispatch audit")

	var records []core.AuditRecord
	for rows.Next() {
		var rec core.AuditRecord
		if scanErr := rows.Scan(&rec.ID, &rec.JobID, &rec.GuestID, &rec.Channel, &rec.Outcome, &rec.Detail, &rec.At); scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return records, nil
}

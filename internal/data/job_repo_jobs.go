package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data/pgxutil"
	"github.com/festivo/notify-api/internal/domain/model"
)

// Create inserts a job together with its immutable recipient snapshot in a
// single transaction. The snapshot is fixed here; later guest-list edits on
// the event never change it.
func (r *JobRepo) Create(ctx context.Context, params core.CreateJobParams) (*model.Job, error) {
	if params.Req == nil {
		return nil, errors.New("create job request is required")
	}
	if validateErr := params.Req.Validate(); validateErr != nil {
		return nil, validateErr
	}
	if len(params.Guests) == 0 {
		return nil, errors.New("recipient snapshot must not be empty")
	}

	guestIDs := make([]string, 0, len(params.Guests))
	for _, g := range params.Guests {
		guestIDs = append(guestIDs, g.ID)
	}

	var job *model.Job
	if txErr := pgxutil.WithTx(ctx, r.DB,
		func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				INSERT INTO notification_jobs(event_id, created_by, message_type, status, total_recipients)
				VALUES ($1, $2, $3, 'pending', $4)
				RETURNING `+jobColumns,
				params.Req.EventID, params.CreatedBy, params.Req.MessageType, len(guestIDs))
			if err != nil {
				return fmt.Errorf("insert job: %w", err)
			}
			job, err = collectJobFromRows(rows)
			rows.Close()
			if err != nil {
				return fmt.Errorf("collect job: %w", err)
			}

			if _, err = tx.Exec(ctx, `
				INSERT INTO job_recipients(job_id, guest_id, state)
				SELECT $1, g, 'pending' FROM unnest($2::uuid[]) AS g`,
				job.ID, guestIDs); err != nil {
				return fmt.Errorf("insert recipient snapshot: %w", err)
			}
			return nil
		},
	); txErr != nil {
		return nil, txErr
	}

	return job, nil
}

// GetByID fetches a job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM notification_jobs WHERE id = $1`, id)
	job, err := scanJobFromRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListActive returns jobs in pending or processing status, oldest first.
// The sweep walks this list each tick.
func (r *JobRepo) ListActive(ctx context.Context, limit int) ([]*model.Job, error) {
	if limit < 1 {
		limit = 1
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM notification_jobs
		WHERE status IN ('pending', 'processing')
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	defer closeRows(rows, r.logger, "list active jobs")

	return scanJobs(rows)
}

// ListByEvent returns jobs for one event, newest first.
func (r *JobRepo) ListByEvent(ctx context.Context, opts core.JobListOptions) ([]*model.Job, error) {
	limit := opts.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM notification_jobs
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, opts.EventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs by event: %w", err)
	}
	defer closeRows(rows, r.logger, "list jobs by event")

	return scanJobs(rows)
}

// RequestCancel flips the cancel_requested flag on a non-terminal job. The
// flag is observed cooperatively at the next claim boundary; in-flight sends
// are never interrupted. Returns false when the job was already terminal.
func (r *JobRepo) RequestCancel(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notification_jobs
		SET cancel_requested = TRUE, updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'processing')`,
		id, r.timeProvider.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("request cancel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("request cancel rows affected: %w", err)
	}
	if n == 0 {
		// Distinguish "already terminal" from "no such job".
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	return true, nil
}

// MarkJobFailed moves a job to failed status and records the processor error.
// Used only for unrecoverable processor faults, never for recipient-level
// send failures.
func (r *JobRepo) MarkJobFailed(ctx context.Context, id, errMsg string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notification_jobs
		SET status = 'failed', last_error = $2, updated_at = $3
		WHERE id = $1 AND status IN ('pending', 'processing')`,
		id, errMsg, r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark job failed rows affected: %w", err)
	}
	if n == 0 {
		if r.logger != nil {
			r.logger.WarnContext(ctx, "mark job failed skipped, job already terminal", "job_id", id)
		}
	}
	return nil
}

// Stats returns recipient counts per state for one job.
func (r *JobRepo) Stats(ctx context.Context, jobID string) (*model.JobStats, error) {
	if _, err := r.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	var stats model.JobStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE state = 'pending'),
			COUNT(*) FILTER (WHERE state = 'claimed'),
			COUNT(*) FILTER (WHERE state = 'sent'),
			COUNT(*) FILTER (WHERE state = 'failed'),
			COUNT(*) FILTER (WHERE state = 'skipped')
		FROM job_recipients
		WHERE job_id = $1`, jobID).
		Scan(&stats.Pending, &stats.Claimed, &stats.Sent, &stats.Failed, &stats.Skipped)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return &stats, nil
}

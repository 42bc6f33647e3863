package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data/pgxutil"
	"github.com/festivo/notify-api/internal/domain/model"
)

// MarkRecipient records the terminal outcome of one claimed entry. The update
// is conditional on the entry still being claimed: if the lease expired and
// another invocation reclaimed it, the write is dropped and ErrClaimLost is
// returned so the caller does not count the outcome.
func (r *JobRepo) MarkRecipient(ctx context.Context, params core.RecipientOutcomeParams) error {
	if !params.State.Terminal() {
		return fmt.Errorf("mark recipient requires a terminal state, got %q", params.State)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE job_recipients
		SET
			state = $3,
			attempt_count = attempt_count + CASE WHEN $3 IN ('sent', 'failed') THEN 1 ELSE 0 END,
			retryable = $4,
			last_error = NULLIF($5, ''),
			processed_at = $6
		WHERE job_id = $1 AND guest_id = $2 AND state = 'claimed'`,
		params.JobID, params.GuestID, params.State, params.Retryable, params.ErrMsg,
		r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark recipient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark recipient rows affected: %w", err)
	}
	if n == 0 {
		return ErrClaimLost
	}
	return nil
}

// AddJobCounts adds a chunk's sent and failed tallies to the job counters.
// The guard keeps sent_count + failed_count from ever exceeding
// total_recipients; tripping it means the processor double-counted, which is
// ErrCounterOverflow and must fail the job.
func (r *JobRepo) AddJobCounts(ctx context.Context, params core.AddCountsParams) error {
	if params.Sent == 0 && params.Failed == 0 {
		return nil
	}
	if params.Sent < 0 || params.Failed < 0 {
		return errors.New("count deltas must be non-negative")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE notification_jobs
		SET
			sent_count = sent_count + $2,
			failed_count = failed_count + $3,
			updated_at = $4
		WHERE id = $1
		  AND sent_count + failed_count + $2 + $3 <= total_recipients`,
		params.JobID, params.Sent, params.Failed, r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("add job counts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add job counts rows affected: %w", err)
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, params.JobID); getErr != nil {
			return getErr
		}
		return ErrCounterOverflow
	}
	return nil
}

// RetryRecipient resets one retryably-failed entry back to pending and
// reopens the job for processing. The failed counter is decremented in the
// same transaction so a later success cannot push the counters past the
// recipient total. The entry update is guarded on the job still being
// processing or completed; on a cancelled or failed job the retry is rejected
// whole instead of stranding a pending entry under a terminal job. Returns
// false with a sentinel when the entry cannot be retried.
func (r *JobRepo) RetryRecipient(ctx context.Context, jobID, guestID string) (bool, error) {
	var retried bool
	txErr := pgxutil.WithTx(ctx, r.DB,
		func(tx pgx.Tx) error {
			now := r.timeProvider.Now().UTC()

			tag, err := tx.Exec(ctx, `
				UPDATE job_recipients AS jr
				SET state = 'pending', claimed_at = NULL, processed_at = NULL
				FROM notification_jobs AS j
				WHERE j.id = jr.job_id
				  AND jr.job_id = $1 AND jr.guest_id = $2
				  AND jr.state = 'failed' AND jr.retryable
				  AND j.status IN ('processing', 'completed')`,
				jobID, guestID)
			if err != nil {
				return fmt.Errorf("retry recipient: %w", err)
			}
			if tag.RowsAffected() == 0 {
				var state model.RecipientState
				scanErr := tx.QueryRow(ctx,
					`SELECT state FROM job_recipients WHERE job_id = $1 AND guest_id = $2`,
					jobID, guestID).Scan(&state)
				if errors.Is(scanErr, pgx.ErrNoRows) {
					return ErrRecipientNotFound
				}
				if scanErr != nil {
					return fmt.Errorf("check recipient state: %w", scanErr)
				}
				return ErrRecipientNotRetryable
			}

			if _, err := tx.Exec(ctx, `
				UPDATE notification_jobs
				SET
					failed_count = failed_count - 1,
					status = 'processing',
					updated_at = $2
				WHERE id = $1 AND failed_count > 0 AND status IN ('processing', 'completed')`,
				jobID, now); err != nil {
				return fmt.Errorf("reopen job for retry: %w", err)
			}

			retried = true
			return nil
		},
	)
	if txErr != nil {
		return false, txErr
	}
	return retried, nil
}

// ListRecipients returns the recipient snapshot of one job, ordered by guest ID.
func (r *JobRepo) ListRecipients(ctx context.Context, opts model.RecipientListOptions) ([]*model.RecipientEntry, error) {
	limit := opts.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+recipientColumns+`
		FROM job_recipients
		WHERE job_id = $1
		ORDER BY guest_id ASC
		LIMIT $2 OFFSET $3`, opts.JobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer closeRows(rows, r.logger, "list recipients")

	var entries []*model.RecipientEntry
	for rows.Next() {
		entry, scanErr := scanRecipientFromRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return entries, nil
}

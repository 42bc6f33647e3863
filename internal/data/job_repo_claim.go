package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data/pgxutil"
	"github.com/festivo/notify-api/internal/domain/model"
)

// SQL used by ClaimNextChunk to atomically claim the next chunk of recipient
// entries. The inner select takes pending entries plus claimed entries whose
// lease has expired; SKIP LOCKED keeps concurrent claimers from blocking on
// rows owned by an in-flight transaction.
const claimChunkUpdateSQL = `
  WITH cte AS (
    SELECT job_id, guest_id FROM job_recipients
    WHERE job_id = $1
      AND (state = 'pending' OR (state = 'claimed' AND claimed_at < $2))
    ORDER BY guest_id ASC
    LIMIT $3
    FOR UPDATE SKIP LOCKED
  )
  UPDATE job_recipients r
  SET
    state = 'claimed',
    claimed_at = $4
  FROM cte
  WHERE r.job_id = cte.job_id AND r.guest_id = cte.guest_id
  RETURNING r.job_id, r.guest_id, r.state, r.attempt_count, r.retryable, r.last_error, r.claimed_at, r.processed_at`

// ClaimNextChunk atomically claims up to MaxSize recipient entries for one
// job. The whole decision runs in a single transaction holding a row lock on
// the job, so two concurrent invocations can never claim overlapping entries:
//
//  1. If the job is terminal, return its status and no entries.
//  2. If cancellation was requested, finalize the job to cancelled.
//  3. Otherwise claim pending entries, including claimed entries whose lease
//     expired (crash recovery; the at-least-once side of the tradeoff).
//  4. When nothing is claimable and nothing is still in flight, finalize the
//     job to completed.
func (r *JobRepo) ClaimNextChunk(ctx context.Context, params core.ClaimChunkParams) (*core.ClaimResult, error) {
	if params.MaxSize < 1 {
		return nil, errors.New("chunk size must be positive")
	}
	if params.LeaseSeconds < 1 {
		return nil, errors.New("lease seconds must be positive")
	}

	var result *core.ClaimResult
	if txErr := pgxutil.WithTx(ctx, r.DB,
		func(tx pgx.Tx) error {
			var err error
			result, err = r.claimChunkInTx(ctx, tx, params)
			return err
		},
	); txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func (r *JobRepo) claimChunkInTx(ctx context.Context, tx pgx.Tx, params core.ClaimChunkParams) (*core.ClaimResult, error) {
	now := r.timeProvider.Now().UTC()
	cutoff := now.Add(-time.Duration(params.LeaseSeconds) * time.Second)

	// Lock the job row first. This serializes claim attempts per job and
	// pins status/cancel_requested for the rest of the transaction.
	var status model.JobStatus
	var cancelRequested bool
	err := tx.QueryRow(ctx, `
		SELECT status, cancel_requested
		FROM notification_jobs
		WHERE id = $1
		FOR UPDATE`, params.JobID).Scan(&status, &cancelRequested)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("lock job for claim: %w", err)
	}

	if status.Terminal() {
		return &core.ClaimResult{Status: status}, nil
	}

	if cancelRequested {
		if err := r.finalizeJobInTx(ctx, tx, params.JobID, model.JobStatusCancelled, now); err != nil {
			return nil, err
		}
		return &core.ClaimResult{Status: model.JobStatusCancelled}, nil
	}

	rows, err := tx.Query(ctx, claimChunkUpdateSQL, params.JobID, cutoff, params.MaxSize, now)
	if err != nil {
		return nil, fmt.Errorf("claim chunk: %w", err)
	}
	entries, err := collectRecipients(rows)
	if err != nil {
		return nil, fmt.Errorf("collect claimed entries: %w", err)
	}

	if len(entries) > 0 {
		if status == model.JobStatusPending {
			if _, err := tx.Exec(ctx, `
				UPDATE notification_jobs
				SET status = 'processing', updated_at = $2
				WHERE id = $1 AND status = 'pending'`, params.JobID, now); err != nil {
				return nil, fmt.Errorf("mark job processing: %w", err)
			}
			status = model.JobStatusProcessing
		}
		return &core.ClaimResult{Entries: entries, Status: status}, nil
	}

	// Nothing claimable. The job is complete only when no entry is pending
	// and no claimed entry still holds an unexpired lease.
	var pending, inflight int
	err = tx.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE state = 'pending'),
			COUNT(*) FILTER (WHERE state = 'claimed' AND claimed_at >= $2)
		FROM job_recipients
		WHERE job_id = $1`, params.JobID, cutoff).Scan(&pending, &inflight)
	if err != nil {
		return nil, fmt.Errorf("count open entries: %w", err)
	}

	if pending == 0 && inflight == 0 {
		if err := r.finalizeJobInTx(ctx, tx, params.JobID, model.JobStatusCompleted, now); err != nil {
			return nil, err
		}
		return &core.ClaimResult{Status: model.JobStatusCompleted}, nil
	}

	return &core.ClaimResult{Status: status}, nil
}

// FinalizeIfDrained checks whether a job has any work left and performs the
// terminal transition if not. It claims nothing; advance calls it after a
// chunk so completion is observed on the invocation that drained the job
// rather than on the next one. A pending cancellation wins over completion.
func (r *JobRepo) FinalizeIfDrained(ctx context.Context, params core.FinalizeParams) (model.JobStatus, error) {
	if params.LeaseSeconds < 1 {
		return "", errors.New("lease seconds must be positive")
	}

	var status model.JobStatus
	if txErr := pgxutil.WithTx(ctx, r.DB,
		func(tx pgx.Tx) error {
			now := r.timeProvider.Now().UTC()
			cutoff := now.Add(-time.Duration(params.LeaseSeconds) * time.Second)

			var cancelRequested bool
			err := tx.QueryRow(ctx, `
				SELECT status, cancel_requested
				FROM notification_jobs
				WHERE id = $1
				FOR UPDATE`, params.JobID).Scan(&status, &cancelRequested)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrJobNotFound
				}
				return fmt.Errorf("lock job for finalize: %w", err)
			}

			if status.Terminal() {
				return nil
			}

			if cancelRequested {
				if err := r.finalizeJobInTx(ctx, tx, params.JobID, model.JobStatusCancelled, now); err != nil {
					return err
				}
				status = model.JobStatusCancelled
				return nil
			}

			var pending, inflight int
			err = tx.QueryRow(ctx, `
				SELECT
					COUNT(*) FILTER (WHERE state = 'pending'),
					COUNT(*) FILTER (WHERE state = 'claimed' AND claimed_at >= $2)
				FROM job_recipients
				WHERE job_id = $1`, params.JobID, cutoff).Scan(&pending, &inflight)
			if err != nil {
				return fmt.Errorf("count open entries: %w", err)
			}

			if pending == 0 && inflight == 0 {
				if err := r.finalizeJobInTx(ctx, tx, params.JobID, model.JobStatusCompleted, now); err != nil {
					return err
				}
				status = model.JobStatusCompleted
			}
			return nil
		},
	); txErr != nil {
		return "", txErr
	}
	return status, nil
}

// finalizeJobInTx moves a non-terminal job to a terminal status. The caller
// holds the job row lock, so the guard on status is belt and suspenders.
func (r *JobRepo) finalizeJobInTx(ctx context.Context, tx pgx.Tx, jobID string, status model.JobStatus, now time.Time) error {
	if !status.Terminal() {
		return fmt.Errorf("finalize requires a terminal status, got %q", status)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE notification_jobs
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status IN ('pending', 'processing')`, jobID, status, now); err != nil {
		return fmt.Errorf("finalize job to %s: %w", status, err)
	}
	if r.logger != nil {
		r.logger.InfoContext(ctx, "job finalized", "job_id", jobID, "status", status)
	}
	return nil
}

func collectRecipients(rows pgx.Rows) ([]model.RecipientEntry, error) {
	defer rows.Close()
	var entries []model.RecipientEntry
	for rows.Next() {
		entry, err := scanRecipientFromRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

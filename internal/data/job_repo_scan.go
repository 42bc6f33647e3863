package data

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/festivo/notify-api/internal/domain/model"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobFromRow(scanner rowScanner) (*model.Job, error) {
	job := &model.Job{}
	var lastError sql.NullString
	if err := scanner.Scan(
		&job.ID,
		&job.EventID,
		&job.CreatedBy,
		&job.MessageType,
		&job.Status,
		&job.TotalRecipients,
		&job.SentCount,
		&job.FailedCount,
		&job.CancelRequested,
		&lastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.LastError = cloneNullableString(lastError)
	return job, nil
}

// collectJobFromRows collects a single job from pgx rows.
func collectJobFromRows(rows pgx.Rows) (*model.Job, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}

	job, err := scanJobFromRow(rows)
	if err != nil {
		return nil, err
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return job, nil
}

func scanJobs(rows *sql.Rows) ([]*model.Job, error) {
	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJobFromRow(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func scanRecipientFromRow(scanner rowScanner) (*model.RecipientEntry, error) {
	entry := &model.RecipientEntry{}
	var (
		lastError   sql.NullString
		claimedAt   sql.NullTime
		processedAt sql.NullTime
	)
	if err := scanner.Scan(
		&entry.JobID,
		&entry.GuestID,
		&entry.State,
		&entry.AttemptCount,
		&entry.Retryable,
		&lastError,
		&claimedAt,
		&processedAt,
	); err != nil {
		return nil, err
	}
	entry.LastError = cloneNullableString(lastError)
	entry.ClaimedAt = cloneNullableTime(claimedAt)
	entry.ProcessedAt = cloneNullableTime(processedAt)
	return entry, nil
}

func cloneNullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func cloneNullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func closeRows(rows *sql.Rows, logger *slog.Logger, op string) {
	if err := rows.Close(); err != nil && logger != nil {
		logger.WarnContext(context.Background(), "failed to close rows", "op", op, "err", err)
	}
}

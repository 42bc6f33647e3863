package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/testutil"
)

func TestAuditRepo_Integration_AppendAndList(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		jobRepo := NewJobRepo(db, RepoConfig{})
		clock := NewFixedTimeProvider(time.Now().UTC().Truncate(time.Second))
		repo := NewAuditRepo(db, RepoConfig{TimeProvider: clock})
		ctx := context.Background()

		eventID := seedEvent(t, db, "user-owner")
		guests := seedGuests(t, db, eventID, 2)
		job := seedJob(t, jobRepo, eventID, guests)

		require.NoError(t, repo.Append(ctx, core.AuditRecord{
			JobID: job.ID, GuestID: guests[0].ID, Channel: "sms", Outcome: "sent",
		}))
		clock.AddTime(time.Second)
		require.NoError(t, repo.Append(ctx, core.AuditRecord{
			JobID: job.ID, GuestID: guests[1].ID, Channel: "sms", Outcome: "failed",
			Detail: "rate limited",
		}))

		records, err := repo.ListByJob(ctx, job.ID, 10)
		require.NoError(t, err)
		require.Len(t, records, 2)

		// Oldest first.
		assert.Equal(t, "sent", records[0].Outcome)
		assert.Empty(t, records[0].Detail)
		assert.Equal(t, "failed", records[1].Outcome)
		assert.Equal(t, "rate limited", records[1].Detail)
		for _, rec := range records {
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, job.ID, rec.JobID)
			assert.False(t, rec.At.IsZero())
		}
	})
}

func TestAuditRepo_Integration_ExplicitTimestamp(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		jobRepo := NewJobRepo(db, RepoConfig{})
		repo := NewAuditRepo(db, RepoConfig{})
		ctx := context.Background()

		eventID := seedEvent(t, db, "user-owner")
		guests := seedGuests(t, db, eventID, 1)
		job := seedJob(t, jobRepo, eventID, guests)

		at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Append(ctx, core.AuditRecord{
			JobID: job.ID, GuestID: guests[0].ID, Channel: "sms", Outcome: "skipped",
			Detail: "no contact channel", At: at,
		}))

		records, err := repo.ListByJob(ctx, job.ID, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].At.Equal(at))
	})
}

package gateway

import (
	"context"
	"log/slog"

	"github.com/festivo/notify-api/internal/core"
)

// DevSender logs messages instead of delivering them. Selected when no
// gateway base URL is configured; useful for local development.
type DevSender struct {
	logger *slog.Logger
}

// NewDevSender creates a logging-only sender.
func NewDevSender(logger *slog.Logger) *DevSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &DevSender{logger: logger.With("component", "dev-sender")}
}

// Send logs the message and always succeeds.
func (s *DevSender) Send(ctx context.Context, req core.SendRequest) error {
	s.logger.InfoContext(ctx, "dev send",
		"job_id", req.JobID,
		"guest_id", req.Contact.GuestID,
		"to", req.Contact.Phone,
		"body", MessageBody(req),
	)
	return nil
}

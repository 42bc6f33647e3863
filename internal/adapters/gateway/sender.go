// Package gateway implements the outbound SMS channel against the provider
// HTTP API, including rate limiting and failure classification.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/festivo/notify-api/internal/core"
)

// Options holds configuration for the gateway client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Rate is the sustained request rate in requests per second.
	Rate float64
	// Burst is the limiter burst size.
	Burst  int
	Logger *slog.Logger
}

// Client sends messages through the provider HTTP API. All sends share one
// rate limiter, so chunk parallelism never exceeds the provider contract.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new gateway client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := opts.Rate
	if r <= 0 {
		r = 1
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(r), burst),
		logger:     logger.With("component", "gateway"),
	}
}

type sendPayload struct {
	To        string `json:"to"`
	Body      string `json:"body"`
	Reference string `json:"reference"`
}

// Send delivers one message. Failures are classified into *core.SendError:
// throttling, timeouts, and provider 5xx responses are retryable; provider
// rejections (4xx) are permanent.
func (c *Client) Send(ctx context.Context, req core.SendRequest) error {
	if waitErr := c.limiter.Wait(ctx); waitErr != nil {
		return &core.SendError{Retryable: true, Reason: "rate limiter wait", Cause: waitErr}
	}

	payload := sendPayload{
		To:        req.Contact.Phone,
		Body:      MessageBody(req),
		Reference: req.JobID + ":" + req.Contact.GuestID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &core.SendError{Retryable: false, Reason: "marshal send payload", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return &core.SendError{Retryable: false, Reason: "build send request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors and timeouts are transient from the provider's
		// point of view.
		return &core.SendError{Retryable: true, Reason: "gateway request", Cause: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &core.SendError{Retryable: true, Reason: "gateway throttled"}
	case resp.StatusCode >= 500:
		return &core.SendError{Retryable: true, Reason: fmt.Sprintf("gateway error %d", resp.StatusCode)}
	default:
		return &core.SendError{Retryable: false, Reason: fmt.Sprintf("gateway rejected message (%d)", resp.StatusCode)}
	}
}

// MessageBody renders the outbound text for one send request.
func MessageBody(req core.SendRequest) string {
	switch req.MessageType {
	case "invite":
		return fmt.Sprintf("Hi %s! You're invited to %s. Reply YES to accept.", req.Contact.Name, req.EventName)
	case "reminder":
		return fmt.Sprintf("Hi %s, a reminder about %s. See you there!", req.Contact.Name, req.EventName)
	case "update":
		return fmt.Sprintf("Hi %s, there's an update for %s. Check the event page for details.", req.Contact.Name, req.EventName)
	case "cancellation":
		return fmt.Sprintf("Hi %s, unfortunately %s has been cancelled.", req.Contact.Name, req.EventName)
	default:
		return fmt.Sprintf("Hi %s, you have a notification for %s.", req.Contact.Name, req.EventName)
	}
}

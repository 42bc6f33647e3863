package httpx

import (
	"log/slog"
	"net/http"

	"github.com/festivo/notify-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs     *service.JobService
	Sweep    *service.SweepService // Optional: enables the internal sweep endpoint
	Sessions SessionStore
	// SessionCookieName is checked when no bearer token is present.
	SessionCookieName string
	// SweepSecret guards POST /api/internal/sweep; empty disables it.
	SweepSecret string
	Logger      *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs}

	requireSession := RequireSession(services.Sessions, services.SessionCookieName)
	registerJobRoutes(mux, jobHandlers, requireSession)

	if services.Sweep != nil {
		sweepHandlers := &SweepHandlers{Svc: services.Sweep}
		mux.Handle("POST /api/internal/sweep",
			RequireSweepSecret(services.SweepSecret)(http.HandlerFunc(sweepHandlers.TriggerSweep)))
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers, requireSession func(http.Handler) http.Handler) {
	authed := func(fn http.HandlerFunc) http.Handler {
		return requireSession(fn)
	}

	mux.Handle("POST /api/jobs", authed(h.CreateJob))
	mux.Handle("GET /api/jobs/{id}", authed(h.GetJob))
	mux.Handle("POST /api/jobs/{id}/advance", authed(h.AdvanceJob))
	mux.Handle("POST /api/jobs/{id}/cancel", authed(h.CancelJob))
	mux.Handle("GET /api/jobs/{id}/stats", authed(h.GetJobStats))
	mux.Handle("GET /api/jobs/{id}/recipients", authed(h.ListRecipients))
	mux.Handle("POST /api/jobs/{id}/recipients/{guestID}/retry", authed(h.RetryRecipient))
	mux.Handle("GET /api/events/{id}/jobs", authed(h.ListEventJobs))
}

// Package httpx provides HTTP handlers and utilities for the notify-api job system.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/domain/model"
	"github.com/festivo/notify-api/internal/service"
)

// JobHandlers provides HTTP handlers for notification job operations.
type JobHandlers struct {
	Svc *service.JobService
}

func actorFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return "", false
	}
	return sess.UserID, true
}

// CreateJob handles POST /api/jobs.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Create(r.Context(), actor, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, job)
}

type advanceRequest struct {
	ChunkSize int `json:"chunk_size"`
}

// AdvanceJob handles POST /api/jobs/{id}/advance. The body is optional; an
// absent or zero chunk_size selects the configured default.
func (h *JobHandlers) AdvanceJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req advanceRequest
	if r.ContentLength > 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	result, err := h.Svc.Advance(r.Context(), actor, r.PathValue("id"), req.ChunkSize)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// CancelJob handles POST /api/jobs/{id}/cancel.
func (h *JobHandlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	job, err := h.Svc.RequestCancel(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	job, err := h.Svc.GetByID(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// GetJobStats handles GET /api/jobs/{id}/stats.
func (h *JobHandlers) GetJobStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := h.Svc.Stats(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// ListRecipients handles GET /api/jobs/{id}/recipients.
func (h *JobHandlers) ListRecipients(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	entries, err := h.Svc.ListRecipients(r.Context(), actor, model.RecipientListOptions{
		JobID:  r.PathValue("id"),
		Limit:  parseIntQuery(r, "limit", 100),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if entries == nil {
		entries = []*model.RecipientEntry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

// RetryRecipient handles POST /api/jobs/{id}/recipients/{guestID}/retry.
func (h *JobHandlers) RetryRecipient(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	job, err := h.Svc.RetryRecipient(r.Context(), actor, r.PathValue("id"), r.PathValue("guestID"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// ListEventJobs handles GET /api/events/{id}/jobs.
func (h *JobHandlers) ListEventJobs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	jobs, err := h.Svc.ListByEvent(r.Context(), actor, core.JobListOptions{
		EventID: r.PathValue("id"),
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if jobs == nil {
		jobs = []*model.Job{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// parseIntQuery parses an integer query parameter, falling back to def.
func parseIntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

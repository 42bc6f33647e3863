package httpx

import (
	"net/http"

	"github.com/festivo/notify-api/internal/service"
)

// SweepHandlers provides the internal sweep trigger endpoint. Platform cron
// infrastructure calls it when the in-process sweeper service is not enabled.
type SweepHandlers struct {
	Svc *service.SweepService
}

// TriggerSweep handles POST /api/internal/sweep.
func (h *SweepHandlers) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.Svc.Sweep(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

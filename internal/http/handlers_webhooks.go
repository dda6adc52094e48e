package httpx

import (
	"net/http"

	"github.com/feru-app/beacon/internal/domain/model"
	"github.com/feru-app/beacon/internal/service"
)

// WebhookHandlers provides the runner-facing result ingestion endpoint.
type WebhookHandlers struct {
	Svc *service.WebhookService
}

// Receive handles POST /api/webhooks/results. The shared-secret check runs in
// middleware before this handler. Replays answer 200 with applied=false.
func (h *WebhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	var update model.ResultUpdate
	if !DecodeJSON(w, r, &update) {
		return
	}

	outcome, err := h.Svc.Apply(r.Context(), &update)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"applied":    outcome.Applied,
		"job_id":     outcome.JobID,
		"job_status": outcome.JobStatus,
	})
}

package httpx

import (
	"errors"
	"net/http"

	"github.com/feru-app/beacon/internal/domain/model"
	apperrors "github.com/feru-app/beacon/internal/errors"
	"github.com/feru-app/beacon/internal/service"
)

// MonitorHandlers provides HTTP handlers for recurring monitor operations.
// Every route requires a gateway identity; ownership scopes all reads and writes.
type MonitorHandlers struct {
	Svc *service.MonitorService
}

// Create handles POST /api/monitors.
func (h *MonitorHandlers) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	var req model.CreateMonitorRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.OwnerID = id.UserID

	monitor, err := h.Svc.Create(r.Context(), &req, id.Tier)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, monitor)
}

// List handles GET /api/monitors.
func (h *MonitorHandlers) List(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	monitors, err := h.Svc.List(r.Context(), id.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"monitors": monitors})
}

// Delete handles DELETE /api/monitors/{id}.
func (h *MonitorHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}
	monitorID := r.PathValue("id")
	if monitorID == "" {
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("monitor id is required"),
		})
		return
	}

	if err := h.Svc.Delete(r.Context(), monitorID, id.UserID); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Trigger handles POST /api/monitors/{id}/trigger: run the monitor now.
// Dispatch is already underway when the response goes out, hence 202.
func (h *MonitorHandlers) Trigger(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}
	monitorID := r.PathValue("id")
	if monitorID == "" {
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("monitor id is required"),
		})
		return
	}

	job, err := h.Svc.TriggerOwned(r.Context(), monitorID, id.UserID)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusAccepted, map[string]any{"job": job})
	case job != nil && apperrors.IsDispatch(err):
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   string(apperrors.ErrCodeDispatch),
			"message": err.Error(),
			"job":     job,
		})
	default:
		WriteAppError(w, err)
	}
}

func writeAuthRequired(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

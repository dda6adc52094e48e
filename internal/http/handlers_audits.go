// Package httpx provides HTTP handlers and utilities for the beacon audit API.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/feru-app/beacon/internal/domain/model"
	apperrors "github.com/feru-app/beacon/internal/errors"
	"github.com/feru-app/beacon/internal/service"
)

// AuditHandlers provides HTTP handlers for audit job operations.
type AuditHandlers struct {
	Svc *service.AuditService
}

// createAuditBody is the wire shape of the create endpoint. Regions may be a
// JSON array or a single comma-separated string.
type createAuditBody struct {
	URL     string       `json:"url"`
	Device  model.Device `json:"device"`
	Regions regionList   `json:"regions"`
}

// regionList accepts ["a","b"] or "a,b".
type regionList []string

func (l *regionList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*l = model.ParseRegions(raw)
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	*l = arr
	return nil
}

// Create handles POST /api/audits: persist the job and dispatch its regions.
func (h *AuditHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var body createAuditBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	req := &model.CreateAuditRequest{
		URL:         body.URL,
		Device:      body.Device,
		Regions:     body.Regions,
		RequesterIP: ClientIP(r),
	}
	if id, ok := IdentityFromContext(r.Context()); ok {
		owner := id.UserID
		req.OwnerID = &owner
	}

	job, err := h.Svc.CreateAndDispatch(r.Context(), req)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusCreated, job)
	case job != nil && apperrors.IsDispatch(err):
		// The job exists but dispatch aborted; return both so the caller can
		// see which region failed and which were never attempted.
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   string(apperrors.ErrCodeDispatch),
			"message": err.Error(),
			"job":     job,
		})
	default:
		WriteAppError(w, err)
	}
}

// GetByID handles GET /api/audits/{id}.
func (h *AuditHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required"),
		})
		return
	}

	job, err := h.Svc.GetByID(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/audits: the authenticated owner's jobs, newest first.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	jobs, err := h.Svc.ListByOwner(r.Context(), id.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"audits": jobs})
}

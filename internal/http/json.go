package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/feru-app/beacon/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination.
// Returns false after writing an error response when decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps an application error to its HTTP representation.
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	WriteError(w, ErrorParams{
		Code:    statusForCode(code),
		ErrCode: errCodeString(code),
		Err:     err,
	})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeAuth:
		return http.StatusUnauthorized
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict
	case apperrors.ErrCodeQuota:
		return http.StatusForbidden
	case apperrors.ErrCodeDispatch:
		return http.StatusInternalServerError
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errCodeString(code apperrors.ErrorCode) string {
	if code == "" {
		return string(apperrors.ErrCodeInternal)
	}
	return string(code)
}

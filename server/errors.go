package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sunnystate/quotes/logging"
)

// ErrorResponse is the error envelope of every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

const (
	codeBadRequest = "BAD_REQUEST"
	codeValidation = "VALIDATION_ERROR"
	codeUpload     = "UPLOAD_FAILED"
	codeExport     = "EXPORT_FAILED"
	codeTooLarge   = "PAYLOAD_TOO_LARGE"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Warn("write response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string, details map[string]string) {
	writeJSON(w, r, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: msg, Details: details}})
}

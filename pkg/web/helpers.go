package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// MaxBodyBytes caps request bodies accepted by DecodeJSON.
const MaxBodyBytes = 1 << 20

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondValidationErrors writes a 400 with per-field rule violations.
func RespondValidationErrors(w http.ResponseWriter, logger *slog.Logger, message string, fields map[string]string) {
	RespondJSON(w, logger, http.StatusBadRequest, map[string]any{
		"error":             message,
		"validation_errors": fields,
	})
}

// RespondDetails writes an error with an ordered list of problems.
func RespondDetails(w http.ResponseWriter, logger *slog.Logger, status int, message string, details []string) {
	RespondJSON(w, logger, status, map[string]any{
		"error":   message,
		"details": details,
	})
}

// DecodeJSON reads the request body into dst. On failure it writes a 400 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			RespondError(w, logger, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			RespondError(w, logger, http.StatusBadRequest, "Request body is empty")
		default:
			logger.Warn("Error decoding request body", "error", err)
			RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	return true
}

// ParseID extracts the record id from the request path. Returns the ID and a boolean indicating success.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %q", r.PathValue("id")))
		return "", false
	}
	return id, true
}

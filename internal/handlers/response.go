package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// ValidationErrorResponse is the 400 body for per-field validation failures
type ValidationErrorResponse struct {
	Error  string             `json:"error"`
	Fields models.FieldErrors `json:"fields"`
}

// WriteFieldErrors writes a 400 with the offending fields
func WriteFieldErrors(w http.ResponseWriter, fields models.FieldErrors, logger *slog.Logger) {
	WriteJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:  "Validation failed",
		Fields: fields,
	}, logger)
}

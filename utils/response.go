package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"mingle/apperr"
)

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// WriteError translates err into a status code and a client-safe message.
// Infrastructure failures are logged with their cause.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	RespondWithError(w, status, apperr.Message(err))
}

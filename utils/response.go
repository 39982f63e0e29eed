package utils

import (
	"encoding/json"
	"net/http"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]any{"message": msg, "error": true, "success": false})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SendResponse wraps a payload in the standard {message, success, error, data} envelope.
func SendResponse(w http.ResponseWriter, status int, data any, message string, err error) {
	resp := map[string]any{
		"message": message,
		"success": err == nil && status < 400,
		"error":   err != nil || status >= 400,
		"data":    data,
	}
	if err != nil {
		resp["message"] = err.Error()
	}
	RespondWithJSON(w, status, resp)
}

type M map[string]interface{}

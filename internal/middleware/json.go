package middleware

import (
	"encoding/json"
	"net/http"

	"workconnect/internal/model"
)

// writeEnvelope answers with the standard API envelope.
func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.NewResponse(status < http.StatusBadRequest, message, data))
}

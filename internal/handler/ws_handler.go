package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"workconnect/internal/websocket"
)

// WebSocketHandler upgrades authenticated sessions onto the notification hub.
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader *gorilla.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, upgrader: websocket.Upgrader(allowedOrigins)}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := caller(r)
	if !s.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Authentication required."))
		return
	}

	h.hub.Serve(h.upgrader, w, r, s.UserID)
}

package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// WorkspaceStreamer upgrades a request into a live alert stream
type WorkspaceStreamer interface {
	ServeWorkspace(w http.ResponseWriter, r *http.Request, workspaceID uuid.UUID)
}

// RealtimeHandler serves the workspace alert websocket
type RealtimeHandler struct {
	hub WorkspaceStreamer
}

func NewRealtimeHandler(hub WorkspaceStreamer) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream handles GET /workspaces/{id}/ws
func (h *RealtimeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}
	h.hub.ServeWorkspace(w, r, ws)
}

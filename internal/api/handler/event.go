package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/careops/internal/api/response"
	"github.com/Rrens/careops/internal/domain"
)

// EventRaiser runs a domain event's rules
type EventRaiser interface {
	Raise(ctx context.Context, event domain.DomainEvent) (domain.DispatchReport, error)
}

// EventHandler is the synchronous entry for domain events
type EventHandler struct {
	events EventRaiser
}

func NewEventHandler(events EventRaiser) *EventHandler {
	return &EventHandler{events: events}
}

// Raise handles POST /workspaces/{id}/events. The workspace comes from the
// path; a body workspaceId is ignored. Rule failures are reported in the
// body with a 200.
func (h *EventHandler) Raise(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}

	var event domain.DomainEvent
	event.WorkspaceID = ws
	if !decodeBody(w, r, &event) {
		return
	}
	event.WorkspaceID = ws

	report, err := h.events.Raise(r.Context(), event)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, report)
}

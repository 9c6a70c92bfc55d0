package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/careops/internal/api/response"
	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// AlertInbox is the alert use-case surface the handler needs
type AlertInbox interface {
	List(ctx context.Context, workspaceID uuid.UUID, filter domain.AlertFilter) ([]domain.Alert, error)
	MarkRead(ctx context.Context, workspaceID, alertID uuid.UUID) error
	MarkAllRead(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}

// AlertHandler handles the alert inbox
type AlertHandler struct {
	alerts AlertInbox
}

func NewAlertHandler(alerts AlertInbox) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List handles GET /alerts?unread=true&limit=N
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}

	filter := domain.AlertFilter{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Limit:      intQuery(r, "limit", 0),
	}

	alerts, err := h.alerts.List(r.Context(), ws, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, alerts)
}

// MarkRead marks one alert read
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}
	alertID, ok := uuidParam(w, r, "alertID")
	if !ok {
		return
	}

	if err := h.alerts.MarkRead(r.Context(), ws, alertID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// MarkAllRead marks every alert of the workspace read
func (h *AlertHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}

	n, err := h.alerts.MarkAllRead(r.Context(), ws)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]int64{"updated": n})
}

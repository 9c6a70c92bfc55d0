package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AlertPriority ranks in-product alerts
type AlertPriority string

const (
	PriorityLow    AlertPriority = "LOW"
	PriorityMedium AlertPriority = "MEDIUM"
	PriorityHigh   AlertPriority = "HIGH"
)

// AlertTypeLowInventory is the alert type the low-stock scan deduplicates on
const AlertTypeLowInventory = "LOW_INVENTORY"

var ErrAlertNotFound = errors.New("alert not found")

// Alert is a durable, workspace-scoped notification surfaced in the inbox.
// Title and Message hold rendered text.
type Alert struct {
	ID          uuid.UUID     `json:"id"`
	WorkspaceID uuid.UUID     `json:"workspace_id"`
	Type        string        `json:"type"`
	Priority    AlertPriority `json:"priority"`
	Title       string        `json:"title"`
	Message     string        `json:"message"`
	LinkTo      *string       `json:"link_to,omitempty"`
	IsRead      bool          `json:"is_read"`
	CreatedAt   time.Time     `json:"created_at"`
}

// AlertSummary is the payload pushed to live clients
type AlertSummary struct {
	ID        uuid.UUID     `json:"id"`
	Type      string        `json:"type"`
	Priority  AlertPriority `json:"priority"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	LinkTo    *string       `json:"link_to,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Summary returns the live-push view of the alert
func (a Alert) Summary() AlertSummary {
	return AlertSummary{
		ID:        a.ID,
		Type:      a.Type,
		Priority:  a.Priority,
		Title:     a.Title,
		Message:   a.Message,
		LinkTo:    a.LinkTo,
		CreatedAt: a.CreatedAt,
	}
}

// AlertFilter narrows alert listings
type AlertFilter struct {
	UnreadOnly bool
	Limit      int
}

// AlertRepository defines the interface for alert storage
type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	// ExistsSince reports whether an alert of alertType whose title or message
	// mentions the given text was created in the workspace at or after since
	ExistsSince(ctx context.Context, workspaceID uuid.UUID, alertType, mention string, since time.Time) (bool, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter AlertFilter) ([]Alert, error)
	MarkRead(ctx context.Context, workspaceID, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}

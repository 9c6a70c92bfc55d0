package realtime

import (
	"context"
	"errors"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// EventAlertCreated is the event type pushed when an alert row is created
const EventAlertCreated = "alert.created"

// Event is the frame written to live clients
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher pushes a freshly created alert to whoever is listening for the
// workspace. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, workspaceID uuid.UUID, alert domain.AlertSummary) error
}

// Fanout publishes to every member and joins their errors
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, workspaceID uuid.UUID, alert domain.AlertSummary) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, workspaceID, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

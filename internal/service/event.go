package service

import (
	"context"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// Dispatcher runs a workspace's rules for a trigger
type Dispatcher interface {
	Dispatch(ctx context.Context, workspaceID uuid.UUID, trigger domain.Trigger, ectx domain.EventContext) domain.DispatchReport
}

// EventService is the entry point for domain events raised by business flows
type EventService struct {
	workspaces domain.WorkspaceRepository
	dispatcher Dispatcher
}

func NewEventService(workspaces domain.WorkspaceRepository, dispatcher Dispatcher) *EventService {
	return &EventService{workspaces: workspaces, dispatcher: dispatcher}
}

// Raise dispatches the event's trigger with its context. Errors are returned
// only for malformed events or unknown workspaces; execution failures are
// carried in the report.
func (s *EventService) Raise(ctx context.Context, event domain.DomainEvent) (domain.DispatchReport, error) {
	ectx, err := event.Context()
	if err != nil {
		return domain.DispatchReport{}, err
	}

	if err := ensureWorkspace(ctx, s.workspaces, event.WorkspaceID); err != nil {
		return domain.DispatchReport{}, err
	}

	return s.dispatcher.Dispatch(ctx, event.WorkspaceID, event.Trigger, ectx), nil
}

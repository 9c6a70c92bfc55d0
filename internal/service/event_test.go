package service

import (
	"context"
	"testing"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventService_Raise(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()

	t.Run("dispatches matching context", func(t *testing.T) {
		workspaces := new(MockWorkspaceRepository)
		dispatcher := new(MockDispatcher)
		svc := NewEventService(workspaces, dispatcher)

		contact := &domain.ContactContext{ContactName: "Ana", Email: "ana@example.com"}
		report := domain.DispatchReport{WorkspaceID: workspaceID, Trigger: domain.TriggerContactCreated}

		workspaces.On("GetByID", ctx, workspaceID).Return(&domain.Workspace{ID: workspaceID}, nil)
		dispatcher.On("Dispatch", ctx, workspaceID, domain.TriggerContactCreated, *contact).Return(report)

		got, err := svc.Raise(ctx, domain.DomainEvent{WorkspaceID: workspaceID, Trigger: domain.TriggerContactCreated, Contact: contact})

		require.NoError(t, err)
		assert.Equal(t, report, got)
		dispatcher.AssertExpectations(t)
	})

	t.Run("missing context", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		svc := NewEventService(new(MockWorkspaceRepository), dispatcher)

		_, err := svc.Raise(ctx, domain.DomainEvent{WorkspaceID: workspaceID, Trigger: domain.TriggerBookingCreated})

		assert.ErrorIs(t, err, domain.ErrMissingEventContext)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown workspace", func(t *testing.T) {
		workspaces := new(MockWorkspaceRepository)
		svc := NewEventService(workspaces, new(MockDispatcher))

		workspaces.On("GetByID", ctx, workspaceID).Return(nil, nil)

		_, err := svc.Raise(ctx, domain.DomainEvent{
			WorkspaceID: workspaceID,
			Trigger:     domain.TriggerFormSubmitted,
			Form:        &domain.FormContext{FormName: "Intake"},
		})
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	})
}

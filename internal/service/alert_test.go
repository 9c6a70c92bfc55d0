package service

import (
	"context"
	"testing"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertService(t *testing.T) {
	ctx := context.Background()
	workspaceID := uuid.New()
	alertID := uuid.New()

	t.Run("list caps limit and never returns nil", func(t *testing.T) {
		alerts := new(MockAlertRepository)
		svc := NewAlertService(alerts)

		alerts.On("ListByWorkspace", ctx, workspaceID, domain.AlertFilter{UnreadOnly: true, Limit: maxAlertLimit}).Return(nil, nil)

		got, err := svc.List(ctx, workspaceID, domain.AlertFilter{UnreadOnly: true, Limit: 10000})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		alerts.AssertExpectations(t)
	})

	t.Run("mark read of missing alert", func(t *testing.T) {
		alerts := new(MockAlertRepository)
		svc := NewAlertService(alerts)

		alerts.On("MarkRead", ctx, workspaceID, alertID).Return(false, nil)

		assert.ErrorIs(t, svc.MarkRead(ctx, workspaceID, alertID), domain.ErrAlertNotFound)
	})

	t.Run("mark all read", func(t *testing.T) {
		alerts := new(MockAlertRepository)
		svc := NewAlertService(alerts)

		alerts.On("MarkAllRead", ctx, workspaceID).Return(int64(3), nil)

		n, err := svc.MarkAllRead(ctx, workspaceID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

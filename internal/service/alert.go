package service

import (
	"context"
	"fmt"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

const maxAlertLimit = 200

// AlertService serves the alert inbox
type AlertService struct {
	alerts domain.AlertRepository
}

func NewAlertService(alerts domain.AlertRepository) *AlertService {
	return &AlertService{alerts: alerts}
}

// List returns alerts newest first. Limit is capped.
func (s *AlertService) List(ctx context.Context, workspaceID uuid.UUID, filter domain.AlertFilter) ([]domain.Alert, error) {
	if filter.Limit > maxAlertLimit {
		filter.Limit = maxAlertLimit
	}

	alerts, err := s.alerts.ListByWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return alerts, nil
}

// MarkRead marks one alert read
func (s *AlertService) MarkRead(ctx context.Context, workspaceID, alertID uuid.UUID) error {
	ok, err := s.alerts.MarkRead(ctx, workspaceID, alertID)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	if !ok {
		return domain.ErrAlertNotFound
	}
	return nil
}

// MarkAllRead marks every alert of the workspace read and returns how many changed
func (s *AlertService) MarkAllRead(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	n, err := s.alerts.MarkAllRead(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark alerts read: %w", err)
	}
	return n, nil
}

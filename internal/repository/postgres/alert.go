package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

const defaultAlertLimit = 50

// AlertRepository handles alert data access
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts an alert
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (id, workspace_id, type, priority, title, message, link_to, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		alert.ID,
		alert.WorkspaceID,
		alert.Type,
		alert.Priority,
		alert.Title,
		alert.Message,
		alert.LinkTo,
		alert.IsRead,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// ExistsSince checks for a recent alert of alertType mentioning the given text
func (r *AlertRepository) ExistsSince(ctx context.Context, workspaceID uuid.UUID, alertType, mention string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE workspace_id = $1
			  AND type = $2
			  AND created_at >= $3
			  AND (strpos(title, $4) > 0 OR strpos(message, $4) > 0)
		)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, workspaceID, alertType, since, mention).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent alerts: %w", err)
	}
	return exists, nil
}

// ListByWorkspace lists alerts newest first
func (r *AlertRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter domain.AlertFilter) ([]domain.Alert, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAlertLimit
	}

	query := `
		SELECT id, workspace_id, type, priority, title, message, link_to, is_read, created_at
		FROM alerts
		WHERE workspace_id = $1 AND (NOT $2 OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID, filter.UnreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(
			&a.ID,
			&a.WorkspaceID,
			&a.Type,
			&a.Priority,
			&a.Title,
			&a.Message,
			&a.LinkTo,
			&a.IsRead,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}

// MarkRead marks one alert read. It reports false when the alert does not
// exist in the workspace.
func (r *AlertRepository) MarkRead(ctx context.Context, workspaceID, id uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE alerts SET is_read = TRUE WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark alert read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead marks every unread alert of the workspace read
func (r *AlertRepository) MarkAllRead(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE alerts SET is_read = TRUE WHERE workspace_id = $1 AND is_read = FALSE`, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark alerts read: %w", err)
	}
	return tag.RowsAffected(), nil
}

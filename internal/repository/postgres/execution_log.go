package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// ExecutionLogRepository stores the automation audit trail
type ExecutionLogRepository struct {
	db *DB
}

func NewExecutionLogRepository(db *DB) *ExecutionLogRepository {
	return &ExecutionLogRepository{db: db}
}

// Create appends one execution result
func (r *ExecutionLogRepository) Create(ctx context.Context, entry *domain.ExecutionLog) error {
	query := `
		INSERT INTO automation_logs (id, rule_id, workspace_id, trigger, action, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		entry.ID,
		entry.RuleID,
		entry.WorkspaceID,
		entry.Trigger,
		entry.Action,
		entry.Status,
		entry.Reason,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create automation log: %w", err)
	}
	return nil
}

// ListByRule lists the latest executions of a rule
func (r *ExecutionLogRepository) ListByRule(ctx context.Context, workspaceID, ruleID uuid.UUID, limit int) ([]domain.ExecutionLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, rule_id, workspace_id, trigger, action, status, reason, created_at
		FROM automation_logs
		WHERE workspace_id = $1 AND rule_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list automation logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.ExecutionLog
	for rows.Next() {
		var l domain.ExecutionLog
		if err := rows.Scan(&l.ID, &l.RuleID, &l.WorkspaceID, &l.Trigger, &l.Action, &l.Status, &l.Reason, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan automation log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate automation logs: %w", err)
	}
	return logs, nil
}

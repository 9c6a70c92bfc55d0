package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RuleRepository handles automation rule data access
type RuleRepository struct {
	db *DB
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = `id, workspace_id, name, trigger, action, config, enabled, created_at, updated_at`

// Create inserts a rule
func (r *RuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	config, err := json.Marshal(rule.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal rule config: %w", err)
	}

	query := `
		INSERT INTO automation_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		rule.ID,
		rule.WorkspaceID,
		rule.Name,
		rule.Trigger,
		rule.Action,
		config,
		rule.Enabled,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// CreateMany inserts rules in one transaction
func (r *RuleRepository) CreateMany(ctx context.Context, rules []domain.Rule) error {
	if len(rules) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		config, err := json.Marshal(rule.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal rule config: %w", err)
		}
		batch.Queue(`
			INSERT INTO automation_rules (`+ruleColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, rule.ID, rule.WorkspaceID, rule.Name, rule.Trigger, rule.Action, config, rule.Enabled, rule.CreatedAt, rule.UpdatedAt)
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to create rules: %w", err)
		}
		return nil
	})
}

// Get retrieves a rule of a workspace. It returns nil, nil when missing.
func (r *RuleRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM automation_rules
		WHERE workspace_id = $1 AND id = $2
	`

	rule, err := scanRule(r.db.Pool.QueryRow(ctx, query, workspaceID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return rule, nil
}

// ListByWorkspace lists every rule of a workspace, newest first
func (r *RuleRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM automation_rules
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, workspaceID)
}

// ListEnabled lists the enabled rules of a workspace for one trigger
func (r *RuleRepository) ListEnabled(ctx context.Context, workspaceID uuid.UUID, trigger domain.Trigger) ([]domain.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM automation_rules
		WHERE workspace_id = $1 AND trigger = $2 AND enabled = TRUE
	`

	return r.list(ctx, query, workspaceID, trigger)
}

// Update writes name, config and enabled of a rule
func (r *RuleRepository) Update(ctx context.Context, rule *domain.Rule) error {
	config, err := json.Marshal(rule.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal rule config: %w", err)
	}

	query := `
		UPDATE automation_rules
		SET name = $3, config = $4, enabled = $5, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query, rule.WorkspaceID, rule.ID, rule.Name, config, rule.Enabled)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// SetEnabled toggles a rule
func (r *RuleRepository) SetEnabled(ctx context.Context, workspaceID, id uuid.UUID, enabled bool) error {
	query := `
		UPDATE automation_rules
		SET enabled = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query, workspaceID, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to set rule enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *RuleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Rule, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return rules, nil
}

// scanRule reads one row. A config that no longer decodes leaves Config nil
// so the executor reports the rule as failed instead of hiding it.
func scanRule(row pgx.Row) (*domain.Rule, error) {
	var rule domain.Rule
	var configJSON []byte

	if err := row.Scan(
		&rule.ID,
		&rule.WorkspaceID,
		&rule.Name,
		&rule.Trigger,
		&rule.Action,
		&configJSON,
		&rule.Enabled,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}

	cfg, err := domain.DecodeActionConfig(rule.Action, configJSON)
	if err != nil {
		log.Warn().
			Err(err).
			Str("rule_id", rule.ID.String()).
			Str("action", string(rule.Action)).
			Msg("Stored rule config does not decode")
	} else {
		rule.Config = cfg
	}

	return &rule, nil
}

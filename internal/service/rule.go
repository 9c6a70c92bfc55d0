package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// RuleService manages a workspace's automation rules
type RuleService struct {
	rules      domain.RuleRepository
	workspaces domain.WorkspaceRepository
	logs       domain.ExecutionLogRepository
}

// NewRuleService creates a new rule service. logs may be nil.
func NewRuleService(rules domain.RuleRepository, workspaces domain.WorkspaceRepository, logs domain.ExecutionLogRepository) *RuleService {
	return &RuleService{rules: rules, workspaces: workspaces, logs: logs}
}

// List returns every rule of the workspace
func (s *RuleService) List(ctx context.Context, workspaceID uuid.UUID) ([]domain.Rule, error) {
	rules, err := s.rules.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	if rules == nil {
		rules = []domain.Rule{}
	}
	return rules, nil
}

// Get returns one rule of the workspace
func (s *RuleService) Get(ctx context.Context, workspaceID, ruleID uuid.UUID) (*domain.Rule, error) {
	rule, err := s.rules.Get(ctx, workspaceID, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	if rule == nil {
		return nil, domain.ErrRuleNotFound
	}
	return rule, nil
}

// Create validates and stores a new rule. New rules are enabled unless the
// input says otherwise.
func (s *RuleService) Create(ctx context.Context, workspaceID uuid.UUID, input domain.RuleCreate) (*domain.Rule, error) {
	if !input.Trigger.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTrigger, input.Trigger)
	}
	if !input.Action.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, input.Action)
	}

	cfg, err := domain.ParseActionConfig(input.Action, input.Config)
	if err != nil {
		return nil, err
	}

	if err := ensureWorkspace(ctx, s.workspaces, workspaceID); err != nil {
		return nil, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	now := time.Now()
	rule := &domain.Rule{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        strings.TrimSpace(input.Name),
		Trigger:     input.Trigger,
		Action:      input.Action,
		Config:      cfg,
		Enabled:     enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	return rule, nil
}

// Update changes name, config or enabled. Trigger and action are fixed at
// creation; a new config is validated against the existing action.
func (s *RuleService) Update(ctx context.Context, workspaceID, ruleID uuid.UUID, input domain.RuleUpdate) (*domain.Rule, error) {
	rule, err := s.Get(ctx, workspaceID, ruleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rule.Name = strings.TrimSpace(*input.Name)
	}
	if len(input.Config) > 0 {
		cfg, err := domain.ParseActionConfig(rule.Action, input.Config)
		if err != nil {
			return nil, err
		}
		rule.Config = cfg
	}
	if input.Enabled != nil {
		rule.Enabled = *input.Enabled
	}

	if rule.Config == nil {
		return nil, fmt.Errorf("%w: stored config is unreadable, send a new config", domain.ErrInvalidConfig)
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}

	rule.UpdatedAt = time.Now()
	return rule, nil
}

// SetEnabled enables or disables a rule
func (s *RuleService) SetEnabled(ctx context.Context, workspaceID, ruleID uuid.UUID, enabled bool) (*domain.Rule, error) {
	if err := s.rules.SetEnabled(ctx, workspaceID, ruleID, enabled); err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to set rule enabled: %w", err)
	}
	return s.Get(ctx, workspaceID, ruleID)
}

// Templates returns the onboarding catalog
func (s *RuleService) Templates() []domain.RuleTemplate {
	return domain.RuleTemplates()
}

// CreateFromTemplates creates one enabled rule per selected template key
func (s *RuleService) CreateFromTemplates(ctx context.Context, workspaceID uuid.UUID, keys []string) ([]domain.Rule, error) {
	seen := make(map[string]bool, len(keys))
	var templates []domain.RuleTemplate
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		tpl, ok := domain.FindRuleTemplate(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, key)
		}
		templates = append(templates, tpl)
	}

	if err := ensureWorkspace(ctx, s.workspaces, workspaceID); err != nil {
		return nil, err
	}

	now := time.Now()
	rules := make([]domain.Rule, 0, len(templates))
	for _, tpl := range templates {
		rules = append(rules, domain.Rule{
			ID:          uuid.New(),
			WorkspaceID: workspaceID,
			Name:        tpl.Name,
			Trigger:     tpl.Trigger,
			Action:      tpl.Action,
			Config:      tpl.Config,
			Enabled:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.rules.CreateMany(ctx, rules); err != nil {
		return nil, fmt.Errorf("failed to create rules from templates: %w", err)
	}

	return rules, nil
}

// History returns the latest execution log entries of a rule
func (s *RuleService) History(ctx context.Context, workspaceID, ruleID uuid.UUID, limit int) ([]domain.ExecutionLog, error) {
	if s.logs == nil {
		return []domain.ExecutionLog{}, nil
	}
	if _, err := s.Get(ctx, workspaceID, ruleID); err != nil {
		return nil, err
	}

	logs, err := s.logs.ListByRule(ctx, workspaceID, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule history: %w", err)
	}
	if logs == nil {
		logs = []domain.ExecutionLog{}
	}
	return logs, nil
}

package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RuleExecutor runs one rule against one context
type RuleExecutor interface {
	Execute(ctx context.Context, rule domain.Rule, ectx domain.EventContext) domain.ExecutionResult
}

// Dispatcher fans a trigger out to every enabled rule of a workspace
type Dispatcher struct {
	rules    domain.RuleRepository
	executor RuleExecutor
	logs     domain.ExecutionLogRepository
}

// NewDispatcher creates a dispatcher. logs may be nil.
func NewDispatcher(rules domain.RuleRepository, executor RuleExecutor, logs domain.ExecutionLogRepository) *Dispatcher {
	return &Dispatcher{
		rules:    rules,
		executor: executor,
		logs:     logs,
	}
}

// Dispatch runs every enabled rule of workspaceID listening on trigger.
// Failures are logged and reported, never returned: callers are best-effort
// producers and must not fail because a notification did.
func (d *Dispatcher) Dispatch(ctx context.Context, workspaceID uuid.UUID, trigger domain.Trigger, ectx domain.EventContext) (report domain.DispatchReport) {
	report = domain.DispatchReport{WorkspaceID: workspaceID, Trigger: trigger}

	defer func() {
		if r := recover(); r != nil {
			report.LoadErr = fmt.Errorf("panic during dispatch: %v", r)
			log.Error().
				Str("workspace_id", workspaceID.String()).
				Str("trigger", string(trigger)).
				Interface("panic", r).
				Msg("Dispatch panicked")
		}
	}()

	rules, err := d.rules.ListEnabled(ctx, workspaceID, trigger)
	if err != nil {
		report.LoadErr = err
		log.Error().
			Err(err).
			Str("workspace_id", workspaceID.String()).
			Str("trigger", string(trigger)).
			Msg("Failed to load automation rules")
		return report
	}

	for _, rule := range rules {
		// Never cross workspaces or fire disabled rules, whatever the store returned.
		if rule.WorkspaceID != workspaceID || rule.Trigger != trigger || !rule.Enabled {
			log.Warn().
				Str("rule_id", rule.ID.String()).
				Str("workspace_id", workspaceID.String()).
				Str("trigger", string(trigger)).
				Msg("Ignoring rule outside dispatch scope")
			continue
		}

		result := d.executor.Execute(ctx, rule, ectx)
		report.Results = append(report.Results, result)

		d.logResult(rule, trigger, result)
		d.record(ctx, rule, trigger, result)
	}

	return report
}

func (d *Dispatcher) logResult(rule domain.Rule, trigger domain.Trigger, result domain.ExecutionResult) {
	var event *zerolog.Event
	switch result.Status {
	case domain.ExecutionFailed:
		event = log.Error().Err(result.Err)
	case domain.ExecutionSucceeded:
		event = log.Info()
	default:
		event = log.Debug()
	}

	event.
		Str("rule_id", rule.ID.String()).
		Str("workspace_id", rule.WorkspaceID.String()).
		Str("trigger", string(trigger)).
		Str("action", string(rule.Action)).
		Str("status", string(result.Status)).
		Str("reason", result.Reason).
		Msg("Automation rule executed")
}

func (d *Dispatcher) record(ctx context.Context, rule domain.Rule, trigger domain.Trigger, result domain.ExecutionResult) {
	if d.logs == nil {
		return
	}

	entry := &domain.ExecutionLog{
		ID:          uuid.New(),
		RuleID:      rule.ID,
		WorkspaceID: rule.WorkspaceID,
		Trigger:     trigger,
		Action:      rule.Action,
		Status:      result.Status,
		Reason:      result.Reason,
		CreatedAt:   time.Now(),
	}

	if err := d.logs.Create(ctx, entry); err != nil {
		log.Warn().
			Err(err).
			Str("rule_id", rule.ID.String()).
			Msg("Failed to write automation log")
	}
}

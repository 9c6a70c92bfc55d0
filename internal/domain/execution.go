package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus is the outcome of running one rule against one context
type ExecutionStatus string

const (
	ExecutionSucceeded ExecutionStatus = "succeeded"
	ExecutionSkipped   ExecutionStatus = "skipped"
	ExecutionFailed    ExecutionStatus = "failed"
)

// ExecutionResult reports one rule execution
type ExecutionResult struct {
	RuleID  uuid.UUID       `json:"rule_id"`
	Action  ActionType      `json:"action"`
	Status  ExecutionStatus `json:"status"`
	Reason  string          `json:"reason,omitempty"`
	AlertID *uuid.UUID      `json:"alert_id,omitempty"`
	Err     error           `json:"-"`
}

// Succeeded builds a successful result
func Succeeded(rule Rule) ExecutionResult {
	return ExecutionResult{RuleID: rule.ID, Action: rule.Action, Status: ExecutionSucceeded}
}

// Skipped builds a skipped result
func Skipped(rule Rule, reason string) ExecutionResult {
	return ExecutionResult{RuleID: rule.ID, Action: rule.Action, Status: ExecutionSkipped, Reason: reason}
}

// Failed builds a failed result
func Failed(rule Rule, err error) ExecutionResult {
	return ExecutionResult{RuleID: rule.ID, Action: rule.Action, Status: ExecutionFailed, Reason: err.Error(), Err: err}
}

// DispatchReport collects the results of one dispatch
type DispatchReport struct {
	WorkspaceID uuid.UUID         `json:"workspace_id"`
	Trigger     Trigger           `json:"trigger"`
	Results     []ExecutionResult `json:"results"`
	LoadErr     error             `json:"-"`
}

// Matched is the number of rules that were executed
func (r DispatchReport) Matched() int {
	return len(r.Results)
}

// Count returns how many results have the given status
func (r DispatchReport) Count(status ExecutionStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Settled reports whether the dispatch reached a final outcome for at least
// one rule: a delivery, or a skip that will not change on retry.
func (r DispatchReport) Settled() bool {
	return r.Count(ExecutionSucceeded)+r.Count(ExecutionSkipped) > 0
}

// ExecutionLog is the persisted audit row of an ExecutionResult
type ExecutionLog struct {
	ID          uuid.UUID       `json:"id"`
	RuleID      uuid.UUID       `json:"rule_id"`
	WorkspaceID uuid.UUID       `json:"workspace_id"`
	Trigger     Trigger         `json:"trigger"`
	Action      ActionType      `json:"action"`
	Status      ExecutionStatus `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExecutionLogRepository defines the interface for execution log storage
type ExecutionLogRepository interface {
	Create(ctx context.Context, log *ExecutionLog) error
	ListByRule(ctx context.Context, workspaceID, ruleID uuid.UUID, limit int) ([]ExecutionLog, error)
}

// NotificationLedger records which (trigger, entity) pairs were already notified
type NotificationLedger interface {
	// Claim marks key as notified for ttl. It reports false if key was already claimed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so that the next scan may notify again
	Release(ctx context.Context, key string) error
}

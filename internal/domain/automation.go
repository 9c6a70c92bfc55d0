package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Trigger is the condition category an automation rule listens for
type Trigger string

const (
	TriggerBookingReminder  Trigger = "BOOKING_REMINDER"
	TriggerFormPending      Trigger = "FORM_PENDING"
	TriggerInventoryLow     Trigger = "INVENTORY_LOW"
	TriggerBookingCreated   Trigger = "BOOKING_CREATED"
	TriggerContactCreated   Trigger = "CONTACT_CREATED"
	TriggerFormSubmitted    Trigger = "FORM_SUBMITTED"
	TriggerBookingCompleted Trigger = "BOOKING_COMPLETED"
)

// Triggers lists every supported trigger
var Triggers = []Trigger{
	TriggerBookingReminder,
	TriggerFormPending,
	TriggerInventoryLow,
	TriggerBookingCreated,
	TriggerContactCreated,
	TriggerFormSubmitted,
	TriggerBookingCompleted,
}

// IsValid reports whether t is a known trigger
func (t Trigger) IsValid() bool {
	for _, known := range Triggers {
		if t == known {
			return true
		}
	}
	return false
}

// ActionType is the effect a rule performs when triggered
type ActionType string

const (
	ActionSendEmail   ActionType = "SEND_EMAIL"
	ActionSendSMS     ActionType = "SEND_SMS"
	ActionCreateAlert ActionType = "CREATE_ALERT"
)

// IsValid reports whether a is a known action
func (a ActionType) IsValid() bool {
	switch a {
	case ActionSendEmail, ActionSendSMS, ActionCreateAlert:
		return true
	}
	return false
}

var (
	ErrRuleNotFound         = errors.New("automation rule not found")
	ErrInvalidConfig        = errors.New("invalid action configuration")
	ErrActionConfigMismatch = errors.New("configuration does not match action")
	ErrUnknownTemplate      = errors.New("unknown rule template")
	ErrInvalidTrigger       = errors.New("invalid trigger")
	ErrInvalidAction        = errors.New("invalid action")
)

// Rule is a workspace-scoped trigger/action pair.
// Config is nil when the stored configuration could not be decoded.
type Rule struct {
	ID          uuid.UUID    `json:"id"`
	WorkspaceID uuid.UUID    `json:"workspace_id"`
	Name        string       `json:"name"`
	Trigger     Trigger      `json:"trigger"`
	Action      ActionType   `json:"action"`
	Config      ActionConfig `json:"config"`
	Enabled     bool         `json:"enabled"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RuleCreate represents rule creation data
type RuleCreate struct {
	Name    string          `json:"name" validate:"required,max=255"`
	Trigger Trigger         `json:"trigger" validate:"required"`
	Action  ActionType      `json:"action" validate:"required"`
	Config  json.RawMessage `json:"config" validate:"required"`
	Enabled *bool           `json:"enabled,omitempty"`
}

// RuleUpdate represents rule update data. Config, when present, is decoded
// against the rule's existing action.
type RuleUpdate struct {
	Name    *string         `json:"name,omitempty" validate:"omitempty,max=255"`
	Config  json.RawMessage `json:"config,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
}

// FromTemplatesRequest selects catalog templates to create rules from
type FromTemplatesRequest struct {
	Keys []string `json:"keys" validate:"required,min=1,dive,required"`
}

// RuleRepository defines the interface for rule storage
type RuleRepository interface {
	Create(ctx context.Context, rule *Rule) error
	CreateMany(ctx context.Context, rules []Rule) error
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*Rule, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Rule, error)
	ListEnabled(ctx context.Context, workspaceID uuid.UUID, trigger Trigger) ([]Rule, error)
	Update(ctx context.Context, rule *Rule) error
	SetEnabled(ctx context.Context, workspaceID, id uuid.UUID, enabled bool) error
}

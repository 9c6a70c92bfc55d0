package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ActionConfig is the per-action rule configuration. The variants are
// EmailConfig, SmsConfig and AlertConfig.
type ActionConfig interface {
	Action() ActionType
	Validate() error
	isActionConfig()
}

// EmailConfig configures a SEND_EMAIL rule
type EmailConfig struct {
	Subject string `json:"subject,omitempty" validate:"max=255"`
	Body    string `json:"body" validate:"required"`
}

// DefaultEmailSubject is used when a rule leaves the subject empty
const DefaultEmailSubject = "Notification"

func (EmailConfig) Action() ActionType { return ActionSendEmail }
func (EmailConfig) isActionConfig()    {}

func (c EmailConfig) Validate() error { return validateConfig(c) }

// SubjectTemplate returns the subject template, defaulted
func (c EmailConfig) SubjectTemplate() string {
	if c.Subject == "" {
		return DefaultEmailSubject
	}
	return c.Subject
}

// SmsConfig configures a SEND_SMS rule
type SmsConfig struct {
	Message string `json:"message" validate:"required,max=1600"`
}

func (SmsConfig) Action() ActionType { return ActionSendSMS }
func (SmsConfig) isActionConfig()    {}

func (c SmsConfig) Validate() error { return validateConfig(c) }

// AlertConfig configures a CREATE_ALERT rule
type AlertConfig struct {
	AlertType string        `json:"alertType" validate:"required,max=64"`
	Priority  AlertPriority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Title     string        `json:"title" validate:"required,max=255"`
	Message   string        `json:"message" validate:"required"`
}

func (AlertConfig) Action() ActionType { return ActionCreateAlert }
func (AlertConfig) isActionConfig()    {}

func (c AlertConfig) Validate() error { return validateConfig(c) }

// EffectivePriority returns the configured priority or MEDIUM
func (c AlertConfig) EffectivePriority() AlertPriority {
	if c.Priority == "" {
		return PriorityMedium
	}
	return c.Priority
}

func validateConfig(c any) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DecodeActionConfig decodes a stored configuration into the variant selected
// by action. Unknown keys are ignored.
func DecodeActionConfig(action ActionType, raw json.RawMessage) (ActionConfig, error) {
	return decodeConfig(action, raw, false)
}

// ParseActionConfig decodes and validates a configuration submitted for
// action. Unknown keys are rejected, so a config written for another action
// does not pass as an empty variant.
func ParseActionConfig(action ActionType, raw json.RawMessage) (ActionConfig, error) {
	cfg, err := decodeConfig(action, raw, true)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(action ActionType, raw json.RawMessage, strict bool) (ActionConfig, error) {
	switch action {
	case ActionSendEmail:
		var c EmailConfig
		if err := decodeInto(raw, &c, strict); err != nil {
			return nil, err
		}
		return c, nil
	case ActionSendSMS:
		var c SmsConfig
		if err := decodeInto(raw, &c, strict); err != nil {
			return nil, err
		}
		return c, nil
	case ActionCreateAlert:
		var c AlertConfig
		if err := decodeInto(raw, &c, strict); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
}

func decodeInto(raw json.RawMessage, v any, strict bool) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: empty configuration", ErrInvalidConfig)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return fmt.Errorf("%w: %v", ErrActionConfigMismatch, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

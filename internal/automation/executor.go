package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/careops/internal/channel"
	"github.com/Rrens/careops/internal/domain"
	"github.com/Rrens/careops/internal/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var errMissingContext = errors.New("event context is nil")

// Executor runs a single rule against a single event context
type Executor struct {
	email     channel.EmailSender
	sms       channel.SMSSender
	alerts    domain.AlertRepository
	publisher realtime.Publisher
	timeout   time.Duration
	now       func() time.Time
}

// ExecutorOption customizes an Executor
type ExecutorOption func(*Executor)

// WithActionTimeout bounds each channel call or alert write
func WithActionTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// WithClock overrides the alert creation clock
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

// NewExecutor creates a rule executor. Any dependency may be nil; actions
// needing a missing one fail with channel.ErrNotConfigured.
func NewExecutor(
	email channel.EmailSender,
	sms channel.SMSSender,
	alerts domain.AlertRepository,
	publisher realtime.Publisher,
	opts ...ExecutorOption,
) *Executor {
	e := &Executor{
		email:     email,
		sms:       sms,
		alerts:    alerts,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute performs rule's action. It never panics and never returns an error;
// the outcome is carried by the result.
func (e *Executor) Execute(ctx context.Context, rule domain.Rule, ectx domain.EventContext) (result domain.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.Failed(rule, fmt.Errorf("panic during execution: %v", r))
		}
	}()

	if ectx == nil {
		return domain.Failed(rule, errMissingContext)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	if rule.Config == nil {
		return domain.Failed(rule, fmt.Errorf("%w: rule has no usable configuration", domain.ErrInvalidConfig))
	}
	if rule.Config.Action() != rule.Action {
		return domain.Failed(rule, fmt.Errorf("%w: %s rule carries %s config", domain.ErrActionConfigMismatch, rule.Action, rule.Config.Action()))
	}

	switch cfg := rule.Config.(type) {
	case domain.EmailConfig:
		return e.sendEmail(ctx, rule, cfg, ectx)
	case domain.SmsConfig:
		return e.sendSMS(ctx, rule, cfg, ectx)
	case domain.AlertConfig:
		return e.createAlert(ctx, rule, cfg, ectx)
	}

	return domain.Failed(rule, fmt.Errorf("%w: %s", domain.ErrInvalidAction, rule.Action))
}

func (e *Executor) sendEmail(ctx context.Context, rule domain.Rule, cfg domain.EmailConfig, ectx domain.EventContext) domain.ExecutionResult {
	to := strings.TrimSpace(ectx.EmailAddress())
	if to == "" {
		return domain.Skipped(rule, "context has no email")
	}
	if e.email == nil {
		return domain.Failed(rule, fmt.Errorf("email: %w", channel.ErrNotConfigured))
	}

	values := ectx.Values()
	msg := channel.EmailMessage{
		To:      to,
		Subject: Render(cfg.SubjectTemplate(), values),
		Body:    Render(cfg.Body, values),
	}

	if err := e.email.Send(ctx, msg); err != nil {
		return domain.Failed(rule, fmt.Errorf("failed to send email: %w", err))
	}

	return domain.Succeeded(rule)
}

func (e *Executor) sendSMS(ctx context.Context, rule domain.Rule, cfg domain.SmsConfig, ectx domain.EventContext) domain.ExecutionResult {
	to := strings.TrimSpace(ectx.PhoneNumber())
	if to == "" {
		return domain.Skipped(rule, "context has no phone")
	}
	if e.sms == nil {
		return domain.Failed(rule, fmt.Errorf("sms: %w", channel.ErrNotConfigured))
	}

	msg := channel.SMSMessage{
		To:      to,
		Message: Render(cfg.Message, ectx.Values()),
	}

	if err := e.sms.Send(ctx, msg); err != nil {
		return domain.Failed(rule, fmt.Errorf("failed to send sms: %w", err))
	}

	return domain.Succeeded(rule)
}

func (e *Executor) createAlert(ctx context.Context, rule domain.Rule, cfg domain.AlertConfig, ectx domain.EventContext) domain.ExecutionResult {
	if e.alerts == nil {
		return domain.Failed(rule, fmt.Errorf("alerts: %w", channel.ErrNotConfigured))
	}

	values := ectx.Values()
	alert := &domain.Alert{
		ID:          uuid.New(),
		WorkspaceID: rule.WorkspaceID,
		Type:        cfg.AlertType,
		Priority:    cfg.EffectivePriority(),
		Title:       Render(cfg.Title, values),
		Message:     Render(cfg.Message, values),
		IsRead:      false,
		CreatedAt:   e.now(),
	}
	if link := ectx.LinkTo(); link != "" {
		alert.LinkTo = &link
	}

	if err := e.alerts.Create(ctx, alert); err != nil {
		return domain.Failed(rule, fmt.Errorf("failed to create alert: %w", err))
	}

	// The row is the record of delivery; the live push is best effort.
	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, rule.WorkspaceID, alert.Summary()); err != nil {
			log.Warn().
				Err(err).
				Str("workspace_id", rule.WorkspaceID.String()).
				Str("alert_id", alert.ID.String()).
				Msg("Failed to publish alert")
		}
	}

	result := domain.Succeeded(rule)
	result.AlertID = &alert.ID
	return result
}

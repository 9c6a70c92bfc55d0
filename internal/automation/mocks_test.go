package automation

import (
	"context"
	"time"

	"github.com/Rrens/careops/internal/channel"
	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRuleRepository mocks the RuleRepository interface
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) CreateMany(ctx context.Context, rules []domain.Rule) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

func (m *MockRuleRepository) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Rule, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Rule, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleRepository) ListEnabled(ctx context.Context, workspaceID uuid.UUID, trigger domain.Trigger) ([]domain.Rule, error) {
	args := m.Called(ctx, workspaceID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *domain.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) SetEnabled(ctx context.Context, workspaceID, id uuid.UUID, enabled bool) error {
	args := m.Called(ctx, workspaceID, id, enabled)
	return args.Error(0)
}

// MockAlertRepository mocks the AlertRepository interface
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) ExistsSince(ctx context.Context, workspaceID uuid.UUID, alertType, mention string, since time.Time) (bool, error) {
	args := m.Called(ctx, workspaceID, alertType, mention, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter domain.AlertFilter) ([]domain.Alert, error) {
	args := m.Called(ctx, workspaceID, filter)
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) MarkRead(ctx context.Context, workspaceID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, workspaceID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertRepository) MarkAllRead(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailSender mocks channel.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg channel.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockSMSSender mocks channel.SMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, msg channel.SMSMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPublisher mocks realtime.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, workspaceID uuid.UUID, alert domain.AlertSummary) error {
	args := m.Called(ctx, workspaceID, alert)
	return args.Error(0)
}

// MockExecutionLogRepository mocks the ExecutionLogRepository interface
type MockExecutionLogRepository struct {
	mock.Mock
}

func (m *MockExecutionLogRepository) Create(ctx context.Context, entry *domain.ExecutionLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockExecutionLogRepository) ListByRule(ctx context.Context, workspaceID, ruleID uuid.UUID, limit int) ([]domain.ExecutionLog, error) {
	args := m.Called(ctx, workspaceID, ruleID, limit)
	return args.Get(0).([]domain.ExecutionLog), args.Error(1)
}

package handler_test

import (
	"context"
	"net/http"

	"github.com/Rrens/careops/internal/domain"
	"github.com/Rrens/careops/internal/scanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRuleManager struct {
	mock.Mock
}

func (m *MockRuleManager) List(ctx context.Context, workspaceID uuid.UUID) ([]domain.Rule, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleManager) Get(ctx context.Context, workspaceID, ruleID uuid.UUID) (*domain.Rule, error) {
	args := m.Called(ctx, workspaceID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleManager) Create(ctx context.Context, workspaceID uuid.UUID, input domain.RuleCreate) (*domain.Rule, error) {
	args := m.Called(ctx, workspaceID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleManager) Update(ctx context.Context, workspaceID, ruleID uuid.UUID, input domain.RuleUpdate) (*domain.Rule, error) {
	args := m.Called(ctx, workspaceID, ruleID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleManager) SetEnabled(ctx context.Context, workspaceID, ruleID uuid.UUID, enabled bool) (*domain.Rule, error) {
	args := m.Called(ctx, workspaceID, ruleID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleManager) Templates() []domain.RuleTemplate {
	args := m.Called()
	return args.Get(0).([]domain.RuleTemplate)
}

func (m *MockRuleManager) CreateFromTemplates(ctx context.Context, workspaceID uuid.UUID, keys []string) ([]domain.Rule, error) {
	args := m.Called(ctx, workspaceID, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleManager) History(ctx context.Context, workspaceID, ruleID uuid.UUID, limit int) ([]domain.ExecutionLog, error) {
	args := m.Called(ctx, workspaceID, ruleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExecutionLog), args.Error(1)
}

type MockAlertInbox struct {
	mock.Mock
}

func (m *MockAlertInbox) List(ctx context.Context, workspaceID uuid.UUID, filter domain.AlertFilter) ([]domain.Alert, error) {
	args := m.Called(ctx, workspaceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *MockAlertInbox) MarkRead(ctx context.Context, workspaceID, alertID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, alertID)
	return args.Error(0)
}

func (m *MockAlertInbox) MarkAllRead(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRaiser struct {
	mock.Mock
}

func (m *MockEventRaiser) Raise(ctx context.Context, event domain.DomainEvent) (domain.DispatchReport, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(domain.DispatchReport), args.Error(1)
}

type MockScanRunner struct {
	mock.Mock
}

func (m *MockScanRunner) RunNow(ctx context.Context, name string) ([]scanner.Summary, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scanner.Summary), args.Error(1)
}

func (m *MockScanRunner) Cadences() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockStreamer struct {
	mock.Mock
}

func (m *MockStreamer) ServeWorkspace(w http.ResponseWriter, r *http.Request, workspaceID uuid.UUID) {
	m.Called(workspaceID)
	w.WriteHeader(http.StatusOK)
}

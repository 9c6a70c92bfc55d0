package scanner

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type dispatchCall struct {
	WorkspaceID uuid.UUID
	Trigger     domain.Trigger
	Context     domain.EventContext
}

// recordingDispatcher records calls and reports one outcome per call
type recordingDispatcher struct {
	mu     sync.Mutex
	calls  []dispatchCall
	status domain.ExecutionStatus
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{status: domain.ExecutionSucceeded}
}

func (d *recordingDispatcher) Dispatch(_ context.Context, workspaceID uuid.UUID, trigger domain.Trigger, ectx domain.EventContext) domain.DispatchReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchCall{WorkspaceID: workspaceID, Trigger: trigger, Context: ectx})
	return domain.DispatchReport{
		WorkspaceID: workspaceID,
		Trigger:     trigger,
		Results:     []domain.ExecutionResult{{RuleID: uuid.New(), Status: d.status}},
	}
}

func (d *recordingDispatcher) Calls() []dispatchCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatchCall(nil), d.calls...)
}

type memLedger struct {
	mu   sync.Mutex
	keys map[string]time.Time
	err  error
}

func newMemLedger() *memLedger { return &memLedger{keys: make(map[string]time.Time)} }

func (l *memLedger) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.keys[key]; ok {
		return false, nil
	}
	l.keys[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *memLedger) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.keys, key)
	return nil
}

func (l *memLedger) Has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.keys[key]
	return ok
}

type memBookings struct {
	bookings []domain.BookingDetail
}

func (r *memBookings) ListStartingBetween(_ context.Context, from, to time.Time, statuses []domain.BookingStatus) ([]domain.BookingDetail, error) {
	var out []domain.BookingDetail
	for _, b := range r.bookings {
		if b.StartTime.Before(from) || !b.StartTime.Before(to) {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

type memForms struct {
	mu          sync.Mutex
	submissions map[uuid.UUID]*domain.PendingSubmission
	markCalls   int
}

func newMemForms(subs ...domain.PendingSubmission) *memForms {
	f := &memForms{submissions: make(map[uuid.UUID]*domain.PendingSubmission)}
	for i := range subs {
		s := subs[i]
		f.submissions[s.ID] = &s
	}
	return f
}

func (f *memForms) ListPendingCreatedBefore(_ context.Context, cutoff time.Time) ([]domain.PendingSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PendingSubmission
	for _, s := range f.submissions {
		if s.Status == domain.FormPending && !s.CreatedAt.After(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *memForms) ListOverdue(_ context.Context, now time.Time) ([]domain.FormSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.FormSubmission
	for _, s := range f.submissions {
		if s.Status == domain.FormPending && s.DueDate != nil && s.DueDate.Before(now) {
			out = append(out, s.FormSubmission)
		}
	}
	return out, nil
}

func (f *memForms) MarkOverdue(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	s, ok := f.submissions[id]
	if !ok || s.Status != domain.FormPending {
		return false, nil
	}
	s.Status = domain.FormOverdue
	return true, nil
}

func (f *memForms) Status(id uuid.UUID) domain.FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submissions[id].Status
}

type memInventory struct {
	items []domain.InventoryItem
}

func (r *memInventory) ListLowStock(context.Context) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, it := range r.items {
		if it.IsActive && it.IsLowStock() {
			out = append(out, it)
		}
	}
	return out, nil
}

type memAlerts struct {
	mu     sync.Mutex
	alerts []domain.Alert
}

func (r *memAlerts) Create(_ context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, *alert)
	return nil
}

func (r *memAlerts) ExistsSince(_ context.Context, workspaceID uuid.UUID, alertType, mention string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.WorkspaceID != workspaceID || a.Type != alertType || a.CreatedAt.Before(since) {
			continue
		}
		if strings.Contains(a.Title, mention) || strings.Contains(a.Message, mention) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAlerts) ListByWorkspace(_ context.Context, workspaceID uuid.UUID, filter domain.AlertFilter) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Alert
	for _, a := range r.alerts {
		if a.WorkspaceID == workspaceID && (!filter.UnreadOnly || !a.IsRead) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memAlerts) MarkRead(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, errors.New("not implemented")
}

func (r *memAlerts) MarkAllRead(context.Context, uuid.UUID) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *memAlerts) All() []domain.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Alert(nil), r.alerts...)
}

// memRules serves ListEnabled; the write side is unused by scans
type memRules struct {
	rules []domain.Rule
}

func (r *memRules) ListEnabled(_ context.Context, workspaceID uuid.UUID, trigger domain.Trigger) ([]domain.Rule, error) {
	var out []domain.Rule
	for _, rule := range r.rules {
		if rule.WorkspaceID == workspaceID && rule.Trigger == trigger && rule.Enabled {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *memRules) Create(context.Context, *domain.Rule) error                   { return nil }
func (r *memRules) CreateMany(context.Context, []domain.Rule) error              { return nil }
func (r *memRules) Update(context.Context, *domain.Rule) error                   { return nil }
func (r *memRules) SetEnabled(context.Context, uuid.UUID, uuid.UUID, bool) error { return nil }

func (r *memRules) Get(_ context.Context, workspaceID, id uuid.UUID) (*domain.Rule, error) {
	for _, rule := range r.rules {
		if rule.WorkspaceID == workspaceID && rule.ID == id {
			return &rule, nil
		}
	}
	return nil, nil
}

func (r *memRules) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]domain.Rule, error) {
	var out []domain.Rule
	for _, rule := range r.rules {
		if rule.WorkspaceID == workspaceID {
			out = append(out, rule)
		}
	}
	return out, nil
}

package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/careops/internal/api/response"
	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// RuleManager is the rule use-case surface the handler needs
type RuleManager interface {
	List(ctx context.Context, workspaceID uuid.UUID) ([]domain.Rule, error)
	Get(ctx context.Context, workspaceID, ruleID uuid.UUID) (*domain.Rule, error)
	Create(ctx context.Context, workspaceID uuid.UUID, input domain.RuleCreate) (*domain.Rule, error)
	Update(ctx context.Context, workspaceID, ruleID uuid.UUID, input domain.RuleUpdate) (*domain.Rule, error)
	SetEnabled(ctx context.Context, workspaceID, ruleID uuid.UUID, enabled bool) (*domain.Rule, error)
	Templates() []domain.RuleTemplate
	CreateFromTemplates(ctx context.Context, workspaceID uuid.UUID, keys []string) ([]domain.Rule, error)
	History(ctx context.Context, workspaceID, ruleID uuid.UUID, limit int) ([]domain.ExecutionLog, error)
}

// RuleHandler handles automation rule endpoints
type RuleHandler struct {
	rules RuleManager
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(rules RuleManager) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// List handles listing the workspace's rules
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}

	rules, err := h.rules.List(r.Context(), ws)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, rules)
}

// Create handles rule creation
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}

	var input domain.RuleCreate
	if !decodeBody(w, r, &input) {
		return
	}

	rule, err := h.rules.Create(r.Context(), ws, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, rule)
}

// Get handles fetching one rule
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}
	ruleID, ok := uuidParam(w, r, "ruleID")
	if !ok {
		return
	}

	rule, err := h.rules.Get(r.Context(), ws, ruleID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, rule)
}

// Update handles partial rule updates
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}
	ruleID, ok := uuidParam(w, r, "ruleID")
	if !ok {
		return
	}

	var input domain.RuleUpdate
	if !decodeBody(w, r, &input) {
		return
	}

	rule, err := h.rules.Update(r.Context(), ws, ruleID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, rule)
}

// Enable turns a rule on
func (h *RuleHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// Disable turns a rule off. Rules are never deleted.
func (h *RuleHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *RuleHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}
	ruleID, ok := uuidParam(w, r, "ruleID")
	if !ok {
		return
	}

	rule, err := h.rules.SetEnabled(r.Context(), ws, ruleID, enabled)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, rule)
}

// Templates lists the onboarding catalog
func (h *RuleHandler) Templates(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.rules.Templates())
}

// CreateFromTemplates bulk-creates rules from catalog keys
func (h *RuleHandler) CreateFromTemplates(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}

	var input domain.FromTemplatesRequest
	if !decodeBody(w, r, &input) {
		return
	}

	rules, err := h.rules.CreateFromTemplates(r.Context(), ws, input.Keys)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, rules)
}

// History lists recent executions of a rule
func (h *RuleHandler) History(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceID(w, r)
	if !ok {
		return
	}
	ruleID, ok := uuidParam(w, r, "ruleID")
	if !ok {
		return
	}

	logs, err := h.rules.History(r.Context(), ws, ruleID, intQuery(r, "limit", 50))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, logs)
}

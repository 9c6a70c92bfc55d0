package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

// Workspace represents a tenant workspace
type Workspace struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkspaceRepository defines read access to workspaces
type WorkspaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
}

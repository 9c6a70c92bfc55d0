package service

import (
	"context"
	"fmt"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// ensureWorkspace fails with domain.ErrWorkspaceNotFound for unknown workspaces
func ensureWorkspace(ctx context.Context, repo domain.WorkspaceRepository, workspaceID uuid.UUID) error {
	workspace, err := repo.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

// InventoryItem is a stocked item tracked by a workspace
type InventoryItem struct {
	ID                uuid.UUID `json:"id"`
	WorkspaceID       uuid.UUID `json:"workspace_id"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	IsActive          bool      `json:"is_active"`
}

// IsLowStock is true at or below the threshold, zero included
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// InventoryRepository defines read access to inventory
type InventoryRepository interface {
	// ListLowStock returns active items with quantity <= low_stock_threshold
	ListLowStock(ctx context.Context) ([]InventoryItem, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/careops/internal/domain"
)

// InventoryRepository reads inventory items
type InventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListLowStock returns active items at or below their threshold
func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `
		SELECT id, workspace_id, name, quantity, low_stock_threshold, is_active
		FROM inventory_items
		WHERE is_active = TRUE AND quantity <= low_stock_threshold
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := rows.Scan(&it.ID, &it.WorkspaceID, &it.Name, &it.Quantity, &it.LowStockThreshold, &it.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", err)
	}
	return items, nil
}

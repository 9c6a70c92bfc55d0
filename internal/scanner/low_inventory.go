package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/rs/zerolog/log"
)

// LowInventoryScanner dispatches INVENTORY_LOW for low-stock items that had
// no LOW_INVENTORY alert within the dedup window
type LowInventoryScanner struct {
	inventory  domain.InventoryRepository
	alerts     domain.AlertRepository
	dispatcher Dispatcher
	opts       options
}

func NewLowInventoryScanner(inventory domain.InventoryRepository, alerts domain.AlertRepository, dispatcher Dispatcher, opts ...Option) *LowInventoryScanner {
	return &LowInventoryScanner{
		inventory:  inventory,
		alerts:     alerts,
		dispatcher: dispatcher,
		opts:       buildOptions(opts),
	}
}

func (s *LowInventoryScanner) Name() string { return "low_inventory" }

func (s *LowInventoryScanner) Scan(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{Scanner: s.Name()}

	items, err := s.inventory.ListLowStock(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list low stock items: %w", err)
	}

	since := s.opts.now().Add(-s.opts.window)
	for _, item := range items {
		if !item.IsActive || !item.IsLowStock() {
			continue
		}
		summary.Qualified++

		exists, err := s.alerts.ExistsSince(ctx, item.WorkspaceID, domain.AlertTypeLowInventory, item.Name, since)
		if err != nil {
			summary.Failed++
			log.Error().
				Err(err).
				Str("workspace_id", item.WorkspaceID.String()).
				Str("item_id", item.ID.String()).
				Msg("Failed to check recent low stock alerts")
			continue
		}
		if exists {
			summary.Skipped++
			continue
		}

		s.dispatcher.Dispatch(ctx, item.WorkspaceID, domain.TriggerInventoryLow, domain.NewInventoryContext(item))
		summary.Dispatched++
	}

	logSummary(summary, started)
	return summary, nil
}

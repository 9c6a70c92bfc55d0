package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/rs/zerolog/log"
)

// OverdueFormScanner moves past-due pending submissions to OVERDUE. It
// dispatches nothing.
type OverdueFormScanner struct {
	forms domain.FormSubmissionRepository
	opts  options
}

func NewOverdueFormScanner(forms domain.FormSubmissionRepository, opts ...Option) *OverdueFormScanner {
	return &OverdueFormScanner{forms: forms, opts: buildOptions(opts)}
}

func (s *OverdueFormScanner) Name() string { return "overdue_form" }

func (s *OverdueFormScanner) Scan(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{Scanner: s.Name()}

	now := s.opts.now()
	submissions, err := s.forms.ListOverdue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("failed to list overdue submissions: %w", err)
	}

	for _, sub := range submissions {
		if sub.DueDate == nil || !sub.DueDate.Before(now) {
			continue
		}
		summary.Qualified++

		updated, err := s.forms.MarkOverdue(ctx, sub.ID)
		if err != nil {
			summary.Failed++
			log.Error().Err(err).Str("submission_id", sub.ID.String()).Msg("Failed to mark submission overdue")
			continue
		}
		if !updated {
			// Submitted or already moved since the query ran
			summary.Skipped++
			continue
		}
		summary.Updated++
	}

	logSummary(summary, started)
	return summary, nil
}

package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/rs/zerolog/log"
)

// PendingFormScanner dispatches FORM_PENDING for submissions left pending
// past the configured age
type PendingFormScanner struct {
	forms      domain.FormSubmissionRepository
	dispatcher Dispatcher
	ledger     domain.NotificationLedger
	opts       options
}

// NewPendingFormScanner creates the scanner. ledger may be nil.
func NewPendingFormScanner(forms domain.FormSubmissionRepository, dispatcher Dispatcher, ledger domain.NotificationLedger, opts ...Option) *PendingFormScanner {
	return &PendingFormScanner{
		forms:      forms,
		dispatcher: dispatcher,
		ledger:     ledger,
		opts:       buildOptions(opts),
	}
}

func (s *PendingFormScanner) Name() string { return "pending_form" }

func (s *PendingFormScanner) Scan(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{Scanner: s.Name()}

	cutoff := s.opts.now().Add(-s.opts.window)
	submissions, err := s.forms.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return summary, fmt.Errorf("failed to list pending submissions: %w", err)
	}

	for _, sub := range submissions {
		if sub.Status != domain.FormPending || sub.CreatedAt.After(cutoff) {
			continue
		}
		if !sub.HasBooking() {
			// No booking means no workspace to resolve rules against
			summary.Skipped++
			log.Debug().Str("submission_id", sub.ID.String()).Msg("Skipping pending form without booking")
			continue
		}
		summary.Qualified++

		submission := sub
		key := fmt.Sprintf("form_pending:%s", submission.ID)
		notifyOnce(ctx, s.ledger, s.opts.ledgerTTL, key, func() domain.DispatchReport {
			return s.dispatcher.Dispatch(ctx, submission.WorkspaceID, domain.TriggerFormPending, domain.NewFormContext(submission))
		}, &summary)
	}

	logSummary(summary, started)
	return summary, nil
}

package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
)

// Bookings in these states still expect their appointment
var reminderStatuses = []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}

// BookingReminderScanner dispatches BOOKING_REMINDER for every booking
// starting tomorrow
type BookingReminderScanner struct {
	bookings   domain.BookingRepository
	dispatcher Dispatcher
	ledger     domain.NotificationLedger
	opts       options
}

// NewBookingReminderScanner creates the scanner. ledger may be nil.
func NewBookingReminderScanner(bookings domain.BookingRepository, dispatcher Dispatcher, ledger domain.NotificationLedger, opts ...Option) *BookingReminderScanner {
	return &BookingReminderScanner{
		bookings:   bookings,
		dispatcher: dispatcher,
		ledger:     ledger,
		opts:       buildOptions(opts),
	}
}

func (s *BookingReminderScanner) Name() string { return "booking_reminder" }

// Window returns [tomorrow 00:00, the day after 00:00) in the scanner's zone
func (s *BookingReminderScanner) Window(now time.Time) (time.Time, time.Time) {
	local := now.In(s.opts.loc)
	from := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.opts.loc)
	return from, from.AddDate(0, 0, 1)
}

func (s *BookingReminderScanner) Scan(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{Scanner: s.Name()}

	from, to := s.Window(s.opts.now())
	bookings, err := s.bookings.ListStartingBetween(ctx, from, to, reminderStatuses)
	if err != nil {
		return summary, fmt.Errorf("failed to list bookings: %w", err)
	}

	for _, b := range bookings {
		// The query already filters; keep the window exact regardless
		if b.StartTime.Before(from) || !b.StartTime.Before(to) {
			continue
		}
		summary.Qualified++

		booking := b
		key := fmt.Sprintf("booking_reminder:%s:%d", booking.ID, booking.StartTime.Unix())
		notifyOnce(ctx, s.ledger, s.opts.ledgerTTL, key, func() domain.DispatchReport {
			ectx := domain.NewBookingContext(booking, s.opts.loc)
			return s.dispatcher.Dispatch(ctx, booking.WorkspaceID, domain.TriggerBookingReminder, ectx)
		}, &summary)
	}

	logSummary(summary, started)
	return summary, nil
}

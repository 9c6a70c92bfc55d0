package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
)

// BookingRepository reads bookings with their contact and type
type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListStartingBetween returns bookings across all workspaces with
// from <= start_time < to in one of the given statuses
func (r *BookingRepository) ListStartingBetween(ctx context.Context, from, to time.Time, statuses []domain.BookingStatus) ([]domain.BookingDetail, error) {
	states := make([]string, len(statuses))
	for i, s := range statuses {
		states[i] = string(s)
	}

	query := `
		SELECT b.id, b.workspace_id, b.contact_id, b.booking_type_id, b.start_time, b.status,
		       c.name, COALESCE(c.email, ''), COALESCE(c.phone, ''), bt.name
		FROM bookings b
		INNER JOIN contacts c ON c.id = b.contact_id
		INNER JOIN booking_types bt ON bt.id = b.booking_type_id
		WHERE b.start_time >= $1 AND b.start_time < $2
		  AND b.status = ANY($3)
	`

	rows, err := r.db.Pool.Query(ctx, query, from, to, states)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.BookingDetail
	for rows.Next() {
		var b domain.BookingDetail
		if err := rows.Scan(
			&b.ID,
			&b.WorkspaceID,
			&b.ContactID,
			&b.BookingTypeID,
			&b.StartTime,
			&b.Status,
			&b.ContactName,
			&b.ContactEmail,
			&b.ContactPhone,
			&b.BookingTypeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

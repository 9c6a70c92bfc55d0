package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// Booking is an appointment owned by a workspace
type Booking struct {
	ID            uuid.UUID     `json:"id"`
	WorkspaceID   uuid.UUID     `json:"workspace_id"`
	ContactID     uuid.UUID     `json:"contact_id"`
	BookingTypeID uuid.UUID     `json:"booking_type_id"`
	StartTime     time.Time     `json:"start_time"`
	Status        BookingStatus `json:"status"`
}

// BookingDetail joins a booking with its contact and booking type
type BookingDetail struct {
	Booking
	ContactName     string `json:"contact_name"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	BookingTypeName string `json:"booking_type_name"`
}

// BookingRepository defines read access to bookings
type BookingRepository interface {
	// ListStartingBetween returns bookings across all workspaces with
	// from <= start_time < to and a status in statuses
	ListStartingBetween(ctx context.Context, from, to time.Time, statuses []BookingStatus) ([]BookingDetail, error)
}

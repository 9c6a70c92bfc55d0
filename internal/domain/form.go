package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FormStatus is the lifecycle state of a form submission
type FormStatus string

const (
	FormPending   FormStatus = "PENDING"
	FormCompleted FormStatus = "COMPLETED"
	FormOverdue   FormStatus = "OVERDUE"
)

// FormSubmission is an intake form sent to a contact
type FormSubmission struct {
	ID             uuid.UUID  `json:"id"`
	FormTemplateID uuid.UUID  `json:"form_template_id"`
	BookingID      *uuid.UUID `json:"booking_id,omitempty"`
	ContactID      *uuid.UUID `json:"contact_id,omitempty"`
	Status         FormStatus `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PendingSubmission joins a pending submission with its booking's workspace
// and contact. WorkspaceID is uuid.Nil when the submission has no booking.
type PendingSubmission struct {
	FormSubmission
	WorkspaceID  uuid.UUID `json:"workspace_id"`
	FormName     string    `json:"form_name"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
}

// HasBooking reports whether the submission is attached to a booking
func (s PendingSubmission) HasBooking() bool {
	return s.BookingID != nil && s.WorkspaceID != uuid.Nil
}

// FormSubmissionRepository defines access to form submissions
type FormSubmissionRepository interface {
	// ListPendingCreatedBefore returns PENDING submissions with created_at <= cutoff
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]PendingSubmission, error)
	// ListOverdue returns PENDING submissions whose due date is before now
	ListOverdue(ctx context.Context, now time.Time) ([]FormSubmission, error)
	// MarkOverdue moves a PENDING submission to OVERDUE. It reports false when
	// the submission was no longer PENDING.
	MarkOverdue(ctx context.Context, id uuid.UUID) (bool, error)
}

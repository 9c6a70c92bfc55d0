package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
)

// FormSubmissionRepository handles form submission data access
type FormSubmissionRepository struct {
	db *DB
}

func NewFormSubmissionRepository(db *DB) *FormSubmissionRepository {
	return &FormSubmissionRepository{db: db}
}

// ListPendingCreatedBefore returns PENDING submissions created at or before
// cutoff. Submissions without a booking are returned with a nil workspace.
func (r *FormSubmissionRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.PendingSubmission, error) {
	// The contact comes from the booking, falling back to the submission's own
	query := `
		SELECT fs.id, fs.form_template_id, fs.booking_id, fs.contact_id, fs.status, fs.due_date, fs.created_at,
		       b.workspace_id, ft.name,
		       COALESCE(c.name, ''), COALESCE(c.email, ''), COALESCE(c.phone, '')
		FROM form_submissions fs
		INNER JOIN form_templates ft ON ft.id = fs.form_template_id
		LEFT JOIN bookings b ON b.id = fs.booking_id
		LEFT JOIN contacts c ON c.id = COALESCE(b.contact_id, fs.contact_id)
		WHERE fs.status = 'PENDING' AND fs.created_at <= $1
	`

	rows, err := r.db.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.PendingSubmission
	for rows.Next() {
		var s domain.PendingSubmission
		var workspaceID *uuid.UUID
		if err := rows.Scan(
			&s.ID,
			&s.FormTemplateID,
			&s.BookingID,
			&s.ContactID,
			&s.Status,
			&s.DueDate,
			&s.CreatedAt,
			&workspaceID,
			&s.FormName,
			&s.ContactName,
			&s.ContactEmail,
			&s.ContactPhone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if workspaceID != nil {
			s.WorkspaceID = *workspaceID
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return submissions, nil
}

// ListOverdue returns PENDING submissions whose due date is before now
func (r *FormSubmissionRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.FormSubmission, error) {
	query := `
		SELECT id, form_template_id, booking_id, contact_id, status, due_date, created_at
		FROM form_submissions
		WHERE status = 'PENDING' AND due_date IS NOT NULL AND due_date < $1
	`

	rows, err := r.db.Pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.FormSubmission
	for rows.Next() {
		var s domain.FormSubmission
		if err := rows.Scan(
			&s.ID,
			&s.FormTemplateID,
			&s.BookingID,
			&s.ContactID,
			&s.Status,
			&s.DueDate,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return submissions, nil
}

// MarkOverdue moves a submission from PENDING to OVERDUE. The status guard
// keeps a submission completed in the meantime untouched.
func (r *FormSubmissionRepository) MarkOverdue(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE form_submissions
		SET status = 'OVERDUE'
		WHERE id = $1 AND status = 'PENDING'
	`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark submission overdue: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

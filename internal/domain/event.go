package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrMissingEventContext = errors.New("event context missing for trigger")

// DomainEvent is raised by the surrounding business flows (booking created,
// contact created, form submitted ...) to run a workspace's rules right away.
// The same shape arrives over HTTP and from the event topic.
type DomainEvent struct {
	WorkspaceID uuid.UUID         `json:"workspaceId" validate:"required"`
	Trigger     Trigger           `json:"trigger" validate:"required"`
	Booking     *BookingContext   `json:"booking,omitempty"`
	Form        *FormContext      `json:"form,omitempty"`
	Contact     *ContactContext   `json:"contact,omitempty"`
	Inventory   *InventoryContext `json:"inventory,omitempty"`
}

// Context returns the context variant matching the event's trigger
func (e DomainEvent) Context() (EventContext, error) {
	if !e.Trigger.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrigger, e.Trigger)
	}

	switch e.Trigger {
	case TriggerBookingReminder, TriggerBookingCreated, TriggerBookingCompleted:
		if e.Booking != nil {
			return *e.Booking, nil
		}
	case TriggerFormPending, TriggerFormSubmitted:
		if e.Form != nil {
			return *e.Form, nil
		}
	case TriggerContactCreated:
		if e.Contact != nil {
			return *e.Contact, nil
		}
	case TriggerInventoryLow:
		if e.Inventory != nil {
			return *e.Inventory, nil
		}
	}

	return nil, fmt.Errorf("%w %s", ErrMissingEventContext, e.Trigger)
}

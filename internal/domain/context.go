package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventContext parameterizes templates for one dispatch. Each variant exposes
// only the keys its trigger family provides.
type EventContext interface {
	// Values returns the template substitution map
	Values() map[string]string
	// EmailAddress is the recipient for SEND_EMAIL; empty skips the action
	EmailAddress() string
	// PhoneNumber is the recipient for SEND_SMS; empty skips the action
	PhoneNumber() string
	// LinkTo is the in-product target stored on created alerts
	LinkTo() string
}

// Display formats for booking dates and times
const (
	BookingDateFormat = "Monday, January 2, 2006"
	BookingTimeFormat = "3:04 PM"
)

// BookingContext is built for booking triggers
type BookingContext struct {
	BookingID   uuid.UUID `json:"bookingId,omitempty"`
	ContactName string    `json:"contactName"`
	Email       string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string    `json:"phone,omitempty"`
	BookingType string    `json:"bookingType"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Link        string    `json:"linkTo,omitempty"`
}

// NewBookingContext builds a booking context with date and time rendered in loc
func NewBookingContext(b BookingDetail, loc *time.Location) BookingContext {
	start := b.StartTime.In(loc)
	return BookingContext{
		BookingID:   b.ID,
		ContactName: b.ContactName,
		Email:       b.ContactEmail,
		Phone:       b.ContactPhone,
		BookingType: b.BookingTypeName,
		Date:        start.Format(BookingDateFormat),
		Time:        start.Format(BookingTimeFormat),
		Link:        fmt.Sprintf("/bookings/%s", b.ID),
	}
}

func (c BookingContext) Values() map[string]string {
	return map[string]string{
		"contactName": c.ContactName,
		"email":       c.Email,
		"phone":       c.Phone,
		"bookingType": c.BookingType,
		"date":        c.Date,
		"time":        c.Time,
		"linkTo":      c.Link,
	}
}

func (c BookingContext) EmailAddress() string { return c.Email }
func (c BookingContext) PhoneNumber() string  { return c.Phone }
func (c BookingContext) LinkTo() string       { return c.Link }

// FormContext is built for form triggers
type FormContext struct {
	SubmissionID uuid.UUID `json:"submissionId,omitempty"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string    `json:"phone,omitempty"`
	FormName     string    `json:"formName"`
	Link         string    `json:"linkTo,omitempty"`
}

// NewFormContext builds a form context from a pending submission and its booking contact
func NewFormContext(s PendingSubmission) FormContext {
	return FormContext{
		SubmissionID: s.ID,
		ContactName:  s.ContactName,
		Email:        s.ContactEmail,
		Phone:        s.ContactPhone,
		FormName:     s.FormName,
		Link:         fmt.Sprintf("/forms/submissions/%s", s.ID),
	}
}

func (c FormContext) Values() map[string]string {
	return map[string]string{
		"contactName": c.ContactName,
		"email":       c.Email,
		"phone":       c.Phone,
		"formName":    c.FormName,
		"linkTo":      c.Link,
	}
}

func (c FormContext) EmailAddress() string { return c.Email }
func (c FormContext) PhoneNumber() string  { return c.Phone }
func (c FormContext) LinkTo() string       { return c.Link }

// InventoryContext is built for the low-stock trigger. It carries no
// recipient, so email and SMS rules on it are always skipped.
type InventoryContext struct {
	ItemID    uuid.UUID `json:"itemId,omitempty"`
	ItemName  string    `json:"itemName" validate:"required"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	Link      string    `json:"linkTo,omitempty"`
}

// NewInventoryContext builds an inventory context for item
func NewInventoryContext(item InventoryItem) InventoryContext {
	return InventoryContext{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Quantity:  item.Quantity,
		Threshold: item.LowStockThreshold,
		Link:      "/inventory",
	}
}

func (c InventoryContext) Values() map[string]string {
	return map[string]string{
		"itemName":  c.ItemName,
		"quantity":  strconv.Itoa(c.Quantity),
		"threshold": strconv.Itoa(c.Threshold),
		"linkTo":    c.Link,
	}
}

func (c InventoryContext) EmailAddress() string { return "" }
func (c InventoryContext) PhoneNumber() string  { return "" }
func (c InventoryContext) LinkTo() string       { return c.Link }

// ContactContext is built for contact triggers
type ContactContext struct {
	ContactID   uuid.UUID `json:"contactId,omitempty"`
	ContactName string    `json:"contactName"`
	Email       string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string    `json:"phone,omitempty"`
	Link        string    `json:"linkTo,omitempty"`
}

func (c ContactContext) Values() map[string]string {
	return map[string]string{
		"contactName": c.ContactName,
		"email":       c.Email,
		"phone":       c.Phone,
		"linkTo":      c.Link,
	}
}

func (c ContactContext) EmailAddress() string { return c.Email }
func (c ContactContext) PhoneNumber() string  { return c.Phone }
func (c ContactContext) LinkTo() string       { return c.Link }

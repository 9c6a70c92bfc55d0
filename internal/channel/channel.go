// Package channel defines the delivery contract shared by the email and SMS
// adapters.
package channel

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured    = errors.New("channel not configured")
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// EmailMessage is one outbound email. From falls back to the sender's default.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
	From    string
}

// SMSMessage is one outbound text message
type SMSMessage struct {
	To      string
	Message string
}

// EmailSender delivers email. Send returns an error on any transport failure.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender delivers text messages
type SMSSender interface {
	Send(ctx context.Context, msg SMSMessage) error
}

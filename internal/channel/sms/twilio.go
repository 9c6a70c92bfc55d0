// Package sms delivers text messages through Twilio.
package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/careops/internal/channel"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender implements channel.SMSSender
type TwilioSender struct {
	api        messageCreator
	fromNumber string
}

// NewTwilioSender creates a sender. It returns channel.ErrNotConfigured when
// any credential is missing so callers can run without SMS.
func NewTwilioSender(accountSID, authToken, fromNumber string) (*TwilioSender, error) {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		return nil, fmt.Errorf("twilio: %w", channel.ErrNotConfigured)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSender{api: client.Api, fromNumber: fromNumber}, nil
}

// Send sends one message. Numbers must be in E.164 form.
func (s *TwilioSender) Send(ctx context.Context, msg channel.SMSMessage) error {
	to := strings.TrimSpace(msg.To)
	if !strings.HasPrefix(to, "+") {
		return fmt.Errorf("%w: phone number %q", channel.ErrInvalidRecipient, msg.To)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(msg.Message)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}
	return nil
}

package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/careops/internal/channel"
)

const resendDefaultBaseURL = "https://api.resend.com"

// ResendProvider sends email through the Resend HTTP API
type ResendProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewResendProvider creates a Resend provider. An empty baseURL uses the public API.
func NewResendProvider(apiKey, baseURL string) *ResendProvider {
	if baseURL == "" {
		baseURL = resendDefaultBaseURL
	}
	return &ResendProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider identifier
func (p *ResendProvider) Name() string {
	return "resend"
}

// IsConfigured checks if provider has valid credentials
func (p *ResendProvider) IsConfigured() bool {
	return p.apiKey != ""
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send posts the message to /emails
func (p *ResendProvider) Send(ctx context.Context, msg channel.EmailMessage) error {
	if !p.IsConfigured() {
		return fmt.Errorf("resend: %w", channel.ErrNotConfigured)
	}

	body, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr resendError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend error (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/Rrens/careops/internal/channel"
)

// Provider is one email transport
type Provider interface {
	// Name returns the provider identifier used in configuration
	Name() string

	// IsConfigured checks if provider has usable credentials
	IsConfigured() bool

	Send(ctx context.Context, msg channel.EmailMessage) error
}

// Router selects the configured provider and fills in the sender address.
// It satisfies channel.EmailSender.
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	from            string
	mu              sync.RWMutex
}

// NewRouter creates a router sending through defaultProvider as from
func NewRouter(defaultProvider, from string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
		from:            from,
	}
}

// RegisterProvider registers an email provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Provider returns the active provider
func (r *Router) Provider() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.defaultProvider]
	if !ok {
		return nil, fmt.Errorf("email provider %q: %w", r.defaultProvider, channel.ErrNotConfigured)
	}
	if !p.IsConfigured() {
		return nil, fmt.Errorf("email provider %q missing credentials: %w", r.defaultProvider, channel.ErrNotConfigured)
	}
	return p, nil
}

// Send delivers msg through the active provider
func (r *Router) Send(ctx context.Context, msg channel.EmailMessage) error {
	p, err := r.Provider()
	if err != nil {
		return err
	}

	if err := validateRecipient(msg.To); err != nil {
		return err
	}
	if msg.From == "" {
		msg.From = r.from
	}
	if msg.From == "" {
		return fmt.Errorf("email sender address: %w", channel.ErrNotConfigured)
	}

	return p.Send(ctx, msg)
}

// Package telegram mirrors created alerts into Telegram chats.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/careops/internal/channel"
	"github.com/Rrens/careops/internal/domain"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Telegram allows roughly 30 messages per second per bot
const messagesPerSecond = 25

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier is a realtime.Publisher that posts alerts to the workspace's chat.
// Workspaces without a chat fall back to the default chat, or are ignored
// when there is none.
type Notifier struct {
	sender      messageSender
	defaultChat int64
	chats       map[uuid.UUID]int64
	limiter     *rate.Limiter
}

// NewNotifier creates a notifier. workspaceChats is keyed by workspace ID.
func NewNotifier(token string, defaultChat int64, workspaceChats map[string]int64) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram: %w", channel.ErrNotConfigured)
	}

	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	return newNotifier(b, defaultChat, workspaceChats)
}

func newNotifier(sender messageSender, defaultChat int64, workspaceChats map[string]int64) (*Notifier, error) {
	chats := make(map[uuid.UUID]int64, len(workspaceChats))
	for key, chatID := range workspaceChats {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace id %q in telegram chats: %w", key, err)
		}
		chats[id] = chatID
	}

	return &Notifier{
		sender:      sender,
		defaultChat: defaultChat,
		chats:       chats,
		limiter:     rate.NewLimiter(rate.Limit(messagesPerSecond), messagesPerSecond),
	}, nil
}

func (n *Notifier) chatFor(workspaceID uuid.UUID) int64 {
	if chatID, ok := n.chats[workspaceID]; ok {
		return chatID
	}
	return n.defaultChat
}

// Publish sends the alert as a plain text message
func (n *Notifier) Publish(ctx context.Context, workspaceID uuid.UUID, alert domain.AlertSummary) error {
	chatID := n.chatFor(workspaceID)
	if chatID == 0 {
		return nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit: %w", err)
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   formatAlert(alert),
	}
	if _, err := n.sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send telegram message to chat_id %d: %w", chatID, err)
	}
	return nil
}

func formatAlert(alert domain.AlertSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", alert.Priority, alert.Title)
	if alert.Message != "" {
		b.WriteString("\n")
		b.WriteString(alert.Message)
	}
	return b.String()
}

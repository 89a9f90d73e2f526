package telegram

import (
	"context"
	"fmt"

	"tutorhub/internal/domain/notification"
	"tutorhub/internal/domain/profile"
	domainTelegram "tutorhub/internal/domain/telegram"
)

const markReadPrefix = "read_"

// Channel delivers notifications to profiles that linked a Telegram chat.
type Channel struct {
	client domainTelegram.Client
}

func NewChannel(c domainTelegram.Client) *Channel {
	return &Channel{client: c}
}

func (ch *Channel) Name() string { return "telegram" }

// Deliver sends n with a "Mark as read" button. Profiles without a linked
// chat are skipped.
func (ch *Channel) Deliver(ctx context.Context, to *profile.Profile, n *notification.Notification) error {
	if !to.TelegramChatID.Valid {
		return nil
	}
	msg := domainTelegram.Message{
		ChatID:  to.TelegramChatID.Int64,
		Text:    fmt.Sprintf("%s\n\n%s", n.Title, n.Message),
		Buttons: []domainTelegram.Button{{Text: "Mark as read", Data: markReadPrefix + n.ID}},
	}
	if err := ch.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", to.TelegramChatID.Int64, err)
	}
	return nil
}

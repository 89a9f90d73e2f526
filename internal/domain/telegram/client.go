package telegram

import "context"

// Button is an inline keyboard button; Data comes back in the callback query.
type Button struct {
	Text string
	Data string
}

// Message is an outgoing chat message with an optional single row of buttons.
type Message struct {
	ChatID  int64
	Text    string
	Buttons []Button
}

// Client sends messages to Telegram chats without exposing the bot library.
type Client interface {
	Send(ctx context.Context, m Message) error
}

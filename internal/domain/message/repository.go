package message

import "context"

type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ListBetween returns the messages exchanged by a and b, newest first.
	ListBetween(ctx context.Context, a, b string, p Page) ([]*Message, error)
	// MarkRead marks every unread message from senderID to recipientID as read.
	MarkRead(ctx context.Context, recipientID, senderID string) (int64, error)
	// UnreadBySender counts unread messages for recipientID keyed by sender.
	UnreadBySender(ctx context.Context, recipientID string) (map[string]int, error)
}

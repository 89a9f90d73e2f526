package message

import (
	"database/sql"
	"time"
)

// MaxBodyLength bounds a single chat message.
const MaxBodyLength = 4000

// Message is a direct message between two profiles.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Body        string
	ReadAt      sql.NullTime
	CreatedAt   time.Time
}

// Page selects messages older than Before (zero means newest), at most Limit.
type Page struct {
	Before time.Time
	Limit  int
}

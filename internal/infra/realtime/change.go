package realtime

import (
	"encoding/json"
	"fmt"
)

// Channel is the Postgres NOTIFY channel the row triggers publish to.
const Channel = "row_changes"

// ChangeType mirrors TG_OP of the trigger, plus RESYNC which tells clients
// to refetch after the feed was interrupted.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeResync ChangeType = "RESYNC"
)

// Change is a row-level change pushed by the database.
type Change struct {
	Table     string     `json:"table"`
	Type      ChangeType `json:"type"`
	ID        string     `json:"id,omitempty"`
	TutorID   string     `json:"tutor_id,omitempty"`
	StudentID string     `json:"student_id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	SenderID  string     `json:"sender_id,omitempty"`
}

func ParseChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, fmt.Errorf("invalid change payload: %w", err)
	}
	if c.Table == "" || c.Type == "" {
		return Change{}, fmt.Errorf("change payload missing table or type: %q", payload)
	}
	return c, nil
}

// Audience lists the profiles a change concerns. Nil means everyone.
func (c Change) Audience() []string {
	if c.Type == ChangeResync {
		return nil
	}
	var ids []string
	for _, id := range []string{c.TutorID, c.StudentID, c.UserID, c.SenderID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

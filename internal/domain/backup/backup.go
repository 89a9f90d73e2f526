package backup

import (
	"database/sql"
	"time"
)

type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Log mirrors a row of 'backup_logs'.
type Log struct {
	ID           string
	Trigger      Trigger
	Status       Status
	FilePath     sql.NullString
	SizeBytes    int64
	TablesCount  int
	ErrorMessage sql.NullString
	StartedAt    time.Time
	CompletedAt  sql.NullTime
}

// Tables exported by a backup, in restore order.
var Tables = []string{
	"profiles",
	"students",
	"tutors",
	"tutor_student_relationships",
	"class_logs",
	"notifications",
	"student_notes",
	"content_share_items",
	"subscriptions",
	"messages",
	"backup_logs",
}

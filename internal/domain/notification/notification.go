// internal/domain/notification/notification.go
package notification

import (
	"database/sql"
	"time"
)

// Type categorises a notification for the dashboards.
type Type string

const (
	TypeClassReminder Type = "class_reminder"
	TypeDailySchedule Type = "daily_schedule"
	TypeDailyReport   Type = "daily_report"
	TypeClassChanged  Type = "class_changed"
	TypeBackup        Type = "backup"
)

// Notification mirrors a row of the 'notifications' table.
type Notification struct {
	ID             string
	UserID         string
	Type           Type
	Title          string
	Message        string
	RelatedClassID sql.NullString
	IsRead         bool
	CreatedAt      time.Time
}

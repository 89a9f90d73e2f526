package profile

import (
	"database/sql"
	"time"
)

// Role is the dashboard a profile has access to.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// Profile mirrors a row of the 'profiles' table.
type Profile struct {
	ID             string
	Email          string
	FullName       string
	Role           Role
	TelegramChatID sql.NullInt64 // Set once the user links the Telegram bot
	Timezone       string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func (a Actor) IsTutor() bool { return a.Role == RoleTutor }

func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

// TutorDetails mirrors the 'tutors' table. FullName is read from the profile.
type TutorDetails struct {
	ProfileID       string
	FullName        string
	Subjects        []string
	HourlyRateCents int
	Bio             string
}

// StudentDetails mirrors the 'students' table.
type StudentDetails struct {
	ProfileID   string
	GradeLevel  sql.NullString
	ParentEmail sql.NullString
}

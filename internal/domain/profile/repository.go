package profile

import "context"

// Repository defines the operations for persisting and retrieving profiles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context, role Role) ([]*Profile, error) // Empty role lists every profile
	ListByRole(ctx context.Context, role Role) ([]*Profile, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetTelegramChatID(ctx context.Context, id string, chatID int64) error
	GetByTelegramChatID(ctx context.Context, chatID int64) (*Profile, error)
	// PromoteToAdmin calls the promote_user_to_admin stored procedure.
	PromoteToAdmin(ctx context.Context, id string) error
}

// DirectoryRepository reads and writes the role-specific profile details.
type DirectoryRepository interface {
	GetTutor(ctx context.Context, profileID string) (*TutorDetails, error)
	// ListTutors returns active tutors, filtered by subject when it is not empty.
	ListTutors(ctx context.Context, subject string) ([]*TutorDetails, error)
	UpsertTutor(ctx context.Context, d *TutorDetails) error
	GetStudent(ctx context.Context, profileID string) (*StudentDetails, error)
	UpsertStudent(ctx context.Context, d *StudentDetails) error
}

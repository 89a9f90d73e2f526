package content

import "context"

type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Note, error)
	Delete(ctx context.Context, id string) error
}

type ShareRepository interface {
	Create(ctx context.Context, s *ShareItem) error
	GetByID(ctx context.Context, id string) (*ShareItem, error)
	ListByStudent(ctx context.Context, studentID string) ([]*ShareItem, error)
	ListByTutor(ctx context.Context, tutorID string) ([]*ShareItem, error)
	Delete(ctx context.Context, id string) error
}

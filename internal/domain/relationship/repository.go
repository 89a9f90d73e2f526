package relationship

import "context"

type Repository interface {
	Create(ctx context.Context, r *Relationship) error
	GetByID(ctx context.Context, id string) (*Relationship, error)
	GetByPair(ctx context.Context, tutorID, studentID string) (*Relationship, error)
	SetActive(ctx context.Context, id string, active bool) error
	ListByTutor(ctx context.Context, tutorID string) ([]*Relationship, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Relationship, error)
}

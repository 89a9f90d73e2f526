package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorhub/internal/domain/relationship"
)

var ErrRelationshipNotFound = errors.New("tutor-student relationship not found")
var ErrDuplicateRelationship = errors.New("tutor-student relationship already exists")

const relationshipColumns = `id, tutor_id, student_id, active, created_at, updated_at`

type PostgresRelationshipRepository struct {
	db *sql.DB
}

func NewPostgresRelationshipRepository(db *sql.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

func scanRelationship(row interface{ Scan(...any) error }) (*relationship.Relationship, error) {
	rel := &relationship.Relationship{}
	err := row.Scan(&rel.ID, &rel.TutorID, &rel.StudentID, &rel.Active, &rel.CreatedAt, &rel.UpdatedAt)
	return rel, err
}

func (r *PostgresRelationshipRepository) Create(ctx context.Context, rel *relationship.Relationship) error {
	query := `INSERT INTO tutor_student_relationships (id, tutor_id, student_id, active)
               VALUES ($1, $2, $3, $4)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rel.ID, rel.TutorID, rel.StudentID, rel.Active).Scan(&rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "tutor_student_pair_unique") {
			return ErrDuplicateRelationship
		}
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error creating relationship: %w", err)
	}
	return nil
}

func (r *PostgresRelationshipRepository) GetByID(ctx context.Context, id string) (*relationship.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM tutor_student_relationships WHERE id = $1`
	rel, err := scanRelationship(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("error getting relationship by ID: %w", err)
	}
	return rel, nil
}

func (r *PostgresRelationshipRepository) GetByPair(ctx context.Context, tutorID, studentID string) (*relationship.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM tutor_student_relationships WHERE tutor_id = $1 AND student_id = $2`
	rel, err := scanRelationship(r.db.QueryRowContext(ctx, query, tutorID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRelationshipNotFound
		}
		return nil, fmt.Errorf("error getting relationship by pair: %w", err)
	}
	return rel, nil
}

func (r *PostgresRelationshipRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tutor_student_relationships SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating relationship: %w", err)
	}
	return rowsAffectedOr(res, ErrRelationshipNotFound)
}

func (r *PostgresRelationshipRepository) ListByTutor(ctx context.Context, tutorID string) ([]*relationship.Relationship, error) {
	return r.list(ctx, `SELECT `+relationshipColumns+` FROM tutor_student_relationships WHERE tutor_id = $1 ORDER BY created_at`, tutorID)
}

func (r *PostgresRelationshipRepository) ListByStudent(ctx context.Context, studentID string) ([]*relationship.Relationship, error) {
	return r.list(ctx, `SELECT `+relationshipColumns+` FROM tutor_student_relationships WHERE student_id = $1 ORDER BY created_at`, studentID)
}

func (r *PostgresRelationshipRepository) list(ctx context.Context, query string, arg string) ([]*relationship.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error listing relationships: %w", err)
	}
	defer rows.Close()

	rels := make([]*relationship.Relationship, 0)
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning relationship: %w", err)
		}
		rels = append(rels, rel)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relationships: %w", err)
	}
	return rels, nil
}

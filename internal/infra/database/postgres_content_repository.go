package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorhub/internal/domain/content"
)

var ErrNoteNotFound = errors.New("student note not found")
var ErrShareItemNotFound = errors.New("shared content not found")

type PostgresNoteRepository struct {
	db *sql.DB
}

func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{db: db}
}

func (r *PostgresNoteRepository) Create(ctx context.Context, n *content.Note) error {
	query := `INSERT INTO student_notes (id, tutor_id, student_id, content)
               VALUES ($1, $2, $3, $4)
               RETURNING created_at, updated_at`
	if err := r.db.QueryRowContext(ctx, query, n.ID, n.TutorID, n.StudentID, n.Content).Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
		return fmt.Errorf("error creating student note: %w", err)
	}
	return nil
}

func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*content.Note, error) {
	query := `SELECT id, tutor_id, student_id, content, created_at, updated_at FROM student_notes WHERE id = $1`
	n := &content.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.TutorID, &n.StudentID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("error getting student note: %w", err)
	}
	return n, nil
}

func (r *PostgresNoteRepository) ListByStudent(ctx context.Context, studentID string) ([]*content.Note, error) {
	query := `SELECT id, tutor_id, student_id, content, created_at, updated_at
               FROM student_notes WHERE student_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*content.Note, 0)
	for rows.Next() {
		n := &content.Note{}
		if err := rows.Scan(&n.ID, &n.TutorID, &n.StudentID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student notes: %w", err)
	}
	return notes, nil
}

func (r *PostgresNoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student note: %w", err)
	}
	return rowsAffectedOr(res, ErrNoteNotFound)
}

type PostgresShareRepository struct {
	db *sql.DB
}

func NewPostgresShareRepository(db *sql.DB) *PostgresShareRepository {
	return &PostgresShareRepository{db: db}
}

const shareColumns = `id, tutor_id, student_id, title, url, description, created_at`

func (r *PostgresShareRepository) Create(ctx context.Context, s *content.ShareItem) error {
	query := `INSERT INTO content_share_items (id, tutor_id, student_id, title, url, description)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, s.ID, s.TutorID, s.StudentID, s.Title, s.URL, s.Description).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("error creating shared content: %w", err)
	}
	return nil
}

func (r *PostgresShareRepository) GetByID(ctx context.Context, id string) (*content.ShareItem, error) {
	s := &content.ShareItem{}
	err := r.db.QueryRowContext(ctx, `SELECT `+shareColumns+` FROM content_share_items WHERE id = $1`, id).
		Scan(&s.ID, &s.TutorID, &s.StudentID, &s.Title, &s.URL, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareItemNotFound
		}
		return nil, fmt.Errorf("error getting shared content: %w", err)
	}
	return s, nil
}

func (r *PostgresShareRepository) ListByStudent(ctx context.Context, studentID string) ([]*content.ShareItem, error) {
	return r.list(ctx, `SELECT `+shareColumns+` FROM content_share_items WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
}

func (r *PostgresShareRepository) ListByTutor(ctx context.Context, tutorID string) ([]*content.ShareItem, error) {
	return r.list(ctx, `SELECT `+shareColumns+` FROM content_share_items WHERE tutor_id = $1 ORDER BY created_at DESC`, tutorID)
}

func (r *PostgresShareRepository) list(ctx context.Context, query, arg string) ([]*content.ShareItem, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error listing shared content: %w", err)
	}
	defer rows.Close()

	items := make([]*content.ShareItem, 0)
	for rows.Next() {
		s := &content.ShareItem{}
		if err := rows.Scan(&s.ID, &s.TutorID, &s.StudentID, &s.Title, &s.URL, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning shared content: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared content: %w", err)
	}
	return items, nil
}

func (r *PostgresShareRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_share_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting shared content: %w", err)
	}
	return rowsAffectedOr(res, ErrShareItemNotFound)
}

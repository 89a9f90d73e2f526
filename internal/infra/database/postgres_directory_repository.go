package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorhub/internal/domain/profile"

	"github.com/lib/pq"
)

var ErrTutorDetailsNotFound = errors.New("tutor details not found")
var ErrStudentDetailsNotFound = errors.New("student details not found")

// PostgresDirectoryRepository stores the role-specific rows in 'tutors' and 'students'.
type PostgresDirectoryRepository struct {
	db *sql.DB
}

func NewPostgresDirectoryRepository(db *sql.DB) *PostgresDirectoryRepository {
	return &PostgresDirectoryRepository{db: db}
}

const tutorSelect = `SELECT t.profile_id, p.full_name, t.subjects, t.hourly_rate_cents, t.bio
               FROM tutors t JOIN profiles p ON p.id = t.profile_id`

func scanTutor(row interface{ Scan(...any) error }) (*profile.TutorDetails, error) {
	d := &profile.TutorDetails{}
	err := row.Scan(&d.ProfileID, &d.FullName, pq.Array(&d.Subjects), &d.HourlyRateCents, &d.Bio)
	return d, err
}

func (r *PostgresDirectoryRepository) GetTutor(ctx context.Context, profileID string) (*profile.TutorDetails, error) {
	d, err := scanTutor(r.db.QueryRowContext(ctx, tutorSelect+` WHERE t.profile_id = $1`, profileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTutorDetailsNotFound
		}
		return nil, fmt.Errorf("error getting tutor details: %w", err)
	}
	return d, nil
}

func (r *PostgresDirectoryRepository) ListTutors(ctx context.Context, subject string) ([]*profile.TutorDetails, error) {
	query := tutorSelect + ` WHERE p.active AND p.role = 'tutor'`
	var args []any
	if subject != "" {
		query += ` AND EXISTS (SELECT 1 FROM unnest(t.subjects) s WHERE lower(s) = lower($1))`
		args = append(args, subject)
	}
	query += ` ORDER BY p.full_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing tutors: %w", err)
	}
	defer rows.Close()

	tutors := make([]*profile.TutorDetails, 0)
	for rows.Next() {
		d, err := scanTutor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning tutor: %w", err)
		}
		tutors = append(tutors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tutors: %w", err)
	}
	return tutors, nil
}

func (r *PostgresDirectoryRepository) UpsertTutor(ctx context.Context, d *profile.TutorDetails) error {
	query := `INSERT INTO tutors (profile_id, subjects, hourly_rate_cents, bio)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (profile_id) DO UPDATE
               SET subjects = EXCLUDED.subjects, hourly_rate_cents = EXCLUDED.hourly_rate_cents, bio = EXCLUDED.bio`
	if _, err := r.db.ExecContext(ctx, query, d.ProfileID, pq.Array(d.Subjects), d.HourlyRateCents, d.Bio); err != nil {
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error saving tutor details: %w", err)
	}
	return nil
}

func (r *PostgresDirectoryRepository) GetStudent(ctx context.Context, profileID string) (*profile.StudentDetails, error) {
	d := &profile.StudentDetails{}
	err := r.db.QueryRowContext(ctx,
		`SELECT profile_id, grade_level, parent_email FROM students WHERE profile_id = $1`, profileID,
	).Scan(&d.ProfileID, &d.GradeLevel, &d.ParentEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentDetailsNotFound
		}
		return nil, fmt.Errorf("error getting student details: %w", err)
	}
	return d, nil
}

func (r *PostgresDirectoryRepository) UpsertStudent(ctx context.Context, d *profile.StudentDetails) error {
	query := `INSERT INTO students (profile_id, grade_level, parent_email)
               VALUES ($1, $2, $3)
               ON CONFLICT (profile_id) DO UPDATE
               SET grade_level = EXCLUDED.grade_level, parent_email = EXCLUDED.parent_email`
	if _, err := r.db.ExecContext(ctx, query, d.ProfileID, d.GradeLevel, d.ParentEmail); err != nil {
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error saving student details: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutorhub/internal/domain/class"
)

var ErrClassNotFound = errors.New("class not found")

const classColumns = `id, tutor_id, student_id, title, subject, start_time, end_time, status, notes, reminder_sent, created_at, updated_at`

type PostgresClassRepository struct {
	db *sql.DB
}

func NewPostgresClassRepository(db *sql.DB) *PostgresClassRepository {
	return &PostgresClassRepository{db: db}
}

func scanClass(row interface{ Scan(...any) error }) (*class.Event, error) {
	e := &class.Event{}
	err := row.Scan(&e.ID, &e.TutorID, &e.StudentID, &e.Title, &e.Subject, &e.StartTime, &e.EndTime,
		&e.Status, &e.Notes, &e.ReminderSent, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func scanClasses(rows *sql.Rows) ([]*class.Event, error) {
	events := make([]*class.Event, 0)
	for rows.Next() {
		e, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning class row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating class rows: %w", err)
	}
	return events, nil
}

func (r *PostgresClassRepository) Create(ctx context.Context, e *class.Event) error {
	query := `INSERT INTO class_logs (id, tutor_id, student_id, title, subject, start_time, end_time, status, notes, reminder_sent)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.TutorID, e.StudentID, e.Title, e.Subject, e.StartTime, e.EndTime,
		e.Status, e.Notes, e.ReminderSent).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

func (r *PostgresClassRepository) GetByID(ctx context.Context, id string) (*class.Event, error) {
	query := `SELECT ` + classColumns + ` FROM class_logs WHERE id = $1`
	e, err := scanClass(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("error getting class by ID: %w", err)
	}
	return e, nil
}

func (r *PostgresClassRepository) Update(ctx context.Context, e *class.Event) error {
	query := `UPDATE class_logs
               SET student_id = $1, title = $2, subject = $3, start_time = $4, end_time = $5, status = $6,
                   notes = $7, reminder_sent = $8, updated_at = NOW()
               WHERE id = $9
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, e.StudentID, e.Title, e.Subject, e.StartTime, e.EndTime, e.Status,
		e.Notes, e.ReminderSent, e.ID).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrClassNotFound
		}
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error updating class: %w", err)
	}
	return nil
}

func (r *PostgresClassRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM class_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	return rowsAffectedOr(res, ErrClassNotFound)
}

func (r *PostgresClassRepository) List(ctx context.Context, f class.Filter) ([]*class.Event, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.TutorID != "" {
		add("tutor_id = $%d", f.TutorID)
	}
	if f.StudentID != "" {
		add("student_id = $%d", f.StudentID)
	}
	if !f.From.IsZero() {
		add("start_time >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("start_time < $%d", f.To)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}

	query := `SELECT ` + classColumns + ` FROM class_logs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()
	return scanClasses(rows)
}

func (r *PostgresClassRepository) HasOverlap(ctx context.Context, tutorID string, start, end time.Time, excludeID string) (bool, error) {
	query := `SELECT EXISTS (
                   SELECT 1 FROM class_logs
                   WHERE tutor_id = $1 AND status = 'scheduled'
                     AND start_time < $3 AND end_time > $2
                     AND ($4 = '' OR id::text <> $4)
               )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tutorID, start, end, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking class overlap: %w", err)
	}
	return exists, nil
}

func (r *PostgresClassRepository) ClaimUpcoming(ctx context.Context, from, to time.Time) ([]*class.Event, error) {
	query := `UPDATE class_logs
               SET reminder_sent = TRUE, updated_at = NOW()
               WHERE status = 'scheduled' AND reminder_sent = FALSE
                 AND start_time >= $1 AND start_time <= $2
               RETURNING ` + classColumns
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error claiming upcoming classes: %w", err)
	}
	defer rows.Close()
	return scanClasses(rows)
}

func (r *PostgresClassRepository) CountByStatus(ctx context.Context, from, to time.Time) (class.Counts, error) {
	query := `SELECT
                   COUNT(*) FILTER (WHERE status = 'scheduled'),
                   COUNT(*) FILTER (WHERE status = 'completed'),
                   COUNT(*) FILTER (WHERE status = 'cancelled')
               FROM class_logs
               WHERE start_time >= $1 AND start_time < $2`
	var c class.Counts
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&c.Scheduled, &c.Completed, &c.Cancelled); err != nil {
		return class.Counts{}, fmt.Errorf("error counting classes: %w", err)
	}
	return c, nil
}

func (r *PostgresClassRepository) CountForTutor(ctx context.Context, tutorID string, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM class_logs
               WHERE tutor_id = $1 AND status <> 'cancelled' AND start_time >= $2 AND start_time < $3`
	var n int
	if err := r.db.QueryRowContext(ctx, query, tutorID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting tutor classes: %w", err)
	}
	return n, nil
}

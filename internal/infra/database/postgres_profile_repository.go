package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorhub/internal/domain/profile"
)

var ErrProfileNotFound = errors.New("profile not found")
var ErrDuplicateTelegramChat = errors.New("telegram chat is already linked to another profile")

const profileColumns = `id, email, full_name, role, telegram_chat_id, timezone, active, created_at, updated_at`

type PostgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func scanProfile(row interface{ Scan(...any) error }) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.TelegramChatID, &p.Timezone, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error getting profile by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE telegram_chat_id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error getting profile by telegram chat: %w", err)
	}
	return p, nil
}

func (r *PostgresProfileRepository) List(ctx context.Context, role profile.Role) ([]*profile.Profile, error) {
	if role != "" {
		return r.ListByRole(ctx, role)
	}
	return r.queryProfiles(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY full_name`)
}

func (r *PostgresProfileRepository) ListByRole(ctx context.Context, role profile.Role) ([]*profile.Profile, error) {
	return r.queryProfiles(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY full_name`, role)
}

func (r *PostgresProfileRepository) queryProfiles(ctx context.Context, query string, args ...any) ([]*profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

func (r *PostgresProfileRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating profile active flag: %w", err)
	}
	return rowsAffectedOr(res, ErrProfileNotFound)
}

func (r *PostgresProfileRepository) SetTelegramChatID(ctx context.Context, id string, chatID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET telegram_chat_id = $1, updated_at = NOW() WHERE id = $2`, chatID, id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateTelegramChat
		}
		return fmt.Errorf("error linking telegram chat: %w", err)
	}
	return rowsAffectedOr(res, ErrProfileNotFound)
}

func (r *PostgresProfileRepository) PromoteToAdmin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `SELECT promote_user_to_admin($1)`, id)
	if err != nil {
		if code, _ := pqCode(err); code == pqNoDataFound {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error promoting profile to admin: %w", err)
	}
	return nil
}

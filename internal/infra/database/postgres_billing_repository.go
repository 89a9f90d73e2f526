package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutorhub/internal/domain/billing"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type PostgresBillingRepository struct {
	db *sql.DB
}

func NewPostgresBillingRepository(db *sql.DB) *PostgresBillingRepository {
	return &PostgresBillingRepository{db: db}
}

func (r *PostgresBillingRepository) GetLatestByTutor(ctx context.Context, tutorID string) (*billing.Subscription, error) {
	query := `SELECT id, tutor_id, plan_id, status, current_period_end, created_at
               FROM subscriptions WHERE tutor_id = $1
               ORDER BY created_at DESC LIMIT 1`
	s := &billing.Subscription{}
	err := r.db.QueryRowContext(ctx, query, tutorID).Scan(&s.ID, &s.TutorID, &s.PlanID, &s.Status, &s.CurrentPeriodEnd, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("error getting subscription: %w", err)
	}
	return s, nil
}

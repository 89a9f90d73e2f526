package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain/billing"
	"tutorhub/internal/domain/class"
	"tutorhub/internal/domain/profile"
	idb "tutorhub/internal/infra/database"
)

// SubscriptionView is what the tutor dashboard shows about billing.
type SubscriptionView struct {
	Subscription *billing.Subscription `json:"subscription"`
	Plan         *billing.Plan         `json:"plan"`
	Label        string                `json:"label"`
	ClassQuota   int                   `json:"class_quota"`
	ClassesUsed  int                   `json:"classes_used"`
}

type BillingService struct {
	repo      billing.Repository
	classRepo class.Repository
	plans     []billing.Plan
	now       func() time.Time
}

func NewBillingService(repo billing.Repository, cr class.Repository, plans []billing.Plan) *BillingService {
	return &BillingService{repo: repo, classRepo: cr, plans: plans, now: time.Now}
}

func (s *BillingService) ListPlans() []billing.Plan {
	return s.plans
}

func (s *BillingService) plan(id billing.PlanID) *billing.Plan {
	for i := range s.plans {
		if s.plans[i].ID == id {
			return &s.plans[i]
		}
	}
	return nil
}

func (s *BillingService) latest(ctx context.Context, tutorID string) (*billing.Subscription, error) {
	sub, err := s.repo.GetLatestByTutor(ctx, tutorID)
	if errors.Is(err, idb.ErrSubscriptionNotFound) {
		return nil, nil
	}
	return sub, err
}

// quotaFor is the monthly class quota granted by sub at now; 0 means unlimited.
func (s *BillingService) quotaFor(sub *billing.Subscription, now time.Time) int {
	if !sub.Live(now) {
		return billing.FreeClassQuota
	}
	if p := s.plan(sub.PlanID); p != nil {
		return p.ClassQuota
	}
	return billing.FreeClassQuota
}

func monthRange(at time.Time) (time.Time, time.Time) {
	at = at.UTC()
	start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// GetSubscription returns the billing state of a tutor. Tutors see their own,
// admins anybody's.
func (s *BillingService) GetSubscription(ctx context.Context, actor profile.Actor, tutorID string) (*SubscriptionView, error) {
	if tutorID == "" {
		tutorID = actor.ID
	}
	if !canWrite(actor, tutorID) {
		return nil, ErrForbidden
	}
	sub, err := s.latest(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	now := s.now()
	from, to := monthRange(now)
	used, err := s.classRepo.CountForTutor(ctx, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count classes: %w", err)
	}

	view := &SubscriptionView{
		Subscription: sub,
		Label:        billing.Label(sub, s.plans, now),
		ClassQuota:   s.quotaFor(sub, now),
		ClassesUsed:  used,
	}
	if sub != nil {
		view.Plan = s.plan(sub.PlanID)
	}
	return view, nil
}

// CanSchedule reports whether the tutor's plan leaves room for one more class
// in the calendar month of at.
func (s *BillingService) CanSchedule(ctx context.Context, tutorID string, at time.Time) (bool, error) {
	sub, err := s.latest(ctx, tutorID)
	if err != nil {
		return false, err
	}
	quota := s.quotaFor(sub, s.now())
	if quota == 0 {
		return true, nil
	}
	from, to := monthRange(at)
	used, err := s.classRepo.CountForTutor(ctx, tutorID, from, to)
	if err != nil {
		return false, err
	}
	return used < quota, nil
}

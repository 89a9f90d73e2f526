package billing

import (
	"fmt"
	"time"
)

type PlanID string

const (
	PlanBasic    PlanID = "basic"
	PlanStandard PlanID = "standard"
	PlanPremium  PlanID = "premium"
)

// FreeClassQuota applies to tutors without a live subscription.
const FreeClassQuota = 5

// Plan is a product configured at the payment provider. PriceID is the
// provider's price identifier and comes from configuration.
type Plan struct {
	ID                PlanID `json:"id"`
	Name              string `json:"name"`
	PriceID           string `json:"price_id"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
	ClassQuota        int    `json:"class_quota"` // 0 means unlimited
}

// Catalog builds the plan list from provider price ids keyed by plan.
func Catalog(priceIDs map[PlanID]string) []Plan {
	return []Plan{
		{ID: PlanBasic, Name: "Basic", PriceID: priceIDs[PlanBasic], MonthlyPriceCents: 1900, ClassQuota: 20},
		{ID: PlanStandard, Name: "Standard", PriceID: priceIDs[PlanStandard], MonthlyPriceCents: 3900, ClassQuota: 60},
		{ID: PlanPremium, Name: "Premium", PriceID: priceIDs[PlanPremium], MonthlyPriceCents: 7900, ClassQuota: 0},
	}
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription mirrors a row of 'subscriptions'.
type Subscription struct {
	ID               string             `json:"id"`
	TutorID          string             `json:"tutor_id"`
	PlanID           PlanID             `json:"plan_id"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd time.Time          `json:"current_period_end"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Live reports whether the subscription grants its plan's benefits at now.
func (s *Subscription) Live(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue:
		return now.Before(s.CurrentPeriodEnd)
	}
	return false
}

var statusText = map[SubscriptionStatus]string{
	SubscriptionActive:   "active",
	SubscriptionTrialing: "trialing",
	SubscriptionPastDue:  "past due",
	SubscriptionCanceled: "canceled",
}

// Label is the text shown on the tutor dashboard for a subscription:
// "<Plan> (<status>)", or "Free" without one. A subscription whose paid
// period ended at now reads "(expired)" whatever its stored status.
func Label(sub *Subscription, plans []Plan, now time.Time) string {
	if sub == nil {
		return "Free"
	}
	name := ""
	for _, p := range plans {
		if p.ID == sub.PlanID {
			name = p.Name
			break
		}
	}
	if name == "" {
		return "Unknown plan"
	}
	status, ok := statusText[sub.Status]
	if !ok {
		status = string(sub.Status)
	}
	if sub.Status != SubscriptionCanceled && !sub.Live(now) {
		status = "expired"
	}
	return fmt.Sprintf("%s (%s)", name, status)
}

package model

import "time"

// Subscription statuses.
const (
	SubscriptionActive       = "active"
	SubscriptionCanceled     = "canceled"
	SubscriptionLimitReached = "limit_reached"
	SubscriptionExpired      = "expired"
)

// Subscription is the caller's plan and report quota for the current period.
type Subscription struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"user_id"`
	PlanID             string    `db:"plan_id" json:"plan_id"`
	Status             string    `db:"status" json:"status"`
	ReportsLimit       int       `db:"reports_limit" json:"reports_limit"`
	ReportsUsed        int       `db:"reports_used" json:"reports_used"`
	CurrentPeriodStart time.Time `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time `db:"current_period_end" json:"current_period_end"`
}

// ReportsRemaining never goes negative, even when concurrent saves pushed usage past the limit.
func (s *Subscription) ReportsRemaining() int {
	if s.ReportsUsed >= s.ReportsLimit {
		return 0
	}
	return s.ReportsLimit - s.ReportsUsed
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}

func (s *Subscription) CanCreateReports() bool {
	return s.IsActive() && s.ReportsUsed < s.ReportsLimit
}

// UsageCounter is what the atomic increment returns.
type UsageCounter struct {
	PlanID       string `json:"plan_id"`
	ReportsLimit int    `json:"reports_limit"`
	ReportsUsed  int    `json:"reports_used"`
	Status       string `json:"status"`
}

// Plan is a catalogue entry.
type Plan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ReportsLimit int    `json:"reports_limit"`
	PriceEUR     int    `json:"price_eur"`
}

const FreePlanID = "free"

var plans = []Plan{
	{ID: FreePlanID, Name: "Plan Gratuito", ReportsLimit: 10, PriceEUR: 0},
	{ID: "profesional", Name: "Plan Profesional", ReportsLimit: 100, PriceEUR: 29},
	{ID: "clinica", Name: "Plan Clínica", ReportsLimit: 500, PriceEUR: 79},
	{ID: "enterprise", Name: "Plan Enterprise", ReportsLimit: 2000, PriceEUR: 199},
}

// Plans returns the plan catalogue in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a catalogue entry.
func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

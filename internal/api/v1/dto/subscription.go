package dto

import "time"

type SubscriptionResponseDTO struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	PlanID             string    `json:"plan_id"`
	Status             string    `json:"status"`
	ReportsLimit       int       `json:"reports_limit"`
	ReportsUsed        int       `json:"reports_used"`
	ReportsRemaining   int       `json:"reports_remaining"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	IsActive           bool      `json:"is_active"`
	CanCreateReports   bool      `json:"can_create_reports"`
}

type SubscriptionStatusResponse struct {
	Success      bool                    `json:"success"`
	Subscription SubscriptionResponseDTO `json:"subscription"`
}

type RenewSubscriptionResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	NewPeriodEnd time.Time `json:"new_period_end"`
}

// SubscriptionCheckoutRequest is used for initiating a Stripe Checkout session.
type SubscriptionCheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required,oneof=profesional clinica enterprise"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type LinkGoogleRequest struct {
	RefreshToken string `json:"refresh_token" validate:"notblank"`
}

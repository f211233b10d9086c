package dto

// ErrorResponse is the single error envelope every endpoint returns.
type ErrorResponse struct {
	Error        string                `json:"error"`
	Message      string                `json:"message,omitempty"`
	Details      string                `json:"details,omitempty"`
	Subscription *QuotaSubscriptionDTO `json:"subscription,omitempty"`
}

// QuotaSubscriptionDTO is attached to "Report limit reached" responses.
type QuotaSubscriptionDTO struct {
	PlanID           string `json:"plan_id"`
	ReportsLimit     int    `json:"reports_limit"`
	ReportsUsed      int    `json:"reports_used"`
	ReportsRemaining int    `json:"reports_remaining"`
}

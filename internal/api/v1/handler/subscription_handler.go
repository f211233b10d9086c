package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"inforia/internal/api/v1/dto"
	"inforia/internal/middleware"
	"inforia/internal/model"
	"inforia/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Stripe events are a few KB.
const maxWebhookBytes = 64 << 10

// SubscriptionHandler handles subscription, plan and billing endpoints.
type SubscriptionHandler struct {
	stripeSvc *service.StripeService
	subSvc    service.SubscriptionService
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(stripeSvc *service.StripeService, subSvc service.SubscriptionService, v *validator.Validate, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{stripeSvc: stripeSvc, subSvc: subSvc, validate: v, logger: logger}
}

// RegisterRoutes registers the subscription endpoints.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/subscription", allowMethod(http.MethodGet, authMiddleware(http.HandlerFunc(h.Status))))
	mux.Handle("/subscription/renew", allowMethod(http.MethodPost, authMiddleware(http.HandlerFunc(h.Renew))))
	mux.Handle("/subscription/checkout", allowMethod(http.MethodPost, authMiddleware(http.HandlerFunc(h.Checkout))))
	mux.Handle("/plans", allowMethod(http.MethodGet, http.HandlerFunc(h.Plans)))
	mux.Handle("/stripe/webhook", allowMethod(http.MethodPost, http.HandlerFunc(h.Webhook)))
}

// Status godoc
// @Summary Get the caller's subscription
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionStatusResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Subscription not found"
// @Router /subscription [get]
func (h *SubscriptionHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	sub, err := h.subSvc.GetSubscription(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionStatusResponse{
		Success:      true,
		Subscription: toSubscriptionDTO(sub),
	})
}

// Renew godoc
// @Summary Start a new billing period
// @Description Resets usage to zero and extends the period by one month. Canceled subscriptions cannot be renewed.
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.RenewSubscriptionResponse
// @Failure 403 {object} dto.ErrorResponse "Subscription canceled"
// @Failure 404 {object} dto.ErrorResponse "Subscription not found"
// @Router /subscription/renew [post]
func (h *SubscriptionHandler) Renew(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	sub, err := h.subSvc.RenewSubscription(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RenewSubscriptionResponse{
		Success:      true,
		Message:      "Subscription renewed successfully",
		NewPeriodEnd: sub.CurrentPeriodEnd,
	})
}

// Plans godoc
// @Summary List the plan catalogue
// @Tags subscriptions
// @Produce json
// @Success 200 {array} model.Plan
// @Router /plans [get]
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Plans())
}

// Checkout godoc
// @Summary Initiate a Stripe Checkout session for plan upgrade
// @Description Creates a Stripe Checkout session and returns its URL.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.SubscriptionCheckoutRequest true "Subscription checkout request"
// @Success 200 {object} dto.CheckoutResponse "URL of the Stripe Checkout session"
// @Failure 400 {object} dto.ErrorResponse "invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "unauthorized"
// @Failure 500 {object} dto.ErrorResponse "failed to create checkout session"
// @Router /subscription/checkout [post]
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	var req dto.SubscriptionCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeServiceError(w, r, service.ErrUnknownPlan)
		return
	}

	url, err := h.stripeSvc.CreateCheckoutSession(r.Context(), claims.Subject, claims.Email, req.PlanID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckoutResponse{URL: url})
}

// Webhook receives Stripe events. It is authenticated by the Stripe-Signature header, not by a user token.
func (h *SubscriptionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		writeError(w, http.StatusBadRequest, "Invalid webhook", "")
		return
	}
	if err := h.stripeSvc.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func toSubscriptionDTO(s *model.Subscription) dto.SubscriptionResponseDTO {
	return dto.SubscriptionResponseDTO{
		ID:                 s.ID,
		UserID:             s.UserID,
		PlanID:             s.PlanID,
		Status:             s.Status,
		ReportsLimit:       s.ReportsLimit,
		ReportsUsed:        s.ReportsUsed,
		ReportsRemaining:   s.ReportsRemaining(),
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		IsActive:           s.IsActive(),
		CanCreateReports:   s.CanCreateReports(),
	}
}

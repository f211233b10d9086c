package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inforia/internal/config"
	"inforia/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrInvalidWebhook covers bad signatures and undecodable event payloads.
var ErrInvalidWebhook = errors.New("invalid stripe webhook")

// StripeService sells paid plans through Stripe Checkout and applies the resulting events.
type StripeService struct {
	cfg    *config.Config
	subSvc SubscriptionService
	logger zerolog.Logger
}

// NewStripeService initializes Stripe key and returns service with a scoped logger
func NewStripeService(cfg *config.Config, subSvc SubscriptionService, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, subSvc: subSvc, logger: lg}
}

// CreateCheckoutSession returns the hosted checkout URL for a paid plan.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, userID, email, planID string) (string, error) {
	plan, ok := model.PlanByID(planID)
	if !ok || plan.ID == model.FreePlanID {
		return "", ErrUnknownPlan
	}
	priceID := s.cfg.StripePriceID(plan.ID)
	if s.cfg.StripeSecretKey == "" || priceID == "" {
		return "", ErrNotConfigured
	}

	metadata := map[string]string{"user_id": userID, "plan_id": plan.ID}
	params := &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(priceID), Quantity: stripe.Int64(1)}},
		Mode:       stripe.String(stripe.CheckoutSessionModeSubscription),
		SuccessURL: stripe.String(s.cfg.StripeReturnURL + "?status=success"),
		CancelURL:  stripe.String(s.cfg.StripeReturnURL + "?status=cancel"),
		Metadata:   metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("plan_id", plan.ID).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleEvent verifies and applies a webhook delivery. Unhandled event types are acknowledged and ignored.
func (s *StripeService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	if s.cfg.StripeWebhookSecret == "" {
		s.logger.Error().Msg("Stripe webhook received but STRIPE_WEBHOOK_SECRET is not set")
		return ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	s.logger.Info().Str("event_type", string(event.Type)).Str("event_id", event.ID).Msg("Stripe webhook received")

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return fmt.Errorf("%w: checkout.session: %v", ErrInvalidWebhook, err)
		}
		userID, planID := cs.Metadata["user_id"], cs.Metadata["plan_id"]
		if userID == "" || planID == "" {
			s.logger.Error().Str("checkout_session_id", cs.ID).Msg("Missing user_id or plan_id in checkout session metadata")
			return fmt.Errorf("%w: missing metadata", ErrInvalidWebhook)
		}
		return s.subSvc.AssignPlan(ctx, userID, planID)

	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			return fmt.Errorf("%w: subscription: %v", ErrInvalidWebhook, err)
		}
		userID := ss.Metadata["user_id"]
		if userID == "" {
			s.logger.Error().Str("subscription_id", ss.ID).Msg("Missing user_id in subscription metadata")
			return fmt.Errorf("%w: missing metadata", ErrInvalidWebhook)
		}
		return s.subSvc.DowngradeToFree(ctx, userID)

	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("Ignoring Stripe event")
		return nil
	}
}

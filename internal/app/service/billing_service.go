package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/policy"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/store"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

type SubscriptionStore interface {
	Upsert(ctx context.Context, sub dto.Subscription) error
	FindByCustomerID(ctx context.Context, customerID string) (dto.Subscription, error)
}

type BillingService struct {
	Subscriptions SubscriptionStore
	WebhookSecret string
	now           func() time.Time
}

func NewBillingService(subscriptions SubscriptionStore, webhookSecret string) *BillingService {
	return &BillingService{
		Subscriptions: subscriptions,
		WebhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// HandleWebhook verifies the signature and applies subscription changes.
// Event types it does not track are acknowledged and ignored.
func (s *BillingService) HandleWebhook(ctx context.Context, event dto.WebhookEvent) (dto.WebhookResponse, error) {
	if s.WebhookSecret == "" || s.Subscriptions == nil {
		return dto.WebhookResponse{}, ErrBillingNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(event.Payload, event.Signature, s.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.WarnContext(ctx, "rejected stripe webhook", slog.String("error", err.Error()))

		return dto.WebhookResponse{}, ErrInvalidSignature.WithCause(err)
	}

	slog.InfoContext(ctx, "stripe webhook received",
		slog.String("event_id", evt.ID),
		slog.String("type", string(evt.Type)))

	switch evt.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		err = s.checkoutCompleted(ctx, evt.Data.Raw)
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		err = s.subscriptionChanged(ctx, evt.Type, evt.Data.Raw)
	}

	if err != nil {
		return dto.WebhookResponse{}, fmt.Errorf("handle %s: %w", evt.Type, err)
	}

	return dto.WebhookResponse{Received: true}, nil
}

func (s *BillingService) checkoutCompleted(ctx context.Context, raw json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = session.Metadata["user_id"]
	}

	if userID == "" {
		slog.WarnContext(ctx, "checkout session without user reference", slog.String("session_id", session.ID))

		return nil
	}

	sub := dto.Subscription{
		UserID:    userID,
		Tier:      session.Metadata["tier"],
		UpdatedAt: s.now(),
	}

	if session.Customer != nil {
		sub.StripeCustomerID = session.Customer.ID
	}

	// subscription events may arrive before the customer is linked and get dropped,
	// so a completed checkout is enough to mark the subscription live
	if session.Subscription != nil {
		sub.SubscriptionID = session.Subscription.ID
		sub.Status = string(stripe.SubscriptionStatusActive)

		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			sub.Status = string(stripe.SubscriptionStatusIncomplete)
		}
	}

	return s.Subscriptions.Upsert(ctx, sub)
}

func (s *BillingService) subscriptionChanged(ctx context.Context, eventType stripe.EventType, raw json.RawMessage) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(raw, &subscription); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	var customerID string
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}

	userID := subscription.Metadata["user_id"]
	if userID == "" && customerID != "" {
		existing, err := s.Subscriptions.FindByCustomerID(ctx, customerID)
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "subscription for unknown customer", slog.String("customer_id", customerID))

			return nil
		} else if err != nil {
			return err
		}

		userID = existing.UserID
	}

	if userID == "" {
		slog.WarnContext(ctx, "subscription without user reference", slog.String("subscription_id", subscription.ID))

		return nil
	}

	sub := dto.Subscription{
		UserID:           userID,
		StripeCustomerID: customerID,
		SubscriptionID:   subscription.ID,
		Status:           string(subscription.Status),
		Tier:             string(TierFromSubscription(subscription)),
		UpdatedAt:        s.now(),
	}

	if eventType == stripe.EventTypeCustomerSubscriptionDeleted {
		sub.Status = string(stripe.SubscriptionStatusCanceled)
		sub.Tier = string(policy.TierFree)
	}

	return s.Subscriptions.Upsert(ctx, sub)
}

// TierFromSubscription reads the tier from subscription metadata, then from the
// lookup key, nickname or metadata of the first priced item.
func TierFromSubscription(subscription stripe.Subscription) policy.Tier {
	candidates := []string{subscription.Metadata["tier"]}

	if subscription.Items != nil {
		for _, item := range subscription.Items.Data {
			if item == nil || item.Price == nil {
				continue
			}

			candidates = append(candidates, item.Price.Metadata["tier"], item.Price.LookupKey, item.Price.Nickname)
		}
	}

	for _, candidate := range candidates {
		value := strings.ToLower(candidate)

		switch {
		case strings.Contains(value, string(policy.TierEnterprise)):
			return policy.TierEnterprise
		case strings.Contains(value, string(policy.TierPro)):
			return policy.TierPro
		}
	}

	return policy.TierFree
}

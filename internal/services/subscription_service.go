package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/google/uuid"
)

type SubscriptionService struct {
	repo SubscriptionRepository
	now  func() time.Time
	log  *slog.Logger
}

func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, now: time.Now, log: logging.OrDefault(log)}
}

// Get returns the user's subscription, or nil when there is none.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	return s.repo.FindByUser(ctx, userID)
}

// UpdateStatus sets the status of the subscription identified by
// (userID, subscriptionID). Any mismatch is ErrSubscriptionNotFound and
// leaves the stored record unchanged. Canceled is terminal: moving a
// canceled subscription to another status is ErrSubscriptionCanceled.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, userID, subscriptionID string, status models.SubscriptionStatus) (*models.Subscription, error) {
	sub, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.ID != subscriptionID {
		return nil, ErrSubscriptionNotFound
	}
	if sub.Status == models.SubscriptionCanceled && status != models.SubscriptionCanceled {
		return nil, ErrSubscriptionCanceled
	}

	now := s.now().UTC()
	sub.Status = status
	sub.UpdatedAt = now
	if status == models.SubscriptionCanceled && sub.CanceledAt == nil {
		sub.CanceledAt = &now
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription status updated", "user_id", userID, "subscription_id", subscriptionID, "status", status)
	return sub, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error) {
	return s.UpdateStatus(ctx, userID, subscriptionID, models.SubscriptionCanceled)
}

// CreateFromProvider records a subscription announced by the payment provider.
func (s *SubscriptionService) CreateFromProvider(ctx context.Context, in ProviderSubscription) (*models.Subscription, error) {
	now := s.now().UTC()
	sub := &models.Subscription{
		ID:                 in.SubscriptionID,
		UserID:             in.UserID,
		Status:             models.SubscriptionActive,
		Plan:               in.Plan,
		Price:              in.Price,
		Interval:           in.Interval,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		PaymentMethod:      in.PaymentMethod,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if sub.ID == "" {
		sub.ID = "sub_" + uuid.NewString()
	}
	if in.Interval == "year" {
		sub.CurrentPeriodEnd = now.AddDate(1, 0, 0)
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription for %s: %w", in.UserID, err)
	}
	return sub, nil
}

// ProviderSubscription is the subset of provider data used to open a subscription.
type ProviderSubscription struct {
	UserID         string  `json:"user_id"`
	SubscriptionID string  `json:"subscription_id"`
	Plan           string  `json:"plan"`
	Price          float64 `json:"price"`
	Interval       string  `json:"interval"`
	PaymentMethod  string  `json:"payment_method"`
}

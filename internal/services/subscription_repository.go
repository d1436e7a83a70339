package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionExists   = errors.New("subscription already exists for user")
	ErrSubscriptionCanceled = errors.New("subscription is canceled")
)

// SubscriptionRepository stores subscriptions keyed by user.
// FindByUser returns (nil, nil) when the user has no subscription.
type SubscriptionRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Save(ctx context.Context, sub *models.Subscription) error
	Ping(ctx context.Context) error
}

// MemorySubscriptionRepository is the map-backed mock store.
type MemorySubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]*models.Subscription
}

func NewMemorySubscriptionRepository(seed ...models.Subscription) *MemorySubscriptionRepository {
	r := &MemorySubscriptionRepository{subs: make(map[string]*models.Subscription, len(seed))}
	for i := range seed {
		sub := seed[i]
		r.subs[sub.UserID] = &sub
	}
	return r
}

func (r *MemorySubscriptionRepository) FindByUser(_ context.Context, userID string) (*models.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (r *MemorySubscriptionRepository) Create(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.UserID]; ok {
		return ErrSubscriptionExists
	}
	cp := *sub
	r.subs[sub.UserID] = &cp
	return nil
}

func (r *MemorySubscriptionRepository) Save(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.subs[sub.UserID]
	if !ok || existing.ID != sub.ID {
		return ErrSubscriptionNotFound
	}
	*existing = *sub
	return nil
}

func (r *MemorySubscriptionRepository) Ping(context.Context) error { return nil }

// GormSubscriptionRepository keeps subscriptions in the subscriptions table.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) FindByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	existing, err := r.FindByUser(ctx, sub.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSubscriptionExists
	}
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *models.Subscription) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND user_id = ?", sub.ID, sub.UserID).
		Updates(map[string]interface{}{
			"status":               sub.Status,
			"plan":                 sub.Plan,
			"price":                sub.Price,
			"interval":             sub.Interval,
			"current_period_start": sub.CurrentPeriodStart,
			"current_period_end":   sub.CurrentPeriodEnd,
			"payment_method":       sub.PaymentMethod,
			"canceled_at":          sub.CanceledAt,
			"updated_at":           sub.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *GormSubscriptionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// MockSubscriptions is the seed data served when no database is configured.
func MockSubscriptions(now time.Time) []models.Subscription {
	start := now.AddDate(0, 0, -15)
	return []models.Subscription{
		{
			ID:                 "sub_123",
			UserID:             "user_123",
			Status:             models.SubscriptionActive,
			Plan:               "premium",
			Price:              9.99,
			Interval:           "month",
			CurrentPeriodStart: start,
			CurrentPeriodEnd:   start.AddDate(0, 1, 0),
			PaymentMethod:      "card",
			CreatedAt:          start,
			UpdatedAt:          start,
		},
		{
			ID:                 "sub_456",
			UserID:             "user_456",
			Status:             models.SubscriptionPastDue,
			Plan:               "standard",
			Price:              4.99,
			Interval:           "month",
			CurrentPeriodStart: start.AddDate(0, -1, 0),
			CurrentPeriodEnd:   start,
			PaymentMethod:      "card",
			CreatedAt:          start.AddDate(0, -3, 0),
			UpdatedAt:          start,
		},
	}
}

// SeedSubscriptions creates subs, skipping users that already have a
// subscription. It returns how many were created.
func SeedSubscriptions(ctx context.Context, repo SubscriptionRepository, subs []models.Subscription) (int, error) {
	created := 0
	for i := range subs {
		sub := subs[i]
		err := repo.Create(ctx, &sub)
		if errors.Is(err, ErrSubscriptionExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed subscription %s: %w", sub.ID, err)
		}
		created++
	}
	return created, nil
}

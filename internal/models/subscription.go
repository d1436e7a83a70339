package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionPaused   SubscriptionStatus = "paused"
)

var subscriptionStatuses = map[SubscriptionStatus]struct{}{
	SubscriptionActive: {}, SubscriptionCanceled: {}, SubscriptionPastDue: {}, SubscriptionPaused: {},
}

func (s SubscriptionStatus) Valid() bool {
	_, ok := subscriptionStatuses[s]
	return ok
}

// Subscription is keyed by (UserID, ID). Canceled rows are kept.
type Subscription struct {
	ID                 string             `gorm:"primaryKey;size:64" json:"id"`
	UserID             string             `gorm:"size:64;not null;uniqueIndex" json:"userId"`
	Status             SubscriptionStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	Plan               string             `gorm:"size:50;not null" json:"plan"`
	Price              float64            `json:"price"`
	Interval           string             `gorm:"size:20" json:"interval"`
	CurrentPeriodStart time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time          `json:"currentPeriodEnd"`
	PaymentMethod      string             `gorm:"size:50" json:"paymentMethod"`
	CanceledAt         *time.Time         `json:"canceledAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

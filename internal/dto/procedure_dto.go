package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
)

type ResourcesListInput struct {
	Category string `json:"category,omitempty" validate:"omitempty,max=50"`
	Type     string `json:"type,omitempty" validate:"omitempty,max=50"`
	Search   string `json:"search,omitempty" validate:"omitempty,max=100"`
}

type ResourceByIDInput struct {
	ID string `json:"id" validate:"required"`
}

type SubscriptionGetInput struct {
	UserID string `json:"userId" validate:"required"`
}

type SubscriptionUpdateInput struct {
	UserID         string                    `json:"userId" validate:"required"`
	SubscriptionID string                    `json:"subscriptionId" validate:"required"`
	Status         models.SubscriptionStatus `json:"status" validate:"required,oneof=active canceled past_due paused"`
}

type SubscriptionCancelInput struct {
	UserID         string `json:"userId" validate:"required"`
	SubscriptionID string `json:"subscriptionId" validate:"required"`
}

type HiInput struct {
	Name string `json:"name" validate:"required"`
}

type HiOutput struct {
	Hello string    `json:"hello"`
	Date  time.Time `json:"date"`
}

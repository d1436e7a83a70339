package subscription

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/identity"
	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/ahmetcoskunkizilkaya/journey/internal/services"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service     *services.SubscriptionService
	requireAuth bool
}

func NewHandler(service *services.SubscriptionService, requireAuth bool) *Handler {
	return &Handler{service: service, requireAuth: requireAuth}
}

// Get returns the user's subscription, or null when there is none.
func (h *Handler) Get(c *fiber.Ctx, in dto.SubscriptionGetInput) (*models.Subscription, error) {
	if err := h.authorize(c, in.UserID); err != nil {
		return nil, err
	}
	return h.service.Get(c.UserContext(), in.UserID)
}

func (h *Handler) Update(c *fiber.Ctx, in dto.SubscriptionUpdateInput) (*models.Subscription, error) {
	if err := h.authorize(c, in.UserID); err != nil {
		return nil, err
	}
	sub, err := h.service.UpdateStatus(c.UserContext(), in.UserID, in.SubscriptionID, in.Status)
	return sub, procedureError(err)
}

func (h *Handler) Cancel(c *fiber.Ctx, in dto.SubscriptionCancelInput) (*models.Subscription, error) {
	if err := h.authorize(c, in.UserID); err != nil {
		return nil, err
	}
	sub, err := h.service.Cancel(c.UserContext(), in.UserID, in.SubscriptionID)
	return sub, procedureError(err)
}

// authorize checks that the bearer token belongs to userID. It is a no-op
// when procedure auth is disabled.
func (h *Handler) authorize(c *fiber.Ctx, userID string) error {
	if !h.requireAuth {
		return nil
	}
	sub, err := identity.Subject(c)
	if err != nil {
		return trpc.NewError(trpc.CodeUnauthorized, "Authentication required")
	}
	if sub != userID {
		return trpc.NewError(trpc.CodeForbidden, "Subscription belongs to another user")
	}
	return nil
}

func procedureError(err error) error {
	switch {
	case errors.Is(err, services.ErrSubscriptionNotFound):
		return trpc.NewError(trpc.CodeNotFound, "Subscription not found")
	case errors.Is(err, services.ErrSubscriptionCanceled):
		return trpc.NewError(trpc.CodeConflict, "Subscription is canceled and cannot change status")
	}
	return err
}

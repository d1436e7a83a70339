package resources

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(_ *fiber.Ctx, in dto.ResourcesListInput) ([]models.Resource, error) {
	return h.service.List(Filter{Category: in.Category, Type: in.Type, Search: in.Search}), nil
}

func (h *Handler) ByID(_ *fiber.Ctx, in dto.ResourceByIDInput) (*models.Resource, error) {
	r, err := h.service.Get(in.ID)
	if errors.Is(err, ErrNotFound) {
		return nil, trpc.NewError(trpc.CodeNotFound, "Resource %q not found", in.ID)
	}
	return r, err
}

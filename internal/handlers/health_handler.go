package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/persist"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	storage    persist.Pinger
	procedures []string
}

// NewHealthHandler reports on the subscription storage and lists the
// registered procedures.
func NewHealthHandler(storage persist.Pinger, procedures []string) *HealthHandler {
	return &HealthHandler{storage: storage, procedures: procedures}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storageStatus := "ok"
	if err := h.storage.Ping(c.UserContext()); err != nil {
		storageStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Storage:    storageStatus,
		Procedures: h.procedures,
	})
}

package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/services"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
)

// WebhookRecorder counts processed webhook events.
type WebhookRecorder interface {
	RecordWebhook(eventType, outcome string)
}

type WebhookHandler struct {
	webhooks *services.WebhookService
	secret   string
	validate *validator.Validate
	recorder WebhookRecorder
	log      *slog.Logger
}

// NewWebhookHandler builds the payment webhook receiver. An empty secret
// disables the Authorization check; recorder may be nil.
func NewWebhookHandler(webhooks *services.WebhookService, secret string, recorder WebhookRecorder, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		secret:   secret,
		validate: trpc.NewValidator(),
		recorder: recorder,
		log:      logging.OrDefault(log),
	}
}

// HandlePayments acknowledges every well-formed event with 200. Failures
// while applying a known event are logged and counted, not surfaced, so the
// provider does not redeliver.
func (h *WebhookHandler) HandlePayments(c *fiber.Ctx) error {
	if h.secret != "" {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
	}

	body := c.Body()
	var env dto.WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}
	if err := h.validate.Struct(env); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: trpc.ValidationMessage(err),
		})
	}
	if !gjson.GetBytes(body, "data").IsObject() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "data must be an object",
		})
	}

	outcome, err := h.webhooks.Handle(c.UserContext(), env)
	if err != nil {
		h.log.Error("webhook processing failed",
			"event_id", env.EventID, "event_type", env.EventType, "error", err)
	} else {
		h.log.Info("webhook received",
			"event_id", env.EventID, "event_type", env.EventType, "outcome", outcome)
	}
	h.record(env.EventType, outcome)

	return c.JSON(dto.WebhookAck{
		Success: true,
		Message: "Webhook " + string(outcome),
	})
}

func (h *WebhookHandler) record(eventType string, outcome services.Outcome) {
	if h.recorder == nil {
		return
	}
	if !services.EventType(eventType).Known() {
		eventType = "unknown"
	}
	h.recorder.RecordWebhook(eventType, string(outcome))
}

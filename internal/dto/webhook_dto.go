package dto

import "encoding/json"

// WebhookEnvelope is the payment provider's event wrapper.
type WebhookEnvelope struct {
	EventID    string          `json:"event_id" validate:"required"`
	EventType  string          `json:"event_type" validate:"required"`
	OccurredAt string          `json:"occurred_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Data       json.RawMessage `json:"data" validate:"required"`
}

type WebhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

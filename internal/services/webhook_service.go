package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
)

type EventType string

const (
	EventSubscriptionCreated  EventType = "subscription.created"
	EventSubscriptionUpdated  EventType = "subscription.updated"
	EventSubscriptionCanceled EventType = "subscription.canceled"
	EventSubscriptionPaused   EventType = "subscription.paused"
	EventSubscriptionResumed  EventType = "subscription.resumed"
	EventPaymentSucceeded     EventType = "payment.succeeded"
	EventPaymentFailed        EventType = "payment.failed"
)

// Known reports whether t is one of the modeled event types.
func (t EventType) Known() bool {
	switch t {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionCanceled,
		EventSubscriptionPaused, EventSubscriptionResumed, EventPaymentSucceeded, EventPaymentFailed:
		return true
	}
	return false
}

var ErrInvalidEventData = errors.New("invalid webhook event data")

// Event is one parsed webhook event: SubscriptionEvent, PaymentEvent or
// UnknownEvent.
type Event interface {
	EventID() string
}

type SubscriptionEvent struct {
	ID   string
	Type EventType
	Data SubscriptionEventData
}

type SubscriptionEventData struct {
	ProviderSubscription
	Status models.SubscriptionStatus `json:"status"`
}

type PaymentEvent struct {
	ID   string
	Type EventType
	Data PaymentEventData
}

type PaymentEventData struct {
	UserID         string  `json:"user_id"`
	SubscriptionID string  `json:"subscription_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
}

// UnknownEvent is any event type this service does not model. It is
// acknowledged, never rejected.
type UnknownEvent struct {
	ID   string
	Type string
	Data json.RawMessage
}

func (e SubscriptionEvent) EventID() string { return e.ID }
func (e PaymentEvent) EventID() string      { return e.ID }
func (e UnknownEvent) EventID() string      { return e.ID }

// ParseEvent turns a validated envelope into its typed variant.
func ParseEvent(env dto.WebhookEnvelope) (Event, error) {
	switch t := EventType(env.EventType); t {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionCanceled,
		EventSubscriptionPaused, EventSubscriptionResumed:
		var data SubscriptionEventData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEventData, err)
		}
		if data.UserID == "" {
			return nil, fmt.Errorf("%w: user_id is required", ErrInvalidEventData)
		}
		if t != EventSubscriptionCreated && data.SubscriptionID == "" {
			return nil, fmt.Errorf("%w: subscription_id is required", ErrInvalidEventData)
		}
		if data.Status != "" && !data.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidEventData, data.Status)
		}
		return SubscriptionEvent{ID: env.EventID, Type: t, Data: data}, nil
	case EventPaymentSucceeded, EventPaymentFailed:
		var data PaymentEventData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEventData, err)
		}
		return PaymentEvent{ID: env.EventID, Type: t, Data: data}, nil
	default:
		return UnknownEvent{ID: env.EventID, Type: env.EventType, Data: env.Data}, nil
	}
}

type WebhookService struct {
	subscriptions *SubscriptionService
	log           *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

const maxSeenEvents = 10000

func NewWebhookService(subscriptions *SubscriptionService, log *slog.Logger) *WebhookService {
	return &WebhookService{
		subscriptions: subscriptions,
		log:           logging.OrDefault(log),
		seen:          make(map[string]struct{}),
	}
}

// Outcome describes what happened to an acknowledged event.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
)

// Handle processes one event. Every outcome is acknowledged to the provider;
// the returned error only reports a failure of a known event for logging.
func (s *WebhookService) Handle(ctx context.Context, env dto.WebhookEnvelope) (Outcome, error) {
	if s.markSeen(env.EventID) {
		return OutcomeDuplicate, nil
	}

	event, err := ParseEvent(env)
	if err != nil {
		s.forget(env.EventID)
		return OutcomeFailed, err
	}

	switch e := event.(type) {
	case SubscriptionEvent:
		err = s.handleSubscription(ctx, e)
	case PaymentEvent:
		err = s.handlePayment(ctx, e)
	case UnknownEvent:
		s.log.Warn("unhandled webhook event type", "event_id", e.ID, "event_type", e.Type)
		return OutcomeIgnored, nil
	}
	if err != nil {
		s.forget(env.EventID)
		return OutcomeFailed, err
	}
	return OutcomeProcessed, nil
}

func (s *WebhookService) handleSubscription(ctx context.Context, e SubscriptionEvent) error {
	d := e.Data
	switch e.Type {
	case EventSubscriptionCreated:
		_, err := s.subscriptions.CreateFromProvider(ctx, d.ProviderSubscription)
		return err
	case EventSubscriptionUpdated:
		status := d.Status
		if status == "" {
			status = models.SubscriptionActive
		}
		_, err := s.subscriptions.UpdateStatus(ctx, d.UserID, d.SubscriptionID, status)
		return err
	case EventSubscriptionCanceled:
		_, err := s.subscriptions.Cancel(ctx, d.UserID, d.SubscriptionID)
		return err
	case EventSubscriptionPaused:
		_, err := s.subscriptions.UpdateStatus(ctx, d.UserID, d.SubscriptionID, models.SubscriptionPaused)
		return err
	case EventSubscriptionResumed:
		_, err := s.subscriptions.UpdateStatus(ctx, d.UserID, d.SubscriptionID, models.SubscriptionActive)
		return err
	}
	return nil
}

func (s *WebhookService) handlePayment(ctx context.Context, e PaymentEvent) error {
	d := e.Data
	s.log.Info("payment event", "event_type", e.Type, "user_id", d.UserID, "amount", d.Amount, "currency", d.Currency)
	if d.UserID == "" || d.SubscriptionID == "" {
		return nil
	}
	status := models.SubscriptionActive
	if e.Type == EventPaymentFailed {
		status = models.SubscriptionPastDue
	}
	_, err := s.subscriptions.UpdateStatus(ctx, d.UserID, d.SubscriptionID, status)
	return err
}

// markSeen records id and reports whether it was already known. Failed
// events are forgotten again so a redelivery is applied.
func (s *WebhookService) markSeen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; ok {
		return true
	}
	if len(s.seen) >= maxSeenEvents {
		s.seen = make(map[string]struct{})
	}
	s.seen[id] = struct{}{}
	return false
}

func (s *WebhookService) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
}

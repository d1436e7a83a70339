package logging

import (
	"context"
	"log/slog"
	"slices"

	"github.com/getsentry/sentry-go"
)

// SentryHandler is an slog.Handler that reports ERROR+ records to Sentry.
// Attrs bound with WithAttrs are qualified by the groups open at that
// point; record attrs by the groups open when the record is handled.
type SentryHandler struct {
	hub   *sentry.Hub
	attrs []slog.Attr
	group string
}

func NewSentryHandler(hub *sentry.Hub) *SentryHandler {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentryHandler{hub: hub}
}

// Enabled only handles ERROR and above.
func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *SentryHandler) Handle(_ context.Context, record slog.Record) error {
	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = record.Message
	event.Timestamp = record.Time

	extra := make(map[string]interface{}, record.NumAttrs()+len(h.attrs))
	add := func(a slog.Attr) {
		key := a.Key
		if err, ok := a.Value.Any().(error); ok {
			extra[key] = err.Error()
			return
		}
		extra[key] = a.Value.Any()
	}
	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(h.qualify(a))
		return true
	})
	event.Extra = extra

	if v, ok := extra["procedure"].(string); ok {
		event.Tags = map[string]string{"procedure": v}
	}

	h.hub.CaptureEvent(event)
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualify(a))
	}
	return &next
}

func (h *SentryHandler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}

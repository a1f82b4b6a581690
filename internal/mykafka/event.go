package mykafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

func NewEvent(typ string, payload any) Event {
	return Event{Type: typ, At: time.Now().UTC(), Payload: payload}
}

// Emit publishes ev keyed by id and logs instead of failing the request.
func Emit(ctx context.Context, p Publisher, l *slog.Logger, topic string, id uint, ev Event) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(id), ev); err != nil {
		l.Error("event_publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

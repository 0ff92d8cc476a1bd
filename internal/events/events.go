// Package events publishes bootcamp, course and review lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"devcamper/internal/observability"

	"github.com/nats-io/nats.go"
)

// Event types, appended to the configured subject prefix.
const (
	BootcampCreated = "bootcamp.created"
	BootcampUpdated = "bootcamp.updated"
	BootcampDeleted = "bootcamp.deleted"
	CourseCreated   = "course.created"
	CourseUpdated   = "course.updated"
	CourseDeleted   = "course.deleted"
	ReviewCreated   = "review.created"
	ReviewUpdated   = "review.updated"
	ReviewDeleted   = "review.deleted"
)

// Event is the JSON payload sent for every lifecycle change.
type Event struct {
	Type       string    `json:"type"`
	ID         uint      `json:"id"`
	BootcampID uint      `json:"bootcamp_id"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event stamped with the current time.
func New(eventType string, id, bootcampID, userID uint) Event {
	return Event{
		Type:       eventType,
		ID:         id,
		BootcampID: bootcampID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher sends events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NATSPublisher publishes events as JSON on "<prefix>.<type>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, prefix string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("devcamper-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	logger.Info("NATS publisher initialized", "url", url, "prefix", prefix)

	return &NATSPublisher{
		conn:   nc,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Subject returns the full subject an event type is published on.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, evt Event) error {
	subject := Subject(p.prefix, evt.Type)

	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "subject", subject, "error", err)
		return err
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		observability.EventsPublished.WithLabelValues(subject, observability.ResultError).Inc()
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "subject", subject, "error", err)
		return err
	}

	observability.EventsPublished.WithLabelValues(subject, observability.ResultSuccess).Inc()
	p.logger.DebugContext(ctx, "event published", "subject", subject, "id", evt.ID)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NopPublisher drops every event. Used when NATS_URL is empty.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

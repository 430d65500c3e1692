// Package eventbus provides the in-process watermill bus modules publish
// domain events on.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DKZomb0/Wieler/app/events"
	"github.com/DKZomb0/Wieler/app/observability/correlation"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus publishes and subscribes to topics.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Publisher is the narrow contract services publish through.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}

// New creates a gochannel-backed bus.
func New(logger *slog.Logger) EventBus {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger),
	)
}

// NewRouter creates a message router with correlation, retry, poison queue
// and panic recovery middleware.
func NewRouter(logger *slog.Logger, bus EventBus) (*message.Router, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	poison, err := middleware.PoisonQueue(bus, events.PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create poison queue: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		poison,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 50 * time.Millisecond,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	return router, nil
}

// NewMessage marshals payload as JSON and stamps the correlation id found on ctx.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := correlation.ID(ctx)
	if correlationID == "" {
		correlationID = watermill.NewShortUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

// PublishJSON marshals payload and publishes it on topic.
func PublishJSON(ctx context.Context, pub Publisher, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

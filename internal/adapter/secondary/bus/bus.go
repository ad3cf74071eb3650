// Package bus carries presentation requests, analytics payloads and
// delivered notifications from the workflows to whichever surface is running.
package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"exposure-debugpanel/internal/logging"
)

const (
	TopicAlerts        = "presentation.alerts"
	TopicScreens       = "presentation.screens"
	TopicAnalytics     = "analytics.operational_info"
	TopicNotifications = "notifications.delivered"
)

// Bus is an in-process pub/sub. Publish blocks until every subscriber acked,
// so subscribers observe messages of a topic in publish order.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// New creates the bus.
func New() *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		},
		NewLogger(logging.L().Named("bus")),
	)
	return &Bus{pubsub: pubsub}
}

// Publish encodes payload as JSON and publishes it on topic.
func (b *Bus) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Handle calls fn for every message of topic until ctx is done.
// Messages are always acked; a handler error is only logged.
func (b *Bus) Handle(ctx context.Context, topic string, fn func(payload []byte) error) error {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	go func() {
		for msg := range messages {
			if err := fn(msg.Payload); err != nil {
				logging.Warnf("bus: handle %s message %s: %v", topic, msg.UUID, err)
			}
			msg.Ack()
		}
	}()
	return nil
}

// Close stops the bus and closes every subscription.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Subscribe decodes every message of topic into T and hands it to fn.
func Subscribe[T any](ctx context.Context, b *Bus, topic string, fn func(T)) error {
	return b.Handle(ctx, topic, func(payload []byte) error {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fn(v)
		return nil
	})
}

type zapAdapter struct {
	log *zap.Logger
}

// NewLogger adapts a zap logger to watermill.
func NewLogger(log *zap.Logger) watermill.LoggerAdapter {
	return zapAdapter{log: log}
}

func (a zapAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (a zapAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, zapFields(fields)...)
}

func (a zapAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, zapFields(fields)...)
}

// Trace is too chatty for the bus; it goes to debug only when -vvvv is set.
func (a zapAdapter) Trace(msg string, fields watermill.LogFields) {
	if logging.Verbosity() >= 4 {
		a.log.Debug(msg, zapFields(fields)...)
	}
}

func (a zapAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return zapAdapter{log: a.log.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

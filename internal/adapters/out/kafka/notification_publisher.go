// Package kafka publishes order events to the out-of-band notification
// pipeline. Downstream consumers (push gateway, SMS sender) read the topic;
// this process never blocks an order transition on their availability.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"khabarlagbe/internal/core/domain/model/order"

	"github.com/IBM/sarama"
)

// notificationMessage is the wire format written to the topic.
type notificationMessage struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	Version    int64     `json:"version"`
	Status     string    `json:"status"`
	Actor      string    `json:"actor"`
	Note       string    `json:"note,omitempty"`
	RiderID    string    `json:"riderId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NotificationPublisher is a sarama-backed ports.NotificationPublisher.
// Messages are keyed by order id so one order's notifications stay on one
// partition, in order.
type NotificationPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewNotificationPublisher connects a synchronous producer to the brokers.
func NewNotificationPublisher(brokers []string, topic string, logger *slog.Logger) (*NotificationPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &NotificationPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Notify enqueues one event for notification delivery. Location samples are
// not notification material and are skipped.
func (p *NotificationPublisher) Notify(_ context.Context, event order.Event) error {
	if event.Kind == order.KindRiderLocation {
		return nil
	}

	message := notificationMessage{
		Type:       string(event.Kind),
		OrderID:    event.OrderID.String(),
		Version:    event.Version,
		Status:     event.Status.String(),
		Actor:      event.Actor.String(),
		Note:       event.Note,
		OccurredAt: event.Timestamp,
	}
	if event.RiderID != nil {
		message.RiderID = event.RiderID.String()
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID.String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.logger.Error("notification publish failed",
			"topic", p.topic,
			"order_id", event.OrderID.String(),
			"error", err)
		return err
	}

	p.logger.Debug("notification published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"kind", string(event.Kind))
	return nil
}

// Close shuts the underlying producer down.
func (p *NotificationPublisher) Close() error {
	return p.producer.Close()
}

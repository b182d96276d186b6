/**
 * @description
 * A small producer for publishing Silver Bank events to RabbitMQ. It owns the
 * connection and channel and publishes transfer events to a durable topic
 * exchange. When no broker is configured the service wires in the fallback
 * producer instead, so commits never depend on broker availability.
 *
 * @dependencies
 * - context, encoding/json, time: Standard Go libraries.
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/sumin-dev/Silver-Bank/internal/domain"
)

const (
	exchangeName                = "silverbank.events"
	transferCompletedRoutingKey = "transfer.completed"
)

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	PublishTransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// EventProducerFallback is a no-op publisher used when RabbitMQ is
// unavailable at startup.
type EventProducerFallback struct{}

func (p *EventProducerFallback) PublishTransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error {
	log.Printf("level=warn component=rabbitmq_producer mode=fallback msg=\"publish skipped\" routing_key=%s transaction_id=%s",
		transferCompletedRoutingKey, event.TransactionID)
	return nil
}

func (p *EventProducerFallback) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials the broker and opens a channel. The dial is bounded
// so startup does not hang on an unreachable broker.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &EventProducer{conn: conn, channel: ch}, nil
}

// PublishTransferCompleted publishes the event to the durable topic exchange.
func (p *EventProducer) PublishTransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error {
	if err := p.channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(publishCtx,
		exchangeName,
		transferCompletedRoutingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Close shuts down the channel and connection.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

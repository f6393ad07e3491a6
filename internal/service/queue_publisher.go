// Package service holds outbound integrations.  The checkout publisher
// sends domain events to RabbitMQ; errors are logged and returned so
// callers can choose to ignore them.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/queue"
)

// Publisher publishes checkout events.  Each call dials its own
// connection; checkout is rare enough that pooling buys nothing.
type Publisher struct {
	url string
	log *logger.Logger
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{url: url, log: log.WithComponent("rabbitmq")}
}

// PublishCheckoutRequested publishes ev to the checkout queue as a
// persistent JSON message.
func (p *Publisher) PublishCheckoutRequested(ctx context.Context, ev queue.CheckoutRequestedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WithError(err).Warn("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Warn("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.CheckoutQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		p.log.WithError(err).Warn("queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.CheckoutQueue, false, false, pub); err != nil {
		p.log.WithError(err).Warn("publish failed")
		return err
	}
	p.log.Info("checkout published", "session", ev.SessionID, "seats", len(ev.Seats))
	return nil
}

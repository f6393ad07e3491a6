package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/pricing"
)

// StartCheckoutConsumer connects to RabbitMQ, declares the checkout queue
// (durable) and appends each message to <dir>/checkout.log.  It reconnects
// with exponential backoff until ctx is done.  Bad messages are rejected
// without requeue so one poison message cannot wedge the loop.
func StartCheckoutConsumer(ctx context.Context, url, dir string, log *logger.Logger) {
	log = log.WithComponent("checkout-consumer")
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.WithError(err).Warn("dial broker failed", "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, dir, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, log *logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("set QoS failed")
	}
	if _, err := ch.QueueDeclare(CheckoutQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, CheckoutQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := HandleMessage(dir, d.Body); err != nil {
			log.WithError(err).Warn("handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleMessage decodes one checkout event and appends it to the log file.
func HandleMessage(dir string, body []byte) error {
	var ev CheckoutRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "checkout.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders one single-line record.
func FormatLine(ev CheckoutRequestedEvent) string {
	ids := make([]string, 0, len(ev.Seats))
	for _, s := range ev.Seats {
		ids = append(ids, s.ID)
	}
	return fmt.Sprintf("[%s] Checkout requested | session=%s | venue=%q | seats=[%s] | subtotal=%s | fee=%s | total=%s\n",
		ev.RequestedAt, ev.SessionID, ev.VenueName, strings.Join(ids, ","),
		pricing.Amount(ev.SubtotalCents), pricing.Amount(ev.FeeCents), pricing.Amount(ev.TotalCents))
}

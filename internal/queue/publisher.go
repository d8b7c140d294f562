package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const magicLinkQueueName = "magiclink.issued"

// Publisher sends domain events to RabbitMQ. Failures are logged and
// swallowed: event delivery is best effort and must never interrupt the
// request flow.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// MagicLinkIssued satisfies service.MagicLinkNotifier.
func (p *Publisher) MagicLinkIssued(ctx context.Context, email, token string, expiresAt time.Time) {
	now := time.Now().UTC()
	ev := MagicLinkIssuedEvent{
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		IssuedAt:  now.Format(time.RFC3339),
	}
	if err := p.publish(ctx, magicLinkQueueName, ev); err != nil {
		slog.Warn("magic link event publish failed", "error", err)
	}
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable queue, idempotent declare.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

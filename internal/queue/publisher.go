package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DirectoryQueue is the durable queue directory events are routed to.
const DirectoryQueue = "directory.events"

// DefaultDialTimeout bounds the broker connect on the write path.
const DefaultDialTimeout = 2 * time.Second

// Publisher sends directory events to RabbitMQ. A connection is opened per
// publish; the directory is written to rarely and this keeps the web
// process free of long-lived broker state.
type Publisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, queue: DirectoryQueue, dialTimeout: DefaultDialTimeout}
}

// Publish declares the queue and sends ev as a persistent JSON message on
// the default exchange.
func (p *Publisher) Publish(ctx context.Context, ev DirectoryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("dialing broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %s: %w", p.queue, err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publishing %s: %w", ev.Type, err)
	}
	return nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements the publisher contract and does nothing.
func (NopPublisher) Publish(context.Context, DirectoryEvent) error { return nil }

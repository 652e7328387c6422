package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ActivityFile is the name of the file the activity consumer appends to.
const ActivityFile = "activity.log"

// ActivityConsumer reads directory events from the broker and appends one
// line per event to an activity log.
type ActivityConsumer struct {
	URL string
	Dir string
	Log logrus.FieldLogger
}

// Run consumes until ctx is cancelled. Broker failures are logged and the
// connection is retried with exponential backoff capped at 30s.
func (c *ActivityConsumer) Run(ctx context.Context) error {
	logger := c.Log
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			logger.WithError(err).WithField("retry_in", backoff).Warn("activity-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WithError(err).Warn("activity-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
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

func (c *ActivityConsumer) consume(ctx context.Context, conn *amqp.Connection, logger logrus.FieldLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.WithError(err).Warn("activity-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(DirectoryQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, DirectoryQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.Handle(d.Body); err != nil {
			logger.WithError(err).WithField("message_id", d.MessageId).Error("activity-consumer: handle message failed")
			// Rejected without requeue so a bad payload cannot spin.
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one message body and appends its line to the activity
// log.
func (c *ActivityConsumer) Handle(body []byte) error {
	var ev DirectoryEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}

	dir := c.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, ActivityFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single newline-terminated log line.
func FormatLine(ev DirectoryEvent) string {
	return fmt.Sprintf("[%s] %s | %s_id=%d | name=%q | event_id=%s | correlation_id=%s\n",
		ev.OccurredAt, ev.Type, ev.Entity, ev.EntityID, ev.Name, ev.ID, ev.CorrelationID)
}

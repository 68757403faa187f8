// Package consumer reads notification events from Kafka and hands them to
// the mailer.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"ireporter/internal/notify"
	"ireporter/internal/notify/mailer"
)

// Consumer is a consumer-group member for the notification topic. Send
// failures are logged and the offset is committed anyway: mail is
// best-effort by design of the pipeline, and redelivering a broken event
// forever would stall the partition.
type Consumer struct {
	client *kgo.Client
	mailer mailer.Mailer
	logger *slog.Logger
}

func New(brokers []string, topic, group string, m mailer.Mailer, logger *slog.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
		kgo.AutoCommitMarks(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, mailer: m, logger: logger}, nil
}

// Run polls until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			c.handle(ctx, record)
			c.client.MarkCommitRecords(record)
		})
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record) {
	var event notify.Event
	if err := json.Unmarshal(record.Value, &event); err != nil {
		c.logger.ErrorContext(ctx, "malformed notification event",
			"offset", record.Offset,
			"error", err,
		)
		return
	}
	if err := c.mailer.Send(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "failed to send notification mail",
			"event_id", event.ID,
			"kind", event.Kind,
			"error", err,
		)
		return
	}
	c.logger.InfoContext(ctx, "notification mail sent",
		"event_id", event.ID,
		"kind", event.Kind,
	)
}

func (c *Consumer) Close() {
	c.client.Close()
}

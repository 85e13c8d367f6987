package mail

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Outbox enqueues messages onto the redis stream consumed by the Consumer.
type Outbox struct {
	client *redis.Client
	stream string
	log    zerolog.Logger
}

func NewOutbox(client *redis.Client, stream string, log zerolog.Logger) *Outbox {
	return &Outbox{client: client, stream: stream, log: log}
}

// Enqueue adds a message to the stream. Failures are logged and swallowed;
// mail is best-effort and must never fail an API request.
func (o *Outbox) Enqueue(ctx context.Context, kind, to string, data map[string]string) {
	values := map[string]any{
		"kind": kind,
		"to":   to,
	}
	for k, v := range data {
		values["data:"+k] = v
	}

	if err := o.client.XAdd(ctx, &redis.XAddArgs{
		Stream: o.stream,
		Values: values,
	}).Err(); err != nil {
		o.log.Error().Err(err).Str("kind", kind).Str("to", to).Msg("enqueue mail failed")
	}
}

// Consumer drains the outbox stream and delivers messages via a Sender.
type Consumer struct {
	client *redis.Client
	stream string
	sender Sender
	log    zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, sender Sender, log zerolog.Logger) *Consumer {
	return &Consumer{client: client, stream: stream, sender: sender, log: log}
}

// Start blocks until ctx is cancelled, reading the stream and delivering each
// message. Delivery failures are logged and the message is skipped; there is
// no retry beyond what redis re-delivers on restart.
func (c *Consumer) Start(ctx context.Context) error {
	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := c.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{c.stream, lastID},
			Count:   10,
			Block:   5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			c.log.Error().Err(err).Msg("mail stream read error")
			time.Sleep(2 * time.Second)
			continue
		}

		for _, stream := range result {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				c.deliver(msg)
			}
		}
	}
}

func (c *Consumer) deliver(msg redis.XMessage) {
	kind, _ := msg.Values["kind"].(string)
	to, _ := msg.Values["to"].(string)

	data := make(map[string]string)
	for k, v := range msg.Values {
		if len(k) > 5 && k[:5] == "data:" {
			if s, ok := v.(string); ok {
				data[k[5:]] = s
			}
		}
	}

	subject, body, err := Render(kind, data)
	if err != nil {
		c.log.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping mail message")
		return
	}

	if err := c.sender.Send(to, subject, body); err != nil {
		c.log.Error().Err(err).Str("kind", kind).Str("to", to).Msg("mail delivery failed")
		return
	}
	c.log.Info().Str("kind", kind).Str("to", to).Msg("mail delivered")
}

package client

import (
	"context"
	"fmt"
	"io"

	"github.com/go-redis/redis/v8"
)

// LiveBroker fans change events out to every API replica
type LiveBroker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, io.Closer, error)
}

// RedisBroker implements LiveBroker on redis pub/sub
type RedisBroker struct {
	rdb *redis.Client
}

// NewRedisBroker creates a broker on an established redis connection
func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Subscribe returns a channel of message payloads. It is closed when the
// returned Closer is closed, ctx ends, or the connection drops.
func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, io.Closer, error) {
	pubsub := b.rdb.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, pubsub, nil
}

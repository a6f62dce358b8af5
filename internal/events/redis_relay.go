package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"direct-chat/internal/realtime"

	"github.com/redis/go-redis/v9"
)

// ConnChannelPrefix namespaces the per-connection Pub/Sub channels.
const ConnChannelPrefix = "channel:conn:"

// Subscriber delivers raw payloads published on matching channels.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(connID string, payload []byte)) error
}

// RedisRelay routes events to a connection that may be served by any node.
// Every node publishes through Emit and runs Subscribe to pick up the events
// addressed to its own connections.
type RedisRelay struct {
	client *redis.Client
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client}
}

// Emit implements realtime.Emitter. Publishing to a channel nobody listens on
// is not an error: the push is best effort.
func (r *RedisRelay) Emit(ctx context.Context, connID, event string, payload any) error {
	data, err := json.Marshal(realtime.Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return r.client.Publish(ctx, ConnChannelPrefix+connID, data).Err()
}

// Subscribe blocks until ctx is done, handing each message to handler.
func (r *RedisRelay) Subscribe(ctx context.Context, handler func(connID string, payload []byte)) error {
	pubsub := r.client.PSubscribe(ctx, ConnChannelPrefix+"*")
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("psubscribe: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			connID := strings.TrimPrefix(msg.Channel, ConnChannelPrefix)
			handler(connID, []byte(msg.Payload))
		}
	}
}

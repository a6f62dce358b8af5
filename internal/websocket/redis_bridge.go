package websocket

import (
	"context"

	"direct-chat/internal/events"
)

// RedisBridge feeds events published by any node into this node's hub.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

// Run blocks until ctx is cancelled. Events for connections held by other
// nodes are ignored here.
func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, func(connID string, payload []byte) {
		b.hub.Deliver(connID, payload)
	})
}

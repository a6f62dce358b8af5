package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"direct-chat/internal/realtime"
	chat_errors "direct-chat/pkg/errors"
	"direct-chat/pkg/logger"

	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often the hub renews registry mappings for
// its live connections.
const DefaultRefreshInterval = time.Hour

type hubOp struct {
	client   *Client
	register bool
}

// Hub owns the connections served by this process and keeps the registry in
// step with them.
type Hub struct {
	mu sync.RWMutex

	// clients maps connection ID to client
	clients map[string]*Client

	registry realtime.Registry
	logger   *logger.Logger
	events   eventLogger

	// ops carries connects and disconnects in the order they were queued
	ops  chan hubOp
	done chan struct{}

	refreshInterval time.Duration
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithRefreshInterval sets how often live mappings are renewed in the
// registry. It should be well under the registry's TTL.
func WithRefreshInterval(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.refreshInterval = d
		}
	}
}

// NewHub creates a new WebSocket hub
func NewHub(registry realtime.Registry, l *logger.Logger, opts ...HubOption) *Hub {
	if l == nil {
		l = logger.NewNop()
	}
	h := &Hub{
		clients:         make(map[string]*Client),
		registry:        registry,
		logger:          l,
		events:          newEventLogger(l),
		ops:             make(chan hubOp, 256),
		done:            make(chan struct{}),
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's event loop. It must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.refreshInterval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case op := <-h.ops:
			if op.register {
				h.addClient(ctx, op.client)
			} else {
				h.removeClient(ctx, op.client)
			}
		case <-ticker.C:
			h.refreshAll(ctx)
		}
	}
}

// Register adds a new client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	return h.enqueue(hubOp{client: client, register: true})
}

// Unregister removes a client from the hub. It never blocks after the hub
// has stopped.
func (h *Hub) Unregister(client *Client) {
	h.enqueue(hubOp{client: client})
}

func (h *Hub) enqueue(op hubOp) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.ops <- op:
		return true
	case <-h.done:
		return false
	}
}

// Emit implements realtime.Emitter for connections owned by this hub.
func (h *Hub) Emit(_ context.Context, connID, event string, payload any) error {
	data, err := json.Marshal(realtime.Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if !h.Deliver(connID, data) {
		return fmt.Errorf("connection %s: %w", connID, chat_errors.ErrNotOnline)
	}
	return nil
}

// Deliver hands an encoded envelope to a local connection. It reports false
// if the connection is not served here or its buffer is full.
func (h *Hub) Deliver(connID string, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[connID]
	if !ok {
		return false
	}
	return client.SendMessage(payload)
}

// Broadcast sends an encoded envelope to every local connection.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	for _, client := range h.clients {
		client.SendMessage(payload)
	}
	h.mu.RUnlock()
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	if err := h.registry.Register(ctx, client.UserID, client.ID); err != nil {
		h.events.Error("register", client.UserID, client.ID, err)
	}
	h.events.Info("connected", client.UserID, client.ID, zap.Int("local_clients", h.GetClientCount()))
	h.broadcastOnlineUsers(ctx)
}

func (h *Hub) removeClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
	h.mu.Unlock()

	if err := h.registry.Unregister(ctx, client.UserID, client.ID); err != nil {
		h.events.Error("unregister", client.UserID, client.ID, err)
	}
	h.events.Info("disconnected", client.UserID, client.ID)
	h.broadcastOnlineUsers(ctx)
}

func (h *Hub) refreshAll(ctx context.Context) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := h.registry.Refresh(ctx, client.UserID, client.ID); err != nil {
			h.events.Error("refresh", client.UserID, client.ID, err)
		}
	}
}

func (h *Hub) broadcastOnlineUsers(ctx context.Context) {
	online, err := h.registry.OnlineUsers(ctx)
	if err != nil {
		h.logger.Errorf("list online users: %v", err)
		return
	}
	data, err := json.Marshal(realtime.Envelope{Event: realtime.EventOnlineUsers, Data: online})
	if err != nil {
		return
	}
	h.Broadcast(data)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}

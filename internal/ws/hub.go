package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"taskboard/internal/logger"

	"github.com/google/uuid"
)

// Relay carries frames between server instances.
type Relay interface {
	Publish(ctx context.Context, msg []byte) error
	// Subscribe blocks, calling handle for every message, until ctx is done.
	Subscribe(ctx context.Context, handle func(msg []byte)) error
}

// relayMessage wraps a frame published to other instances.
type relayMessage struct {
	Origin string          `json:"origin"`
	Topic  string          `json:"topic,omitempty"`
	Frame  json.RawMessage `json:"frame"`
}

// Hub keeps the connected clients and their topic subscriptions.
// An empty topic means every connected client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]room

	relay  Relay
	origin string
	// frames waiting for the relay, drained by Run
	outbound chan []byte
}

const (
	relayBuffer         = 256
	relayPublishTimeout = 2 * time.Second
)

func NewHub(relay Relay) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		rooms:    make(map[string]room),
		relay:    relay,
		origin:   uuid.NewString(),
		outbound: make(chan []byte, relayBuffer),
	}
}

// Run consumes the relay until ctx is cancelled. Without a relay it just waits.
func (h *Hub) Run(ctx context.Context) {
	if h.relay == nil {
		<-ctx.Done()
		return
	}
	go h.forward(ctx)
	for {
		err := h.relay.Subscribe(ctx, h.handleRelay)
		if ctx.Err() != nil {
			return
		}
		logger.Warn("ws relay subscription ended, resubscribing", "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// forward publishes queued frames to the relay until ctx is cancelled.
func (h *Hub) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.outbound:
			pctx, cancel := context.WithTimeout(ctx, relayPublishTimeout)
			if err := h.relay.Publish(pctx, msg); err != nil {
				logger.Warn("ws relay publish failed", "error", err)
			}
			cancel()
		}
	}
}

func (h *Hub) handleRelay(msg []byte) {
	var rm relayMessage
	if err := json.Unmarshal(msg, &rm); err != nil {
		logger.Warn("ws relay: bad message", "error", err)
		return
	}
	if rm.Origin == h.origin {
		return
	}
	h.deliver(rm.Topic, rm.Frame)
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	wsConnections.Inc()
}

// Unregister drops c from the hub and every room it joined.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for topic, r := range h.rooms {
		delete(r, c)
		if len(r) == 0 {
			delete(h.rooms, topic)
		}
	}
	h.mu.Unlock()
	wsConnections.Dec()
}

func (h *Hub) Join(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	r, ok := h.rooms[topic]
	if !ok {
		r = make(room)
		h.rooms[topic] = r
	}
	r[c] = struct{}{}
}

func (h *Hub) Leave(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[topic]; ok {
		delete(r, c)
		if len(r) == 0 {
			delete(h.rooms, topic)
		}
	}
}

// Broadcast sends event to every connected client.
func (h *Hub) Broadcast(event string, data any) {
	h.publish("", event, data)
}

// Emit sends event to the clients subscribed to topic.
func (h *Hub) Emit(topic, event string, data any) {
	h.publish(topic, event, data)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) TopicSize(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[topic])
}

func (h *Hub) publish(topic, event string, data any) {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		logger.Error("ws: marshal event", "event", event, "error", err)
		return
	}
	h.deliver(topic, frame)
	eventsPublished.WithLabelValues(event).Inc()

	if h.relay == nil {
		return
	}
	msg, err := json.Marshal(relayMessage{Origin: h.origin, Topic: topic, Frame: frame})
	if err != nil {
		return
	}
	select {
	case h.outbound <- msg:
	default:
		relayDropped.Inc()
		logger.Warn("ws relay queue full, dropping event", "event", event)
	}
}

func (h *Hub) deliver(topic string, frame []byte) {
	h.mu.RLock()
	var targets []*Client
	if topic == "" {
		targets = make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			targets = append(targets, c)
		}
	} else {
		r := h.rooms[topic]
		targets = make([]*Client, 0, len(r))
		for c := range r {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(frame) {
			logger.Warn("ws: dropping slow client", "client_id", c.ID, "user_id", c.UserID)
			go c.Close()
		}
	}
}

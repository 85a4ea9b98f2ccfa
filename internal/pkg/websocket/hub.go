package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Default size of each subscriber's outbound buffer
	defaultSendBufferSize = 64

	// Default time a publish waits on a full subscriber buffer before
	// evicting that subscriber
	defaultSendTimeout = time.Second
)

// Hub maintains one broadcast topic per bus. Topics are created on the
// first subscription and destroyed when the last subscriber leaves.
//
// The registry mutex guards only the topic map; each topic guards its
// own subscriber set, so publishing to one bus never blocks another.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]*topic

	sendTimeout    time.Duration
	sendBufferSize int

	logger zerolog.Logger
}

// topic is the subscriber set of one bus. closed is set, under both the
// registry lock and the topic lock, when the topic is removed from the
// registry; a closed topic never accepts new subscribers.
type topic struct {
	mu          sync.Mutex
	subscribers map[*Client]bool
	closed      bool
}

// NewHub creates a hub. Zero values select the defaults.
func NewHub(sendTimeout time.Duration, sendBufferSize int, logger zerolog.Logger) *Hub {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	if sendBufferSize <= 0 {
		sendBufferSize = defaultSendBufferSize
	}
	return &Hub{
		topics:         make(map[string]*topic),
		sendTimeout:    sendTimeout,
		sendBufferSize: sendBufferSize,
		logger:         logger,
	}
}

// Subscribe adds the client to the bus topic, creating the topic if it
// does not exist yet. Subscribing twice is a no-op.
func (h *Hub) Subscribe(busID string, client *Client) {
	for {
		h.mu.Lock()
		t, ok := h.topics[busID]
		if !ok {
			t = &topic{subscribers: make(map[*Client]bool)}
			h.topics[busID] = t
		}
		h.mu.Unlock()

		t.mu.Lock()
		if t.closed {
			// Lost a race with topic destruction; the registry entry is
			// gone, so look it up again.
			t.mu.Unlock()
			continue
		}
		t.subscribers[client] = true
		t.mu.Unlock()
		break
	}

	h.logger.Info().
		Str("busID", busID).
		Str("userID", client.userID).
		Msg("Client subscribed")
}

// Unsubscribe removes the client from the bus topic and destroys the
// topic when it becomes empty. Unsubscribing a client that is not
// subscribed is a no-op.
func (h *Hub) Unsubscribe(busID string, client *Client) {
	// The registry lock is never held while waiting on a topic lock: a
	// publish may hold the topic lock for up to the send timeout, and
	// stalling here must not stall other buses.
	h.mu.RLock()
	t, ok := h.topics[busID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	t.mu.Lock()
	if t.subscribers[client] {
		delete(t.subscribers, client)
		client.closeSend()
	}
	empty := len(t.subscribers) == 0
	t.mu.Unlock()

	if empty {
		h.destroyIfEmpty(busID, t)
	}

	h.logger.Info().
		Str("busID", busID).
		Str("userID", client.userID).
		Msg("Client unsubscribed")
}

// Publish serializes the event once and fans it out to every subscriber
// of the bus topic. A subscriber whose buffer stays full past the send
// timeout is evicted; the remaining subscribers are unaffected. Events
// published to the same bus arrive at each surviving subscriber in
// publish order.
func (h *Hub) Publish(busID string, event Event) {
	h.mu.RLock()
	t, ok := h.topics[busID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("busID", busID).Msg("Failed to marshal event")
		return
	}

	var evicted []*Client

	t.mu.Lock()
	for client := range t.subscribers {
		select {
		case client.send <- data:
		default:
			timer := time.NewTimer(h.sendTimeout)
			select {
			case client.send <- data:
				timer.Stop()
			case <-timer.C:
				delete(t.subscribers, client)
				client.closeSend()
				evicted = append(evicted, client)
			}
		}
	}
	t.mu.Unlock()

	for _, client := range evicted {
		h.logger.Warn().
			Str("busID", busID).
			Str("userID", client.userID).
			Msg("Evicted slow subscriber")
	}

	if len(evicted) > 0 {
		h.destroyIfEmpty(busID, t)
	}
}

// destroyIfEmpty removes the topic from the registry if it is still
// registered and still empty. Re-checking under both locks covers the
// window where another goroutine subscribed or the topic was already
// replaced.
func (h *Hub) destroyIfEmpty(busID string, t *topic) {
	h.mu.Lock()
	t.mu.Lock()
	if len(t.subscribers) == 0 && h.topics[busID] == t {
		t.closed = true
		delete(h.topics, busID)
	}
	t.mu.Unlock()
	h.mu.Unlock()
}

// SubscriberCount returns the number of subscribers on the bus topic
func (h *Hub) SubscriberCount(busID string) int {
	h.mu.RLock()
	t, ok := h.topics[busID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subscribers)
}

// TopicCount returns the number of live topics
func (h *Hub) TopicCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics)
}

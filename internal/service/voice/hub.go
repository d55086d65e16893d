// Package voice fans dispatch output events out to presentation clients:
// chat turns to render, reply text to vocalize, chart series to draw.
// Delivery is fire-and-forget; the engine never waits on a consumer.
package voice

import (
	"sync"
	"time"

	"github.com/avelasco/cryptochat/backend/internal/model/chat"
	"github.com/avelasco/cryptochat/backend/internal/model/market"
)

// Event types pushed to subscribers.
const (
	EventTurn  = "turn"
	EventSpeak = "speak"
	EventChart = "chart"
)

// Event is one presentation-layer notification for a session.
type Event struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId"`
	Turn      *chat.Turn          `json:"turn,omitempty"`
	Text      string              `json:"text,omitempty"`
	Series    *market.PriceSeries `json:"series,omitempty"`
	Timestamp int64               `json:"timestamp"`
}

const subscriberBuffer = 16

// Hub is a per-session publish/subscribe fan-out. Publishing never blocks:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a consumer for one session's events. The returned
// cancel function must be called to release the subscription.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[int]chan Event)
	}
	h.subs[sessionID][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[sessionID]; ok {
			if _, ok := set[id]; ok {
				delete(set, id)
				close(ch)
				if len(set) == 0 {
					delete(h.subs, sessionID)
				}
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the session.
func (h *Hub) Publish(sessionID string, event Event) {
	event.SessionID = sessionID
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[sessionID] {
		select {
		case ch <- event:
		default:
			// Slow consumer; drop rather than stall a dispatch.
		}
	}
}

// TurnAppended announces an appended chat turn.
func (h *Hub) TurnAppended(sessionID string, turn chat.Turn) {
	h.Publish(sessionID, Event{Type: EventTurn, Turn: &turn})
}

// SpeakRequested asks clients to vocalize reply text. Fire-and-forget: no
// acknowledgment is consumed.
func (h *Hub) SpeakRequested(sessionID, text string) {
	if text == "" {
		return
	}
	h.Publish(sessionID, Event{Type: EventSpeak, Text: text})
}

// ChartUpdated hands the current price series to chart consumers.
func (h *Hub) ChartUpdated(sessionID string, series *market.PriceSeries) {
	if series == nil {
		return
	}
	h.Publish(sessionID, Event{Type: EventChart, Series: series})
}

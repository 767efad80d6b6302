package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Envelope is the wire format for every server-to-dashboard event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub groups dashboard sessions by restaurant id and fans events out to
// them. Delivery is best-effort, at-most-once per connected session: there
// is no queue or replay, and a publish to an empty group is a no-op. The
// dashboard polls the orders endpoint to reconcile anything it missed.
//
// A Hub is constructed at server start and injected into handlers; it owns
// no goroutines of its own. Join, Publish and Disconnect are safe to call
// from concurrent connection handlers.
type Hub struct {
	logger *zap.SugaredLogger

	mu        sync.RWMutex
	groups    map[string]map[*Session]struct{}
	bySession map[*Session]string
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger:    logger,
		groups:    make(map[string]map[*Session]struct{}),
		bySession: make(map[*Session]string),
	}
}

// Join subscribes the session to the restaurant's group. A session belongs
// to at most one group; joining again moves it.
func (h *Hub) Join(s *Session, restaurantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.bySession[s]; ok {
		h.removeFromGroup(s, prev)
	}

	group, ok := h.groups[restaurantID]
	if !ok {
		group = make(map[*Session]struct{})
		h.groups[restaurantID] = group
	}
	group[s] = struct{}{}
	h.bySession[s] = restaurantID

	h.logger.Infow("session joined restaurant group", "restaurant_id", restaurantID)
}

// Disconnect removes the session from whatever group it is in and closes
// its send channel. Calling it for an unknown session is a no-op.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	restaurantID, ok := h.bySession[s]
	if !ok {
		return
	}
	h.removeFromGroup(s, restaurantID)
	delete(h.bySession, s)
	close(s.send)
}

// Publish delivers the event to every session currently in the restaurant's
// group. Sessions whose send buffer is full are dropped instead of blocking
// the caller.
func (h *Hub) Publish(restaurantID, event string, payload interface{}) {
	message, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Errorw("failed to marshal realtime event", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.groups[restaurantID] {
		select {
		case s.send <- message:
		default:
			h.removeFromGroup(s, restaurantID)
			delete(h.bySession, s)
			close(s.send)
			h.logger.Warnw("dropped slow dashboard session", "restaurant_id", restaurantID)
		}
	}
}

// GroupSize reports how many sessions are subscribed to the restaurant.
func (h *Hub) GroupSize(restaurantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.groups[restaurantID])
}

// removeFromGroup must be called with h.mu held.
func (h *Hub) removeFromGroup(s *Session, restaurantID string) {
	group, ok := h.groups[restaurantID]
	if !ok {
		return
	}
	delete(group, s)
	if len(group) == 0 {
		delete(h.groups, restaurantID)
	}
}

package realtime

import (
	"slices"
	"sync"
)

const defaultBuffer = 32

// Subscription receives the changes visible to one user.
type Subscription struct {
	C       <-chan Change
	ch      chan Change
	userID  string
	all     bool
	dropped int
}

// Dropped is the number of changes skipped because the subscriber was slow.
func (s *Subscription) Dropped() int { return s.dropped }

// Hub fans database changes out to connected clients. Publish never blocks:
// a full subscriber buffer drops the change and the client reconciles on the
// next one it gets.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a user. all=true (admins) receives every change.
func (h *Hub) Subscribe(userID string, all bool, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan Change, buffer)
	s := &Subscription{C: ch, ch: ch, userID: userID, all: all}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

// Publish delivers c to every interested subscriber and returns how many got it.
func (h *Hub) Publish(c Change) int {
	audience := c.Audience()
	delivered := 0

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if !s.all && audience != nil && !slices.Contains(audience, s.userID) {
			continue
		}
		select {
		case s.ch <- c:
			delivered++
		default:
			s.dropped++
		}
	}
	return delivered
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close drops every subscriber, closing their channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		delete(h.subs, s)
		close(s.ch)
	}
}

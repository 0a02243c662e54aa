// Package live pushes row changes announced by the database to interested
// subscribers.
package live

import (
	"log"
	"sync"
	"sync/atomic"
)

// Change is one row change emitted by a table trigger.
type Change struct {
	Collection string `json:"collection"`
	Op         string `json:"op"`
	ID         string `json:"id"`
	StoreID    string `json:"store_id"`
}

// Filter selects changes. Empty fields match everything.
type Filter struct {
	Collection string
	StoreID    string
}

func (f Filter) Match(c Change) bool {
	if f.Collection != "" && f.Collection != c.Collection {
		return false
	}
	if f.StoreID != "" && f.StoreID != c.StoreID {
		return false
	}
	return true
}

// Subscription receives the changes matching its filter on C. Changes are
// dropped while C is full.
type Subscription struct {
	C      <-chan Change
	ch     chan Change
	filter Filter
	hub    *Hub
}

// Close detaches the subscription and closes C.
func (s *Subscription) Close() { s.hub.unsubscribe(s) }

// Hub fans changes out to subscribers. It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(f Filter, buf int) *Subscription {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan Change, buf)
	s := &Subscription{C: ch, ch: ch, filter: f, hub: h}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

// Publish delivers c to every matching subscriber without blocking.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if !s.filter.Match(c) {
			continue
		}
		select {
		case s.ch <- c:
		default:
			if n := h.dropped.Add(1); n%100 == 1 {
				log.Printf("live: slow subscriber, dropped %s %s (total %d)", c.Collection, c.ID, n)
			}
		}
	}
}

// Len reports the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

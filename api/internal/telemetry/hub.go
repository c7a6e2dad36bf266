package telemetry

import (
	"sync"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

// Hub fans newly accepted scores out to live leaderboard watchers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int32][]chan domain.LeaderboardEntry // level -> watcher channels
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int32][]chan domain.LeaderboardEntry),
	}
}

// Subscribe registers a watcher for a level's live feed
func (h *Hub) Subscribe(level int32) chan domain.LeaderboardEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.LeaderboardEntry, 100) // Buffer so a slow socket never blocks an upload
	h.subscribers[level] = append(h.subscribers[level], ch)
	return ch
}

// Unsubscribe removes and closes a watcher channel
func (h *Hub) Unsubscribe(level int32, ch chan domain.LeaderboardEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[level]
	for i, sub := range subs {
		if sub == ch {
			h.subscribers[level] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(h.subscribers[level]) == 0 {
		delete(h.subscribers, level)
	}
}

// Broadcast sends an entry to every watcher of the level
func (h *Hub) Broadcast(level int32, entry domain.LeaderboardEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[level] {
		select {
		case ch <- entry:
		default: // Drop if the buffer is full
		}
	}
}

// watchers reports how many channels are subscribed to level.
func (h *Hub) watchers(level int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[level])
}

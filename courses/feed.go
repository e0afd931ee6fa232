package courses

import (
	"sync"

	"github.com/google/uuid"
)

// Feed fans newly posted announcements out to subscribed clients, one
// subscriber set per course. It backs the SSE stream endpoint.
type Feed struct {
	mu sync.RWMutex
	// subscribers maps course ID -> client ID -> delivery channel.
	subscribers map[int]map[string]chan *Announcement
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{subscribers: make(map[int]map[string]chan *Announcement)}
}

// Subscribe registers a client for a course's announcements. It returns the
// client's ID (used to unsubscribe) and the channel announcements arrive on.
func (f *Feed) Subscribe(courseID int) (string, <-chan *Announcement) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clientID := uuid.NewString()
	ch := make(chan *Announcement, 32)
	if f.subscribers[courseID] == nil {
		f.subscribers[courseID] = make(map[string]chan *Announcement)
	}
	f.subscribers[courseID][clientID] = ch
	return clientID, ch
}

// Unsubscribe removes a client and closes its channel. Unsubscribing an
// unknown client is a no-op.
func (f *Feed) Unsubscribe(courseID int, clientID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clients, ok := f.subscribers[courseID]
	if !ok {
		return
	}
	if ch, ok := clients[clientID]; ok {
		close(ch)
		delete(clients, clientID)
	}
	if len(clients) == 0 {
		delete(f.subscribers, courseID)
	}
}

// Publish delivers an announcement to every subscriber of its course. A
// subscriber whose buffer is full is skipped rather than blocking the poster.
func (f *Feed) Publish(courseID int, a *Announcement) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subscribers[courseID] {
		select {
		case ch <- a:
		default:
		}
	}
}

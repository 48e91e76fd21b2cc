package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultFeedSize is how many notifications are kept per user.
const DefaultFeedSize = 50

// Notification is one entry in a user's feed.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the most recent notifications of each user in memory.
type Feed struct {
	mu    sync.RWMutex
	size  int
	items map[string][]Notification
}

// NewFeed creates a feed holding at most size entries per user.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{
		size:  size,
		items: make(map[string][]Notification),
	}
}

// Push appends a notification for each recipient, evicting the oldest beyond the limit.
func (f *Feed) Push(recipients []string, n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, userID := range recipients {
		list := append(f.items[userID], n)
		if len(list) > f.size {
			list = list[len(list)-f.size:]
		}
		f.items[userID] = list
	}
}

// List returns the user's notifications, newest first.
func (f *Feed) List(userID string) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.items[userID]
	out := make([]Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out
}

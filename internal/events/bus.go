// Package events is the in-process change feed the stores publish to. Views subscribe and
// re-derive their projections when something they depend on changes.
package events

import (
	"sync"
	"time"
)

// Event types published by the stores and the batch processor.
const (
	LibraryItemAdded   = "library.added"
	LibraryItemRemoved = "library.removed"
	LibraryJobComplete = "library.job.completed"
	CampaignCreated    = "campaign.created"
	CampaignStatus     = "campaign.status"
	AlertDismissed     = "alert.dismissed"
	ABTestLaunched     = "abtest.launched"
	BalanceChanged     = "balance.changed"
)

// Event is a single change notification.
type Event struct {
	Type string    `json:"type"`
	ID   string    `json:"id,omitempty"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Publisher is what the stores depend on.
type Publisher interface {
	Publish(Event)
}

// Bus fans events out to subscribers. A subscriber that is not keeping up loses events
// rather than blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
}

// NewBus returns a bus whose subscriber channels hold up to buffer pending events.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{subs: make(map[int]chan Event), buffer: buffer}
}

// Subscribe returns a channel of events and a function that detaches it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many subscriptions are open.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Discard drops everything. Used where no bus is wired.
type Discard struct{}

func (Discard) Publish(Event) {}

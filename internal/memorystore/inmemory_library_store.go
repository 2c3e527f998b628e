package memorystore

import (
	"sync"

	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/metrics"
)

// InMemoryLibraryStore keeps the media library newest first.
type InMemoryLibraryStore struct {
	mu     sync.RWMutex
	items  []*media.MediaItem
	events events.Publisher
}

var _ media.LibraryStore = (*InMemoryLibraryStore)(nil)

// NewInMemoryLibraryStore creates a store holding seed, which is given newest first.
func NewInMemoryLibraryStore(pub events.Publisher, seed ...*media.MediaItem) *InMemoryLibraryStore {
	if pub == nil {
		pub = events.Discard{}
	}
	s := &InMemoryLibraryStore{events: pub}
	for _, it := range seed {
		s.items = append(s.items, it.Clone())
	}
	metrics.LibraryItems.Set(float64(len(s.items)))
	return s
}

// Add prepends a copy of item.
func (s *InMemoryLibraryStore) Add(item *media.MediaItem) {
	c := item.Clone()
	s.mu.Lock()
	s.items = append([]*media.MediaItem{c}, s.items...)
	n := len(s.items)
	s.mu.Unlock()

	metrics.LibraryItems.Set(float64(n))
	s.events.Publish(events.Event{Type: events.LibraryItemAdded, ID: c.ID, Data: c.Clone()})
}

// Remove deletes the item with id, if present.
func (s *InMemoryLibraryStore) Remove(id string) {
	s.mu.Lock()
	removed := false
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	n := len(s.items)
	s.mu.Unlock()

	if !removed {
		return
	}
	metrics.LibraryItems.Set(float64(n))
	s.events.Publish(events.Event{Type: events.LibraryItemRemoved, ID: id})
}

func (s *InMemoryLibraryStore) Get(id string) (*media.MediaItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return nil, false
}

func (s *InMemoryLibraryStore) List() []*media.MediaItem {
	return s.snapshot()
}

func (s *InMemoryLibraryStore) Filter(f media.Filter) []*media.MediaItem {
	return media.Apply(s.snapshot(), f)
}

func (s *InMemoryLibraryStore) Resolve(ids []string) []*media.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := make(map[string]*media.MediaItem, len(s.items))
	for _, it := range s.items {
		byID[it.ID] = it
	}
	out := make([]*media.MediaItem, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if it, ok := byID[id]; ok {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (s *InMemoryLibraryStore) AvailableCreatives(game games.Name) []*media.MediaItem {
	return media.AvailableFor(s.snapshot(), game)
}

func (s *InMemoryLibraryStore) AvailableImages() []*media.MediaItem {
	return media.OfType(s.snapshot(), media.TypeImage)
}

func (s *InMemoryLibraryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *InMemoryLibraryStore) snapshot() []*media.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*media.MediaItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

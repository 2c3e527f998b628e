package memorystore

import (
	"fmt"
	"sync"
	"time"

	"github.com/superleo/marketingops/backend/internal/apps"
	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/metrics"
)

// InMemoryAppRegistry keeps one entry per game in display order.
type InMemoryAppRegistry struct {
	mu     sync.RWMutex
	apps   []*apps.AppDetails
	events events.Publisher
}

var _ apps.Registry = (*InMemoryAppRegistry)(nil)

func NewInMemoryAppRegistry(pub events.Publisher, seed []*apps.AppDetails) *InMemoryAppRegistry {
	if pub == nil {
		pub = events.Discard{}
	}
	r := &InMemoryAppRegistry{events: pub}
	for _, a := range seed {
		r.apps = append(r.apps, a.Clone())
	}
	return r
}

func (r *InMemoryAppRegistry) List() []*apps.AppDetails {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*apps.AppDetails, len(r.apps))
	for i, a := range r.apps {
		out[i] = a.Clone()
	}
	return out
}

func (r *InMemoryAppRegistry) Get(name games.Name) (*apps.AppDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a := r.find(name); a != nil {
		return a.Clone(), nil
	}
	return nil, fmt.Errorf("app %q: %w", name, apps.ErrAppNotFound)
}

// LaunchABTest replaces the active test of name. The previous test is discarded.
func (r *InMemoryAppRegistry) LaunchABTest(name games.Name, challengers []*media.MediaItem, now time.Time) (*apps.ABTest, error) {
	test, err := apps.NewABTest(challengers, now)
	if err != nil {
		return nil, fmt.Errorf("launch test for %q: %w", name, err)
	}

	r.mu.Lock()
	a := r.find(name)
	if a == nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("app %q: %w", name, apps.ErrAppNotFound)
	}
	a.ActiveABTest = test
	r.mu.Unlock()

	metrics.ABTestsLaunched.WithLabelValues(string(name)).Inc()
	r.events.Publish(events.Event{Type: events.ABTestLaunched, ID: string(name), Data: test.Clone()})
	return test.Clone(), nil
}

// find must be called with mu held.
func (r *InMemoryAppRegistry) find(name games.Name) *apps.AppDetails {
	for _, a := range r.apps {
		if a.Name == name {
			return a
		}
	}
	return nil
}

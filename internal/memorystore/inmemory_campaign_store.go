package memorystore

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/superleo/marketingops/backend/internal/campaigns"
	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/metrics"
	"github.com/superleo/marketingops/backend/internal/validation"
)

// InMemoryCampaignStore provides an in-memory implementation of the CampaignStore interface.
type InMemoryCampaignStore struct {
	mu        sync.RWMutex
	campaigns []*campaigns.Campaign // newest first
	alerts    []campaigns.Alert
	dismissed map[int]bool
	events    events.Publisher
	now       func() time.Time
}

var _ campaigns.CampaignStore = (*InMemoryCampaignStore)(nil)

// NewInMemoryCampaignStore creates a store seeded with seed (newest first) and alerts.
func NewInMemoryCampaignStore(pub events.Publisher, seed []*campaigns.Campaign, alerts []campaigns.Alert) *InMemoryCampaignStore {
	if pub == nil {
		pub = events.Discard{}
	}
	s := &InMemoryCampaignStore{
		alerts:    append([]campaigns.Alert(nil), alerts...),
		dismissed: make(map[int]bool),
		events:    pub,
		now:       time.Now,
	}
	for _, c := range seed {
		s.campaigns = append(s.campaigns, c.Clone())
	}
	return s
}

// Create validates the draft and prepends a new active campaign.
func (s *InMemoryCampaignStore) Create(d campaigns.Draft) (*campaigns.Campaign, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	c := &campaigns.Campaign{
		ID:          uuid.NewString(),
		Name:        d.DisplayName(),
		Game:        d.Game,
		Status:      campaigns.StatusActive,
		Budget:      d.Budget,
		Platform:    d.Platform,
		CreatedAt:   s.now().UTC(),
		CreativeIDs: append([]string{}, d.CreativeIDs...),
		Targeting:   d.Targeting,
	}

	s.mu.Lock()
	s.campaigns = append([]*campaigns.Campaign{c}, s.campaigns...)
	s.mu.Unlock()

	metrics.CampaignsCreated.Inc()
	s.events.Publish(events.Event{Type: events.CampaignCreated, ID: c.ID, Data: c.Clone()})
	return c.Clone(), nil
}

// Get retrieves a campaign by id.
func (s *InMemoryCampaignStore) Get(id string) (*campaigns.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.find(id); c != nil {
		return c.Clone(), nil
	}
	return nil, fmt.Errorf("campaign %s: %w", id, campaigns.ErrCampaignNotFound)
}

// List returns the campaigns matching f, newest first.
func (s *InMemoryCampaignStore) List(f campaigns.Filter) []*campaigns.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*campaigns.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		if f.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// UpdateStatus changes the status of a campaign.
func (s *InMemoryCampaignStore) UpdateStatus(id string, status campaigns.CampaignStatus) (*campaigns.Campaign, error) {
	if !status.Valid() {
		return nil, validation.New(validation.CodeInvalidField, "unknown status %q", status)
	}
	s.mu.Lock()
	c := s.find(id)
	if c == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("campaign %s: %w", id, campaigns.ErrCampaignNotFound)
	}
	if status == campaigns.StatusActive && len(c.CreativeIDs) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("activate campaign %s: %w", id, validation.ErrMissingCreatives)
	}
	c.Status = status
	out := c.Clone()
	s.mu.Unlock()

	s.events.Publish(events.Event{Type: events.CampaignStatus, ID: id, Data: out.Clone()})
	return out, nil
}

func (s *InMemoryCampaignStore) Summary(f campaigns.Filter) campaigns.Summary {
	return campaigns.Summarize(s.List(f))
}

func (s *InMemoryCampaignStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.campaigns)
}

// Alerts returns the alerts that have not been dismissed.
func (s *InMemoryCampaignStore) Alerts(game games.Name) []campaigns.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]campaigns.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if s.dismissed[a.ID] {
			continue
		}
		if game != "" && game != games.AllGames && a.Game != game {
			continue
		}
		out = append(out, a)
	}
	return out
}

// DismissAlert hides the alert with id.
func (s *InMemoryCampaignStore) DismissAlert(id int) {
	s.mu.Lock()
	already := s.dismissed[id]
	s.dismissed[id] = true
	s.mu.Unlock()

	if !already {
		s.events.Publish(events.Event{Type: events.AlertDismissed, ID: fmt.Sprint(id)})
	}
}

// find must be called with mu held.
func (s *InMemoryCampaignStore) find(id string) *campaigns.Campaign {
	for _, c := range s.campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

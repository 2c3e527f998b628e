package memorystore

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/superleo/marketingops/backend/internal/campaigns"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/validation"
)

func newCampaignStore() *InMemoryCampaignStore {
	return NewInMemoryCampaignStore(nil, SeedCampaigns(time.Now()), SeedAlerts())
}

func TestCreateWithoutCreativesLeavesStoreUnchanged(t *testing.T) {
	s := newCampaignStore()
	before := s.Len()

	_, err := s.Create(campaigns.NewDraft())
	if !errors.Is(err, validation.ErrMissingCreatives) {
		t.Fatalf("Create() error = %v, want ErrMissingCreatives", err)
	}
	if s.Len() != before {
		t.Fatalf("Len() = %d, want %d", s.Len(), before)
	}
}

func TestCreatePrependsActiveCampaign(t *testing.T) {
	s := newCampaignStore()
	d := campaigns.NewDraft()
	d.SetGame(games.FishIdle)
	d.ToggleCreative("demo-2")

	c, err := s.Create(d)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if c.Status != campaigns.StatusActive || c.Spent != 0 || c.Clicks != 0 || c.Impressions != 0 {
		t.Fatalf("Create() = %+v", c)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Fatalf("id/createdAt not assigned: %+v", c)
	}
	if c.Name != "Campaign Fish Idle" {
		t.Fatalf("Name = %q", c.Name)
	}
	if first := s.List(campaigns.Filter{})[0]; first.ID != c.ID {
		t.Fatalf("List()[0] = %s, want %s", first.ID, c.ID)
	}
}

func TestPresetRoundTrip(t *testing.T) {
	s := newCampaignStore()
	for _, p := range campaigns.Presets() {
		d := campaigns.NewDraft()
		d.ToggleCreative("demo-1")
		d.ApplyPreset(p, time.Now())

		c, err := s.Create(d)
		if err != nil {
			t.Fatalf("%s: Create() error = %v", p.ID, err)
		}
		got, err := s.Get(c.ID)
		if err != nil {
			t.Fatalf("%s: Get() error = %v", p.ID, err)
		}
		if got.Budget != p.Budget || got.Targeting.Geo != p.Geo || got.Platform != p.Platform {
			t.Fatalf("%s: read back %+v", p.ID, got)
		}
		if !strings.Contains(got.Name, p.Suffix) {
			t.Fatalf("%s: Name %q lacks suffix %q", p.ID, got.Name, p.Suffix)
		}
	}
}

func TestListFilters(t *testing.T) {
	s := newCampaignStore()
	tests := []struct {
		filter campaigns.Filter
		want   int
	}{
		{campaigns.Filter{}, 3},
		{campaigns.Filter{Game: games.AllGames, Platform: campaigns.PlatformAll}, 3},
		{campaigns.Filter{Game: games.FishIdle}, 1},
		{campaigns.Filter{Platform: campaigns.PlatformFacebook}, 1},
		{campaigns.Filter{Game: games.FishIdle, Platform: campaigns.PlatformGoogle}, 0},
	}
	for _, tt := range tests {
		if got := len(s.List(tt.filter)); got != tt.want {
			t.Fatalf("List(%+v) = %d campaigns, want %d", tt.filter, got, tt.want)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	s := newCampaignStore()

	if _, err := s.UpdateStatus("nope", campaigns.StatusPaused); !errors.Is(err, campaigns.ErrCampaignNotFound) {
		t.Fatalf("unknown id error = %v", err)
	}
	if _, err := s.UpdateStatus("2", campaigns.StatusActive); !errors.Is(err, validation.ErrMissingCreatives) {
		t.Fatalf("activate without creatives error = %v", err)
	}
	c, err := s.UpdateStatus("1", campaigns.StatusCompleted)
	if err != nil || c.Status != campaigns.StatusCompleted {
		t.Fatalf("UpdateStatus() = %+v, %v", c, err)
	}
	if _, err := s.UpdateStatus("1", "archived"); err == nil {
		t.Fatalf("unknown status accepted")
	}
}

func TestAlertsDismiss(t *testing.T) {
	s := newCampaignStore()
	if got := len(s.Alerts(games.AllGames)); got != 3 {
		t.Fatalf("len(Alerts) = %d, want 3", got)
	}
	if got := s.Alerts(games.FishIdle); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("Alerts(Fish Idle) = %+v", got)
	}
	s.DismissAlert(2)
	s.DismissAlert(2)
	s.DismissAlert(99)
	if got := len(s.Alerts("")); got != 2 {
		t.Fatalf("len(Alerts) after dismiss = %d, want 2", got)
	}
}

func TestSummary(t *testing.T) {
	s := newCampaignStore()
	sum := s.Summary(campaigns.Filter{})
	if sum.Campaigns != 3 || sum.Active != 2 || sum.Budget != 15000 || sum.Clicks != 2450 {
		t.Fatalf("Summary() = %+v", sum)
	}
}

package campaigns

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/validation"
)

func TestApplyPresetKeepsUnmentionedFields(t *testing.T) {
	d := NewDraft()
	d.Game = games.FishIdle
	d.Targeting.Age = "25-34"
	d.Targeting.Gender = GenderFemale
	d.ToggleCreative("c1")

	p, ok := PresetByID("ww-usa-ab")
	if !ok {
		t.Fatalf("PresetByID(ww-usa-ab) not found")
	}
	d.ApplyPreset(p, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))

	if d.Name != "Fish Idle USA AB 2026-03-09" {
		t.Fatalf("Name = %q", d.Name)
	}
	if d.Targeting.Geo != "US" || d.Budget != 15000 || d.Platform != PlatformTikTok {
		t.Fatalf("preset fields not applied: %+v", d)
	}
	if d.Targeting.Age != "25-34" || d.Targeting.Gender != GenderFemale {
		t.Fatalf("age/gender changed: %+v", d.Targeting)
	}
	if !reflect.DeepEqual(d.CreativeIDs, []string{"c1"}) {
		t.Fatalf("creatives changed: %v", d.CreativeIDs)
	}
}

func TestToggleCreative(t *testing.T) {
	d := NewDraft()
	d.ToggleCreative("a")
	d.ToggleCreative("b")
	d.ToggleCreative("a")
	if !reflect.DeepEqual(d.CreativeIDs, []string{"b"}) {
		t.Fatalf("CreativeIDs = %v, want [b]", d.CreativeIDs)
	}
	if d.HasCreative("a") || !d.HasCreative("b") {
		t.Fatalf("HasCreative mismatch for %v", d.CreativeIDs)
	}
}

func TestSetGameResetsCreatives(t *testing.T) {
	d := NewDraft()
	d.ToggleCreative("a")

	d.SetGame(d.Game)
	if len(d.CreativeIDs) != 1 {
		t.Fatalf("same game must keep creatives, got %v", d.CreativeIDs)
	}

	d.SetGame(games.Evolution)
	if d.Game != games.Evolution || len(d.CreativeIDs) != 0 {
		t.Fatalf("SetGame(Evolution) = %+v", d)
	}
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
		field   string
	}{
		{name: "valid", mutate: func(d *Draft) { d.ToggleCreative("x") }},
		{name: "no creatives", mutate: func(d *Draft) { d.Budget = -5 }, wantErr: validation.ErrMissingCreatives},
		{name: "negative budget", mutate: func(d *Draft) { d.ToggleCreative("x"); d.Budget = -1 }, field: "budget"},
		{name: "unknown platform", mutate: func(d *Draft) { d.ToggleCreative("x"); d.Platform = PlatformMintegral }, field: "platform"},
		{name: "bad gender", mutate: func(d *Draft) { d.ToggleCreative("x"); d.Targeting.Gender = "other" }, field: "gender"},
		{name: "unknown game", mutate: func(d *Draft) { d.ToggleCreative("x"); d.Game = "Tetris" }, field: "appName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			tt.mutate(&d)
			err := d.Validate()
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
				}
			case tt.field != "":
				var verr *validation.Error
				if !errors.As(err, &verr) || verr.Field != tt.field {
					t.Fatalf("Validate() = %v, want field %q", err, tt.field)
				}
			default:
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	d := NewDraft()
	if got := d.DisplayName(); !strings.HasPrefix(got, "Campaign ") || !strings.HasSuffix(got, string(games.Default())) {
		t.Fatalf("DisplayName() = %q", got)
	}
	d.Name = "Launch"
	if d.DisplayName() != "Launch" {
		t.Fatalf("DisplayName() = %q", d.DisplayName())
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]*Campaign{
		{Status: StatusActive, Budget: 100, Spent: 10, Clicks: 5, Impressions: 100},
		{Status: StatusPaused, Budget: 50, Spent: 50, Clicks: 15, Impressions: 900},
	})
	if s.Campaigns != 2 || s.Active != 1 || s.Budget != 150 || s.Spent != 60 || s.Clicks != 20 || s.Impressions != 1000 {
		t.Fatalf("Summarize() = %+v", s)
	}
	if s.CTR != 2 {
		t.Fatalf("CTR = %v, want 2", s.CTR)
	}
}

func TestFilterMatches(t *testing.T) {
	c := &Campaign{Game: games.FishIdle, Platform: PlatformTikTok}
	tests := []struct {
		filter Filter
		want   bool
	}{
		{Filter{}, true},
		{Filter{Game: games.AllGames, Platform: PlatformAll}, true},
		{Filter{Game: games.FishIdle}, true},
		{Filter{Game: games.Evolution}, false},
		{Filter{Platform: PlatformGoogle}, false},
		{Filter{Game: games.FishIdle, Platform: PlatformTikTok}, true},
	}
	for _, tt := range tests {
		if got := tt.filter.Matches(c); got != tt.want {
			t.Fatalf("%+v.Matches() = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

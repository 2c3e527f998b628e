package media

import (
	"reflect"
	"testing"

	"github.com/superleo/marketingops/backend/internal/games"
)

func sampleItems() []*MediaItem {
	return []*MediaItem{
		{ID: "v1", Type: TypeVideo, Title: "Shark attack", Tags: []string{"ocean"}, Game: games.FishIdle},
		{ID: "i1", Type: TypeImage, Title: "City night", Tags: []string{"Cyberpunk", "demo"}, Game: games.GrandTheftAuto},
		{ID: "i2", Type: TypeImage, Title: "Fish icon", Tags: []string{"icon"}, Game: games.FishIdle},
		{ID: "p1", Type: TypePlayableAd, Title: "Tap game", Tags: []string{"demo"}},
	}
}

func ids(items []*MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no criteria", filter: Filter{}, want: []string{"v1", "i1", "i2", "p1"}},
		{name: "wildcards", filter: Filter{Type: TypeAll, Game: games.AllGames}, want: []string{"v1", "i1", "i2", "p1"}},
		{name: "title match ignores case", filter: Filter{Search: "FISH"}, want: []string{"i2"}},
		{name: "tag match", filter: Filter{Search: "cyber"}, want: []string{"i1"}},
		{name: "type", filter: Filter{Type: TypeImage}, want: []string{"i1", "i2"}},
		{name: "game", filter: Filter{Game: games.FishIdle}, want: []string{"v1", "i2"}},
		{name: "conjunction", filter: Filter{Search: "demo", Type: TypeImage}, want: []string{"i1"}},
		{name: "no match", filter: Filter{Search: "demo", Game: games.Evolution}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := sampleItems()
			got := ids(Apply(items, tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
			again := ids(Apply(items, tt.filter))
			if !reflect.DeepEqual(got, again) {
				t.Fatalf("Apply() not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestAvailableFor(t *testing.T) {
	got := ids(AvailableFor(sampleItems(), games.FishIdle))
	want := []string{"v1", "i2", "p1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableFor(Fish Idle) = %v, want %v", got, want)
	}
}

func TestOfType(t *testing.T) {
	if got := ids(OfType(sampleItems(), TypeImage)); !reflect.DeepEqual(got, []string{"i1", "i2"}) {
		t.Fatalf("OfType(IMAGE) = %v", got)
	}
}

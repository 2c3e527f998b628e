package apps

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

func image(id string) *media.MediaItem {
	return &media.MediaItem{ID: id, Type: media.TypeImage, URL: "https://img/" + id}
}

func TestNewABTest(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	test, err := NewABTest([]*media.MediaItem{image("a"), image("b")}, now)
	if err != nil {
		t.Fatalf("NewABTest() error = %v", err)
	}
	if test.Status != TestActive || !test.StartDate.Equal(now) {
		t.Fatalf("NewABTest() = %+v", test)
	}
	if len(test.Variants) != 3 {
		t.Fatalf("len(Variants) = %d, want 3", len(test.Variants))
	}
	if !test.Variants[0].IsControl || test.Variants[0].ImageURL != ControlImageURL {
		t.Fatalf("Variants[0] = %+v, want control", test.Variants[0])
	}
	controls := 0
	for i, v := range test.Variants {
		if v.IsControl {
			controls++
		}
		if v.Impressions != 0 || v.Conversions != 0 || v.PerformanceCtx != 0 {
			t.Fatalf("Variants[%d] metrics not zeroed: %+v", i, v)
		}
	}
	if controls != 1 {
		t.Fatalf("controls = %d, want 1", controls)
	}
	if test.Variants[1].ImageURL != "https://img/a" || test.Variants[2].ImageURL != "https://img/b" {
		t.Fatalf("challenger order not preserved: %+v", test.Variants)
	}
}

func TestNewABTestRejectsBadSelection(t *testing.T) {
	four := []*media.MediaItem{image("a"), image("b"), image("c"), image("d")}
	video := &media.MediaItem{ID: "v", Type: media.TypeVideo}
	for name, sel := range map[string][]*media.MediaItem{
		"empty":     nil,
		"too many":  four,
		"non image": {image("a"), video},
	} {
		if _, err := NewABTest(sel, time.Now()); !errors.Is(err, validation.ErrInvalidChallengerSelection) {
			t.Fatalf("%s: NewABTest() error = %v", name, err)
		}
	}
}

func TestSelectionRefusesFourth(t *testing.T) {
	var s Selection
	for i := 0; i < MaxChallengers; i++ {
		if !s.Toggle(image(fmt.Sprint(i))) {
			t.Fatalf("Toggle(%d) refused", i)
		}
	}
	if s.Toggle(image("extra")) {
		t.Fatalf("fourth image accepted")
	}
	if !s.Toggle(image("1")) || s.Len() != 2 {
		t.Fatalf("deselect failed, len = %d", s.Len())
	}
	if !s.Toggle(image("extra")) || s.Len() != 3 {
		t.Fatalf("reselect after removal failed, len = %d", s.Len())
	}
}

func TestDaysRunning(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	test := &ABTest{StartDate: start}
	tests := []struct {
		now  time.Time
		want int
	}{
		{start, 0},
		{start.Add(23 * time.Hour), 0},
		{start.Add(72 * time.Hour), 3},
		{start.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		if got := DaysRunning(test, tt.now); got != tt.want {
			t.Fatalf("DaysRunning(%v) = %d, want %d", tt.now, got, tt.want)
		}
	}
}

func TestPerformanceBarWidth(t *testing.T) {
	for ctx, want := range map[float64]float64{0: 50, 15.4: 65.4, -8.2: 41.8} {
		if got := PerformanceBarWidth(ABVariant{PerformanceCtx: ctx}); math.Abs(got-want) > 1e-9 {
			t.Fatalf("PerformanceBarWidth(%v) = %v, want %v", ctx, got, want)
		}
	}
}

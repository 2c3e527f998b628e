package library

import (
	"errors"
	"testing"

	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

func TestCheck(t *testing.T) {
	img := &media.MediaItem{ID: "i", Type: media.TypeImage}
	vid := &media.MediaItem{ID: "v", Type: media.TypeVideo}
	ad := &media.MediaItem{ID: "p", Type: media.TypePlayableAd}

	tests := []struct {
		op    Operation
		items []*media.MediaItem
		ok    bool
	}{
		{OpMerge, nil, false},
		{OpMerge, []*media.MediaItem{vid}, false},
		{OpMerge, []*media.MediaItem{img, ad}, true},
		{OpExtend, []*media.MediaItem{vid}, true},
		{OpExtend, []*media.MediaItem{img}, false},
		{OpExtend, []*media.MediaItem{vid, vid}, false},
		{OpRemoveBackground, nil, false},
		{OpRemoveBackground, []*media.MediaItem{img, img}, true},
		{OpRemoveBackground, []*media.MediaItem{img, vid}, false},
		{"sharpen", []*media.MediaItem{img}, false},
	}
	for _, tt := range tests {
		err := Check(tt.op, tt.items)
		if tt.ok && err != nil {
			t.Fatalf("Check(%s, %d items) error = %v", tt.op, len(tt.items), err)
		}
		if !tt.ok && !errors.Is(err, validation.ErrInvalidBatchSelection) {
			t.Fatalf("Check(%s, %d items) error = %v, want ErrInvalidBatchSelection", tt.op, len(tt.items), err)
		}
	}
}

func TestCapabilitiesOfSingleVideo(t *testing.T) {
	caps := CapabilitiesOf([]*media.MediaItem{{ID: "v", Type: media.TypeVideo}})
	if caps != (Capabilities{Extend: true}) {
		t.Fatalf("CapabilitiesOf(video) = %+v", caps)
	}
}

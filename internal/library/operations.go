// Package library runs the batch operations that derive new creatives from a selection of
// existing ones. Operations are simulated: each waits out a fixed delay and then adds the
// synthesized items to the library. Sources are never modified.
package library

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

// Operation names a batch operation.
type Operation string

const (
	OpMerge            Operation = "merge"
	OpExtend           Operation = "extend"
	OpRemoveBackground Operation = "remove-background"
)

// Operations lists every batch operation.
var Operations = []Operation{OpMerge, OpExtend, OpRemoveBackground}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case OpMerge, OpExtend, OpRemoveBackground:
		return true
	}
	return false
}

const (
	mergedVideoURL     = "https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"
	mergedThumbnailURL = "https://picsum.photos/320/180?random=merge"

	defaultMergeDelay  = 2 * time.Second
	defaultExtendDelay = 2 * time.Second
	defaultNoBGDelay   = 1500 * time.Millisecond
	defaultJobHistory  = 128
)

// Capabilities reports which operations a selection allows.
type Capabilities struct {
	Merge            bool `json:"merge"`
	Extend           bool `json:"extend"`
	RemoveBackground bool `json:"removeBackground"`
}

// CapabilitiesOf evaluates every precondition against items.
func CapabilitiesOf(items []*media.MediaItem) Capabilities {
	return Capabilities{
		Merge:            Check(OpMerge, items) == nil,
		Extend:           Check(OpExtend, items) == nil,
		RemoveBackground: Check(OpRemoveBackground, items) == nil,
	}
}

// Check returns an error wrapping validation.ErrInvalidBatchSelection when items do not satisfy
// the preconditions of op.
func Check(op Operation, items []*media.MediaItem) error {
	switch op {
	case OpMerge:
		if len(items) < 2 {
			return invalid(op, "needs at least 2 items, got %d", len(items))
		}
	case OpExtend:
		if len(items) != 1 {
			return invalid(op, "needs exactly 1 item, got %d", len(items))
		}
		if items[0].Type != media.TypeVideo {
			return invalid(op, "needs a video, got %s", items[0].Type)
		}
	case OpRemoveBackground:
		if len(items) == 0 {
			return invalid(op, "needs at least 1 item")
		}
		for _, it := range items {
			if it.Type != media.TypeImage {
				return invalid(op, "every item must be an image, %q is %s", it.ID, it.Type)
			}
		}
	default:
		return invalid(op, "unknown operation")
	}
	return nil
}

func invalid(op Operation, format string, args ...any) error {
	return validation.New(validation.CodeInvalidBatchSelection, "%s: %s", op, fmt.Sprintf(format, args...))
}

// synthesize builds the items op derives from sources. sources must already pass Check.
func synthesize(op Operation, sources []*media.MediaItem, now time.Time) []*media.MediaItem {
	switch op {
	case OpMerge:
		return []*media.MediaItem{{
			ID:         uuid.NewString(),
			Type:       media.TypeVideo,
			URL:        mergedVideoURL,
			Thumbnail:  mergedThumbnailURL,
			Title:      fmt.Sprintf("Merged (%d clips)", len(sources)),
			CreatedAt:  now,
			Tags:       []string{media.TagMerged, "video"},
			Game:       sources[0].Game,
			CPIMetrics: media.RandomCPI(nil),
		}}
	case OpExtend:
		src := sources[0].Clone()
		return []*media.MediaItem{{
			ID:         uuid.NewString(),
			Type:       media.TypeVideo,
			URL:        src.URL,
			Thumbnail:  src.Thumbnail,
			Title:      src.Title + " (Extended)",
			CreatedAt:  now,
			Tags:       append(src.Tags, media.TagExtended),
			Game:       src.Game,
			CPIMetrics: src.CPIMetrics,
		}}
	case OpRemoveBackground:
		out := make([]*media.MediaItem, 0, len(sources))
		for _, s := range sources {
			src := s.Clone()
			out = append(out, &media.MediaItem{
				ID:        uuid.NewString(),
				Type:      media.TypeImage,
				URL:       src.URL,
				Thumbnail: src.Thumbnail,
				Title:     src.Title + " (No BG)",
				CreatedAt: now,
				Tags:      append(src.Tags, media.TagNoBackground),
				Game:      src.Game,
			})
		}
		return out
	}
	return nil
}

// Package media defines the creative artifacts kept in the library and the pure projections
// the library view derives from them.
package media

import (
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/superleo/marketingops/backend/internal/games"
)

// MediaType is the kind of a creative. It never changes after creation.
type MediaType string

const (
	TypeVideo      MediaType = "VIDEO"
	TypeImage      MediaType = "IMAGE"
	TypePlayableAd MediaType = "PLAYABLE_AD"

	// TypeAll is the filter wildcard.
	TypeAll MediaType = "ALL"
)

// Valid reports whether t is a concrete kind.
func (t MediaType) Valid() bool {
	switch t {
	case TypeVideo, TypeImage, TypePlayableAd:
		return true
	}
	return false
}

// Tags that mark items derived by batch operations or created elsewhere in the app.
const (
	TagMerged        = "merged"
	TagExtended      = "extended"
	TagNoBackground  = "no-bg"
	TagGenerated     = "generated"
	TagChatGenerated = "chat-generated"
)

// CPIMetrics is cost-per-install by region.
type CPIMetrics struct {
	WW  float64 `json:"ww"`
	USA float64 `json:"usa"`
}

// Metadata records how an item was produced.
type Metadata struct {
	Duration   float64 `json:"duration,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
	Prompt     string  `json:"prompt,omitempty"`
	Model      string  `json:"model,omitempty"`
}

// MediaItem is a creative owned by the library. Items are never edited in place; derived
// items are new entities with their own id.
type MediaItem struct {
	ID         string      `json:"id"`
	Type       MediaType   `json:"type" validate:"required,oneof=VIDEO IMAGE PLAYABLE_AD"`
	URL        string      `json:"url" validate:"required"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Title      string      `json:"title"`
	CreatedAt  time.Time   `json:"-"`
	Tags       []string    `json:"tags"`
	Game       games.Name  `json:"appName,omitempty" validate:"omitempty,game"`
	CPIMetrics *CPIMetrics `json:"cpiMetrics,omitempty"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
}

// HasTag reports whether the item carries tag, ignoring case.
func (m *MediaItem) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never alias store state.
func (m *MediaItem) Clone() *MediaItem {
	if m == nil {
		return nil
	}
	c := *m
	if m.Tags != nil {
		c.Tags = append([]string(nil), m.Tags...)
	}
	if m.CPIMetrics != nil {
		cpi := *m.CPIMetrics
		c.CPIMetrics = &cpi
	}
	if m.Metadata != nil {
		md := *m.Metadata
		c.Metadata = &md
	}
	return &c
}

// mediaItemWire is the JSON shape of MediaItem with createdAt in Unix milliseconds.
type mediaItemWire struct {
	ID         string      `json:"id"`
	Type       MediaType   `json:"type"`
	URL        string      `json:"url"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Title      string      `json:"title"`
	CreatedAt  int64       `json:"createdAt"`
	Tags       []string    `json:"tags"`
	Game       games.Name  `json:"appName,omitempty"`
	CPIMetrics *CPIMetrics `json:"cpiMetrics,omitempty"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
}

// MarshalJSON writes createdAt as Unix milliseconds.
func (m MediaItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(mediaItemWire{
		ID:         m.ID,
		Type:       m.Type,
		URL:        m.URL,
		Thumbnail:  m.Thumbnail,
		Title:      m.Title,
		CreatedAt:  m.CreatedAt.UnixMilli(),
		Tags:       m.Tags,
		Game:       m.Game,
		CPIMetrics: m.CPIMetrics,
		Metadata:   m.Metadata,
	})
}

// UnmarshalJSON reads createdAt as Unix milliseconds. A missing value leaves CreatedAt zero.
func (m *MediaItem) UnmarshalJSON(data []byte) error {
	var w mediaItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = MediaItem{
		ID:         w.ID,
		Type:       w.Type,
		URL:        w.URL,
		Thumbnail:  w.Thumbnail,
		Title:      w.Title,
		Tags:       w.Tags,
		Game:       w.Game,
		CPIMetrics: w.CPIMetrics,
		Metadata:   w.Metadata,
	}
	if w.CreatedAt != 0 {
		m.CreatedAt = time.UnixMilli(w.CreatedAt).UTC()
	}
	return nil
}

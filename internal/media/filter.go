package media

import (
	"strings"

	"github.com/superleo/marketingops/backend/internal/games"
)

// Filter is the library view's query. Empty Search, TypeAll and games.AllGames skip their
// criterion; an empty Type or Game is treated as the wildcard.
type Filter struct {
	Search string
	Type   MediaType
	Game   games.Name
}

// Matches reports whether item satisfies every criterion of f.
func (f Filter) Matches(item *MediaItem) bool {
	if f.Type != "" && f.Type != TypeAll && item.Type != f.Type {
		return false
	}
	if f.Game != "" && f.Game != games.AllGames && item.Game != f.Game {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Title), term) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Apply returns the items matching f, preserving order. It does not modify items and
// returns the same pointers it was given.
func Apply(items []*MediaItem, f Filter) []*MediaItem {
	out := make([]*MediaItem, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// AvailableFor returns the items a campaign for game may use as creatives: the ones owned by
// game and the ones owned by no game.
func AvailableFor(items []*MediaItem, game games.Name) []*MediaItem {
	out := make([]*MediaItem, 0, len(items))
	for _, it := range items {
		if it.Game == "" || it.Game == game {
			out = append(out, it)
		}
	}
	return out
}

// OfType returns the items of kind t.
func OfType(items []*MediaItem, t MediaType) []*MediaItem {
	out := make([]*MediaItem, 0, len(items))
	for _, it := range items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

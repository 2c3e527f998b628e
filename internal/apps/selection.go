package apps

import "github.com/superleo/marketingops/backend/internal/media"

// Selection is the challenger picker. It refuses a fourth image instead of failing at launch.
type Selection struct {
	items []*media.MediaItem
}

// Toggle removes item if selected, otherwise adds it. It reports false when the add was
// refused because the selection is full.
func (s *Selection) Toggle(item *media.MediaItem) bool {
	for i, it := range s.items {
		if it.ID == item.ID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	if len(s.items) >= MaxChallengers {
		return false
	}
	s.items = append(s.items, item)
	return true
}

func (s *Selection) Items() []*media.MediaItem {
	return append([]*media.MediaItem(nil), s.items...)
}

func (s *Selection) Len() int { return len(s.items) }

func (s *Selection) Clear() { s.items = nil }

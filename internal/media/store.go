package media

import "github.com/superleo/marketingops/backend/internal/games"

// LibraryStore owns every MediaItem. Implementations return copies; mutating a returned item
// has no effect on the store.
type LibraryStore interface {
	// Add prepends item. The caller supplies a unique id; uniqueness is not checked.
	Add(item *MediaItem)

	// Remove deletes the item with id. Removing an unknown id is a no-op.
	Remove(id string)

	Get(id string) (*MediaItem, bool)

	// List returns every item, newest first.
	List() []*MediaItem

	// Filter returns the items matching f, newest first.
	Filter(f Filter) []*MediaItem

	// Resolve returns the items for ids in the order given, skipping ids that no longer exist.
	// A repeated id yields its item once, at its first position.
	Resolve(ids []string) []*MediaItem

	AvailableCreatives(game games.Name) []*MediaItem
	AvailableImages() []*MediaItem
	Len() int
}

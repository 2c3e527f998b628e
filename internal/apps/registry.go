package apps

import (
	"time"

	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/media"
)

// Registry holds one AppDetails per game. Returned entries are copies.
type Registry interface {
	List() []*AppDetails
	Get(name games.Name) (*AppDetails, error)

	// LaunchABTest replaces the game's active test with a new one built from 1 to 3 challenger
	// images. Other games are not touched.
	LaunchABTest(name games.Name, challengers []*media.MediaItem, now time.Time) (*ABTest, error)
}

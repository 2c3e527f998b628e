package campaigns

import "github.com/superleo/marketingops/backend/internal/games"

// CampaignStore defines the interface for campaign storage. Returned campaigns are copies.
type CampaignStore interface {
	// Create validates d and stores a new active campaign at the front of the collection.
	// On a validation error the collection is unchanged.
	Create(d Draft) (*Campaign, error)

	Get(id string) (*Campaign, error)

	// List returns the campaigns matching f, newest first.
	List(f Filter) []*Campaign

	// UpdateStatus is the hook for platform sync. Moving to active requires at least one creative.
	UpdateStatus(id string, status CampaignStatus) (*Campaign, error)

	Summary(f Filter) Summary
	Len() int

	// Alerts returns the alerts not yet dismissed, restricted to game unless it is empty or the wildcard.
	Alerts(game games.Name) []Alert

	// DismissAlert hides an alert. Dismissing twice, or an unknown id, is not an error.
	DismissAlert(id int)
}

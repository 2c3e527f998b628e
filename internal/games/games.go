// Package games holds the fixed set of titles the dashboard manages.
package games

// Name is one of the published game titles.
type Name string

const (
	GrandTheftAuto Name = "Grand Theft Auto"
	FishIdle       Name = "Fish Idle"
	Evolution      Name = "Evolution"

	// AllGames is the wildcard used by filters to skip the game criterion.
	AllGames Name = "ALL"
)

// All lists the titles in display order.
var All = []Name{GrandTheftAuto, FishIdle, Evolution}

// Valid reports whether n is one of the published titles. The wildcard is not a title.
func Valid(n Name) bool {
	for _, g := range All {
		if g == n {
			return true
		}
	}
	return false
}

// Default is the title preselected by new drafts and generation requests.
func Default() Name { return All[0] }

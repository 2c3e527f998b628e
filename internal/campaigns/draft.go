package campaigns

import (
	"fmt"
	"time"

	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/validation"
)

// Draft is the campaign creation form. It is a plain value; nothing is stored until Create.
type Draft struct {
	Name        string     `json:"name"`
	Game        games.Name `json:"appName" validate:"game"`
	Budget      float64    `json:"budget" validate:"gte=0"`
	Platform    Platform   `json:"platform" validate:"oneof=google facebook tiktok"`
	Targeting   Targeting  `json:"targeting"`
	CreativeIDs []string   `json:"creativeIds"`
}

// NewDraft returns the form defaults.
func NewDraft() Draft {
	return Draft{
		Game:     games.Default(),
		Budget:   5000,
		Platform: PlatformGoogle,
		Targeting: Targeting{
			Geo:    "WW",
			Age:    "18-45",
			Gender: GenderAll,
		},
		CreativeIDs: []string{},
	}
}

// ApplyPreset overwrites geography, budget and platform from p and names the draft after the
// current game, the preset suffix and the date of now. Creatives, age and gender are kept.
func (d *Draft) ApplyPreset(p Preset, now time.Time) {
	d.Name = fmt.Sprintf("%s %s %s", d.Game, p.Suffix, now.Format(presetDateLayout))
	d.Targeting.Geo = p.Geo
	d.Budget = p.Budget
	d.Platform = p.Platform
}

// ToggleCreative adds id if absent and removes it if present.
func (d *Draft) ToggleCreative(id string) {
	for i, cid := range d.CreativeIDs {
		if cid == id {
			d.CreativeIDs = append(d.CreativeIDs[:i:i], d.CreativeIDs[i+1:]...)
			return
		}
	}
	d.CreativeIDs = append(d.CreativeIDs, id)
}

// HasCreative reports whether id is selected.
func (d *Draft) HasCreative(id string) bool {
	for _, cid := range d.CreativeIDs {
		if cid == id {
			return true
		}
	}
	return false
}

// SetGame switches the target game. Creatives belong to a game, so the selection is reset
// whenever the game actually changes.
func (d *Draft) SetGame(g games.Name) {
	if d.Game == g {
		return
	}
	d.Game = g
	d.CreativeIDs = []string{}
}

// Validate reports the first problem with d. An empty creative list is checked first.
func (d *Draft) Validate() error {
	if len(d.CreativeIDs) == 0 {
		return validation.ErrMissingCreatives
	}
	return validation.Struct(d)
}

// DisplayName is the campaign name Create will use.
func (d *Draft) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("Campaign %s", d.Game)
}

package campaigns

const presetDateLayout = "2006-01-02"

// Preset is a named bundle of draft defaults.
type Preset struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Geo         string   `json:"geo"`
	Budget      float64  `json:"budget"`
	Platform    Platform `json:"platform"`
	Suffix      string   `json:"suffix"`
}

var presets = []Preset{
	{
		ID:          "ww-cpi",
		Label:       "WW CPI",
		Description: "Worldwide reach, pay per install",
		Geo:         "WW",
		Budget:      5000,
		Platform:    PlatformGoogle,
		Suffix:      "WW CPI",
	},
	{
		ID:          "ww-cpa-ab",
		Label:       "WW CPA AB",
		Description: "Worldwide, action optimisation (A/B)",
		Geo:         "WW",
		Budget:      10000,
		Platform:    PlatformFacebook,
		Suffix:      "WW CPA AB",
	},
	{
		ID:          "ww-usa-ab",
		Label:       "WW USA AB",
		Description: "United States, creative A/B test",
		Geo:         "US",
		Budget:      15000,
		Platform:    PlatformTikTok,
		Suffix:      "USA AB",
	},
}

// Presets returns the available presets in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetByID looks up a preset.
func PresetByID(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

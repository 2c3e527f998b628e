package campaigns

import (
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/superleo/marketingops/backend/internal/games"
)

// ErrCampaignNotFound is returned for an unknown campaign id.
var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignStatus defines the possible statuses of a campaign.
type CampaignStatus string

const (
	StatusActive    CampaignStatus = "active"
	StatusPaused    CampaignStatus = "paused"
	StatusCompleted CampaignStatus = "completed"
	StatusDraft     CampaignStatus = "draft"
)

// Valid reports whether s is a known status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusDraft:
		return true
	}
	return false
}

// Platform is an ad network a campaign runs on.
type Platform string

const (
	PlatformGoogle   Platform = "google"
	PlatformFacebook Platform = "facebook"
	PlatformTikTok   Platform = "tiktok"

	// PlatformMintegral only appears on alerts; campaigns cannot target it.
	PlatformMintegral Platform = "mintegral"

	// PlatformAll is the filter wildcard.
	PlatformAll Platform = "ALL"
)

// Gender is the gender facet of a targeting descriptor.
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Targeting describes who a campaign is shown to.
type Targeting struct {
	Geo    string `json:"geo" validate:"required"`
	Age    string `json:"age" validate:"required"`
	Gender Gender `json:"gender" validate:"oneof=all male female"`
}

// Campaign is an ad campaign for one game on one platform. CreativeIDs reference library
// items; the items themselves stay in the library.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Game        games.Name     `json:"appName,omitempty"`
	Status      CampaignStatus `json:"status"`
	Budget      float64        `json:"budget"`
	Spent       float64        `json:"spent"`
	Clicks      int64          `json:"clicks"`
	Impressions int64          `json:"impressions"`
	Platform    Platform       `json:"platform"`
	CreatedAt   time.Time      `json:"-"`
	CreativeIDs []string       `json:"creativeIds"`
	Targeting   Targeting      `json:"targeting"`
}

// Clone returns a copy that shares no slices with c.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	cp := *c
	cp.CreativeIDs = append([]string{}, c.CreativeIDs...)
	return &cp
}

// CTR is clicks over impressions as a percentage, or 0 with no impressions.
func (c *Campaign) CTR() float64 {
	if c.Impressions == 0 {
		return 0
	}
	return float64(c.Clicks) / float64(c.Impressions) * 100
}

type campaignJSON Campaign

type campaignWire struct {
	campaignJSON
	CreatedAt int64   `json:"createdAt"`
	CTR       float64 `json:"ctr"`
}

// MarshalJSON writes createdAt as Unix milliseconds and adds the derived ctr.
func (c Campaign) MarshalJSON() ([]byte, error) {
	return json.Marshal(campaignWire{campaignJSON: campaignJSON(c), CreatedAt: c.CreatedAt.UnixMilli(), CTR: c.CTR()})
}

// Filter selects campaigns by game and platform. Empty values and the wildcards match everything.
type Filter struct {
	Game     games.Name
	Platform Platform
}

// Matches reports whether c satisfies f.
func (f Filter) Matches(c *Campaign) bool {
	if f.Game != "" && f.Game != games.AllGames && c.Game != f.Game {
		return false
	}
	if f.Platform != "" && f.Platform != PlatformAll && c.Platform != f.Platform {
		return false
	}
	return true
}

// Summary totals the campaigns matched by a filter.
type Summary struct {
	Campaigns   int     `json:"campaigns"`
	Active      int     `json:"active"`
	Budget      float64 `json:"budget"`
	Spent       float64 `json:"spent"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
}

// Summarize computes the totals over list.
func Summarize(list []*Campaign) Summary {
	var s Summary
	for _, c := range list {
		s.Campaigns++
		if c.Status == StatusActive {
			s.Active++
		}
		s.Budget += c.Budget
		s.Spent += c.Spent
		s.Clicks += c.Clicks
		s.Impressions += c.Impressions
	}
	if s.Impressions > 0 {
		s.CTR = float64(s.Clicks) / float64(s.Impressions) * 100
	}
	return s
}

// AlertSeverity grades a platform alert.
type AlertSeverity string

const (
	AlertCritical AlertSeverity = "critical"
	AlertWarning  AlertSeverity = "warning"
	AlertSuccess  AlertSeverity = "success"
)

// Alert is a notification raised by an ad network about one of the games.
type Alert struct {
	ID       int           `json:"id"`
	Severity AlertSeverity `json:"type"`
	Platform Platform      `json:"platform"`
	Message  string        `json:"message"`
	Action   string        `json:"action"`
	Game     games.Name    `json:"appName,omitempty"`
}

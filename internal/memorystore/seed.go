package memorystore

import (
	"time"

	"github.com/superleo/marketingops/backend/internal/apps"
	"github.com/superleo/marketingops/backend/internal/campaigns"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/media"
)

// SeedLibrary returns the demo library, newest first.
func SeedLibrary(now time.Time) []*media.MediaItem {
	icon := func(id, n, url string) *media.MediaItem {
		return &media.MediaItem{
			ID:        id,
			Type:      media.TypeImage,
			URL:       url,
			Thumbnail: url,
			Title:     "Fish Icon Variant " + n,
			CreatedAt: now,
			Tags:      []string{"icon"},
			Game:      games.FishIdle,
		}
	}
	return []*media.MediaItem{
		{
			ID:        "demo-1",
			Type:      media.TypeImage,
			URL:       "https://picsum.photos/800/800?random=1",
			Thumbnail: "https://picsum.photos/800/800?random=1",
			Title:     "Cyberpunk city",
			CreatedAt: now,
			Tags:      []string{"demo", "cyberpunk"},
			Game:      games.GrandTheftAuto,
		},
		{
			ID:         "demo-2",
			Type:       media.TypeVideo,
			URL:        "https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
			Thumbnail:  "https://picsum.photos/320/180?random=2",
			Title:      "Elephants dream",
			CreatedAt:  now.Add(-100 * time.Second),
			Tags:       []string{"demo", "animation"},
			Game:       games.FishIdle,
			CPIMetrics: &media.CPIMetrics{WW: 0.35, USA: 1.50},
		},
		icon("demo-icon-1", "1", "https://picsum.photos/200/200?random=10"),
		icon("demo-icon-2", "2", "https://picsum.photos/200/200?random=11"),
		icon("demo-icon-3", "3", "https://picsum.photos/200/200?random=12"),
	}
}

// SeedCampaigns returns the demo campaigns, newest first.
func SeedCampaigns(now time.Time) []*campaigns.Campaign {
	return []*campaigns.Campaign{
		{
			ID: "1", Name: "Summer Sale", Game: games.GrandTheftAuto, Status: campaigns.StatusActive,
			Budget: 5000, Spent: 1200, Clicks: 450, Impressions: 12000,
			Platform: campaigns.PlatformGoogle, CreatedAt: now, CreativeIDs: []string{},
			Targeting: campaigns.Targeting{Geo: "US", Age: "18+", Gender: campaigns.GenderAll},
		},
		{
			ID: "2", Name: "Promo Video", Game: games.FishIdle, Status: campaigns.StatusPaused,
			Budget: 3000, Spent: 2900, Clicks: 800, Impressions: 25000,
			Platform: campaigns.PlatformTikTok, CreatedAt: now, CreativeIDs: []string{},
			Targeting: campaigns.Targeting{Geo: "WW", Age: "13-24", Gender: campaigns.GenderAll},
		},
		{
			ID: "3", Name: "New Level", Game: games.Evolution, Status: campaigns.StatusActive,
			Budget: 7000, Spent: 4500, Clicks: 1200, Impressions: 50000,
			Platform: campaigns.PlatformFacebook, CreatedAt: now, CreativeIDs: []string{},
			Targeting: campaigns.Targeting{Geo: "EU", Age: "25-45", Gender: campaigns.GenderMale},
		},
	}
}

// SeedAlerts returns the platform alerts shown on the traffic view.
func SeedAlerts() []campaigns.Alert {
	return []campaigns.Alert{
		{
			ID:       1,
			Severity: campaigns.AlertCritical,
			Platform: campaigns.PlatformFacebook,
			Message:  "ROAS D0 dropped below the 50% target (current: 32%)",
			Action:   "Optimize",
			Game:     games.Evolution,
		},
		{
			ID:       2,
			Severity: campaigns.AlertWarning,
			Platform: campaigns.PlatformGoogle,
			Message:  `Text creatives "Summer Sale" are burned out (CTR < 0.5%). Replacement required.`,
			Action:   "Replace",
			Game:     games.FishIdle,
		},
		{
			ID:       3,
			Severity: campaigns.AlertSuccess,
			Platform: campaigns.PlatformMintegral,
			Message:  "Grand Theft Auto (iOS) passed moderation and is ready to launch.",
			Action:   "Launch",
			Game:     games.GrandTheftAuto,
		},
	}
}

// SeedApps returns the registry entries. Fish Idle has a test that started three days before now.
func SeedApps(now time.Time) []*apps.AppDetails {
	return []*apps.AppDetails{
		{
			Name:        games.GrandTheftAuto,
			BundleID:    "com.multicast.gta.mobile",
			StoreID:     "id1234567890",
			Description: "Action-adventure open world game.",
			Approvals:   apps.Approvals{Google: apps.Approved, Facebook: apps.Pending, TikTok: apps.Rejected},
			AdUnits: apps.AdUnits{
				Rewarded:     "ca-app-pub-3940256099942544/5224354917",
				Interstitial: "ca-app-pub-3940256099942544/1033173712",
				Banner:       "ca-app-pub-3940256099942544/6300978111",
			},
		},
		{
			Name:        games.FishIdle,
			BundleID:    "com.multicast.fishidle.pro",
			StoreID:     "id0987654321",
			Description: "Casual fishing arcade tycoon.",
			Approvals:   apps.Approvals{Google: apps.Approved, Facebook: apps.Approved, TikTok: apps.Approved},
			AdUnits: apps.AdUnits{
				Rewarded:     "ca-app-pub-1234567890/reward_fish",
				Interstitial: "ca-app-pub-1234567890/inter_fish",
				Banner:       "ca-app-pub-1234567890/banner_fish",
			},
			ActiveABTest: &apps.ABTest{
				ID:        "ab-fish-001",
				Status:    apps.TestActive,
				StartDate: now.Add(-72 * time.Hour),
				Variants: []apps.ABVariant{
					{ID: "v1", ImageURL: "https://picsum.photos/200/200?random=101", IsControl: true, Impressions: 5400, Conversions: 210},
					{ID: "v2", ImageURL: "https://picsum.photos/200/200?random=102", PerformanceCtx: 15.4, Impressions: 5350, Conversions: 242},
					{ID: "v3", ImageURL: "https://picsum.photos/200/200?random=103", PerformanceCtx: -8.2, Impressions: 5500, Conversions: 193},
					{ID: "v4", ImageURL: "https://picsum.photos/200/200?random=104", PerformanceCtx: 2.1, Impressions: 5420, Conversions: 214},
				},
			},
		},
		{
			Name:        games.Evolution,
			BundleID:    "com.multicast.evolution.dna",
			StoreID:     "id1122334455",
			Description: "Scientific strategy and simulation.",
			Approvals:   apps.Approvals{Google: apps.Pending, Facebook: apps.NotSubmitted, TikTok: apps.Pending},
			AdUnits: apps.AdUnits{
				Rewarded:     "ca-app-pub-987654321/reward_evo",
				Interstitial: "ca-app-pub-987654321/inter_evo",
				Banner:       "ca-app-pub-987654321/banner_evo",
			},
		},
	}
}

// Package apps describes the published games as the ad networks see them: store identifiers,
// moderation status, ad units and the icon A/B test currently running.
package apps

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

// ErrAppNotFound is returned for a game the registry does not know.
var ErrAppNotFound = errors.New("app not found")

// MaxChallengers bounds the challenger variants of one test.
const MaxChallengers = 3

// ControlImageURL is the placeholder image used for the control variant of a new test.
const ControlImageURL = "https://picsum.photos/200/200?random=999"

// ApprovalStatus is the moderation state on one ad network.
type ApprovalStatus string

const (
	Approved     ApprovalStatus = "approved"
	Pending      ApprovalStatus = "pending"
	Rejected     ApprovalStatus = "rejected"
	NotSubmitted ApprovalStatus = "not_submitted"
)

// Approvals holds the moderation status per network.
type Approvals struct {
	Google   ApprovalStatus `json:"google"`
	Facebook ApprovalStatus `json:"facebook"`
	TikTok   ApprovalStatus `json:"tiktok"`
}

// AdUnits holds the ad unit identifiers per format.
type AdUnits struct {
	Rewarded     string `json:"rewarded"`
	Interstitial string `json:"interstitial"`
	Banner       string `json:"banner"`
}

// TestStatus is the lifecycle state of an A/B test.
type TestStatus string

const (
	TestActive    TestStatus = "active"
	TestCompleted TestStatus = "completed"
	TestDraft     TestStatus = "draft"
)

// ABVariant is one arm of an icon test. PerformanceCtx is the signed percentage against the
// control; the control's is always 0.
type ABVariant struct {
	ID             string  `json:"id"`
	ImageURL       string  `json:"imageUrl"`
	IsControl      bool    `json:"isControl"`
	Impressions    int64   `json:"impressions"`
	Conversions    int64   `json:"conversions"`
	PerformanceCtx float64 `json:"performanceCtx"`
}

// ABTest is an icon test. Variants[0] is the control.
type ABTest struct {
	ID        string      `json:"id"`
	Status    TestStatus  `json:"status"`
	StartDate time.Time   `json:"-"`
	Variants  []ABVariant `json:"variants"`
}

type abTestJSON ABTest

type abTestWire struct {
	abTestJSON
	StartDate int64 `json:"startDate"`
}

// MarshalJSON writes startDate as Unix milliseconds.
func (t ABTest) MarshalJSON() ([]byte, error) {
	return json.Marshal(abTestWire{abTestJSON: abTestJSON(t), StartDate: t.StartDate.UnixMilli()})
}

// Clone returns a deep copy.
func (t *ABTest) Clone() *ABTest {
	if t == nil {
		return nil
	}
	c := *t
	c.Variants = append([]ABVariant(nil), t.Variants...)
	return &c
}

// Control returns the control variant.
func (t *ABTest) Control() (ABVariant, bool) {
	for _, v := range t.Variants {
		if v.IsControl {
			return v, true
		}
	}
	return ABVariant{}, false
}

// AppDetails is the registry entry for one game.
type AppDetails struct {
	Name         games.Name `json:"name"`
	BundleID     string     `json:"bundleId"`
	StoreID      string     `json:"storeId"`
	Description  string     `json:"description"`
	Approvals    Approvals  `json:"approvalStatus"`
	AdUnits      AdUnits    `json:"adIds"`
	ActiveABTest *ABTest    `json:"activeAbTest,omitempty"`
}

// Clone returns a deep copy.
func (a *AppDetails) Clone() *AppDetails {
	if a == nil {
		return nil
	}
	c := *a
	c.ActiveABTest = a.ActiveABTest.Clone()
	return &c
}

// NewABTest builds an active test started at now: a fresh control with the placeholder image,
// then one zeroed challenger per image in order.
func NewABTest(challengers []*media.MediaItem, now time.Time) (*ABTest, error) {
	if len(challengers) == 0 || len(challengers) > MaxChallengers {
		return nil, validation.ErrInvalidChallengerSelection
	}
	variants := make([]ABVariant, 0, len(challengers)+1)
	variants = append(variants, ABVariant{
		ID:        "control-" + uuid.NewString(),
		ImageURL:  ControlImageURL,
		IsControl: true,
	})
	for i, img := range challengers {
		if img.Type != media.TypeImage {
			return nil, validation.New(validation.CodeInvalidChallengerSelection, "%q is not an image", img.ID)
		}
		variants = append(variants, ABVariant{
			ID:       fmt.Sprintf("v-%d-%s", i, uuid.NewString()),
			ImageURL: img.URL,
		})
	}
	return &ABTest{
		ID:        "ab-" + uuid.NewString(),
		Status:    TestActive,
		StartDate: now,
		Variants:  variants,
	}, nil
}

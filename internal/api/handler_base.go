package api

import (
	"time"

	"github.com/superleo/marketingops/backend/internal/apps"
	"github.com/superleo/marketingops/backend/internal/assistant"
	"github.com/superleo/marketingops/backend/internal/campaigns"
	"github.com/superleo/marketingops/backend/internal/config"
	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/generation"
	"github.com/superleo/marketingops/backend/internal/library"
	"github.com/superleo/marketingops/backend/internal/media"
)

// Services are the stores and engines the handlers operate on. They are built once in main.
type Services struct {
	Library    media.LibraryStore
	Processor  *library.Processor
	Campaigns  campaigns.CampaignStore
	Apps       apps.Registry
	Generation *generation.Service
	Assistant  *assistant.Service
	Events     *events.Bus
}

// APIHandler holds shared dependencies for API handlers.
type APIHandler struct {
	Config      *config.Config
	Library     media.LibraryStore
	Processor   *library.Processor
	CampaignMgr campaigns.CampaignStore
	Apps        apps.Registry
	Generation  *generation.Service
	Assistant   *assistant.Service
	Events      *events.Bus

	now func() time.Time
}

// NewAPIHandler creates a new APIHandler with dependencies.
func NewAPIHandler(cfg *config.Config, svc Services) *APIHandler {
	return &APIHandler{
		Config:      cfg,
		Library:     svc.Library,
		Processor:   svc.Processor,
		CampaignMgr: svc.Campaigns,
		Apps:        svc.Apps,
		Generation:  svc.Generation,
		Assistant:   svc.Assistant,
		Events:      svc.Events,
		now:         time.Now,
	}
}

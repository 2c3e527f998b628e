package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/superleo/marketingops/backend/internal/config"
)

func NewRouter(cfg *config.Config, svc Services) *mux.Router {
	router := mux.NewRouter()
	apiHandler := NewAPIHandler(cfg, svc)

	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/ping", apiHandler.PingHandler).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.Use(APIKeyAuthMiddleware(cfg.Server.APIKey))

	// Library
	apiV1.HandleFunc("/library", apiHandler.ListLibraryHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/library", apiHandler.AddLibraryItemHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/library/selection", apiHandler.GetSelectionHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/library/selection", apiHandler.UpdateSelectionHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/library/images", apiHandler.ListImagesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/library/operations/{op}", apiHandler.StartBatchOperationHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/library/jobs/{jobId}", apiHandler.GetJobHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/library/jobs/{jobId}", apiHandler.CancelJobHandler).Methods(http.MethodDelete, http.MethodOptions)
	apiV1.HandleFunc("/library/{id}", apiHandler.DeleteLibraryItemHandler).Methods(http.MethodDelete, http.MethodOptions)

	// Generation
	apiV1.HandleFunc("/generation/models", apiHandler.ListModelsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/generation", apiHandler.GenerateHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/generation/save", apiHandler.SaveGenerationHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/balance", apiHandler.GetBalanceHandler).Methods(http.MethodGet, http.MethodOptions)

	// Campaigns; fixed paths before /campaigns/{id}
	apiV1.HandleFunc("/campaigns", apiHandler.ListCampaignsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns", apiHandler.CreateCampaignHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/summary", apiHandler.CampaignSummaryHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/presets", apiHandler.ListPresetsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/draft", apiHandler.NewDraftHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/draft/preset", apiHandler.ApplyPresetHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/creatives", apiHandler.AvailableCreativesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/{id}", apiHandler.GetCampaignHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/{id}/creatives", apiHandler.CampaignCreativesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/campaigns/{id}/status", apiHandler.UpdateCampaignStatusHandler).Methods(http.MethodPut, http.MethodOptions)
	apiV1.HandleFunc("/alerts", apiHandler.ListAlertsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/alerts/{id}/dismiss", apiHandler.DismissAlertHandler).Methods(http.MethodPost, http.MethodOptions)

	// Apps
	apiV1.HandleFunc("/apps", apiHandler.ListAppsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/apps/{name}", apiHandler.GetAppHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/apps/{name}/abtests", apiHandler.LaunchABTestHandler).Methods(http.MethodPost, http.MethodOptions)

	// Chat
	apiV1.HandleFunc("/chat/sessions", apiHandler.OpenChatHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/chat/sessions/{id}", apiHandler.CloseChatHandler).Methods(http.MethodDelete, http.MethodOptions)
	apiV1.HandleFunc("/chat/sessions/{id}/messages", apiHandler.ListChatMessagesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/chat/sessions/{id}/messages", apiHandler.SendChatMessageHandler).Methods(http.MethodPost, http.MethodOptions)

	// Change feed
	apiV1.HandleFunc("/events", apiHandler.EventsHandler).Methods(http.MethodGet)

	return router
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/superleo/marketingops/backend/internal/api"
	"github.com/superleo/marketingops/backend/internal/assistant"
	"github.com/superleo/marketingops/backend/internal/config"
	"github.com/superleo/marketingops/backend/internal/contentfetcher"
	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/generation"
	"github.com/superleo/marketingops/backend/internal/library"
	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/memorystore"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides "+config.ConfigPathEnv+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Configuration could not be loaded")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := logging.Component("main")

	if path := cfg.GetLoadedFromPath(); path != "" {
		log.Info().Str("path", path).Msg("Loaded config file")
	}
	if cfg.UsesPlaceholderAPIKey() {
		log.Warn().Msg("API key is the shipped placeholder. Set " + config.EnvPrefix + "SERVER_API_KEY for any shared deployment.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now()
	bus := events.NewBus(cfg.Server.EventBuffer)
	libraryStore := memorystore.NewInMemoryLibraryStore(bus, memorystore.SeedLibrary(now)...)
	campaignStore := memorystore.NewInMemoryCampaignStore(bus, memorystore.SeedCampaigns(now), memorystore.SeedAlerts())
	appRegistry := memorystore.NewInMemoryAppRegistry(bus, memorystore.SeedApps(now))

	processor, err := library.NewProcessor(libraryStore, bus, library.ProcessorOptions{
		MergeDelay:            cfg.Library.MergeDelay,
		ExtendDelay:           cfg.Library.ExtendDelay,
		RemoveBackgroundDelay: cfg.Library.RemoveBackgroundDelay,
		HistorySize:           cfg.Library.JobHistory,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Library processor could not be created")
	}

	mock := &generation.MockGateway{ImageDelay: cfg.Generation.MockImageDelay, VideoDelay: cfg.Generation.MockVideoDelay}
	var gateway generation.Gateway = mock
	if cfg.Gemini.APIKey != "" {
		gemini, err := generation.NewGeminiGateway(ctx, generation.GeminiConfig{
			APIKey:       cfg.Gemini.APIKey,
			ChatModel:    cfg.Gemini.ChatModel,
			PollInterval: cfg.Gemini.PollInterval,
			Guard: generation.GuardConfig{
				Name:             "gemini",
				RequestsPerSec:   cfg.Gemini.RequestsPerSec,
				Burst:            cfg.Gemini.Burst,
				FailureThreshold: cfg.Gemini.FailureThreshold,
				OpenTimeout:      cfg.Gemini.OpenTimeout,
			},
			Mock: mock,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Gemini client could not be created")
		}
		gateway = gemini
		log.Info().Str("chat_model", cfg.Gemini.ChatModel).Msg("Using Gemini provider")
	} else {
		log.Warn().Msg("No Gemini API key configured; generations return mock media and chat is unavailable")
	}

	wallet := generation.NewWallet(cfg.Generation.StartingBalance, bus)
	genService := generation.NewService(gateway, generation.DefaultCatalog(), wallet, libraryStore)
	genService.SetReferenceFetcher(contentfetcher.New(cfg.Generation.ReferenceTimeout, cfg.Generation.ReferenceMaxSize))
	chat, err := assistant.NewService(genService, libraryStore, cfg.Chat.MaxSessions)
	if err != nil {
		log.Fatal().Err(err).Msg("Assistant could not be created")
	}

	router := api.NewRouter(cfg, api.Services{
		Library:    libraryStore,
		Processor:  processor,
		Campaigns:  campaignStore,
		Apps:       appRegistry,
		Generation: genService,
		Assistant:  chat,
		Events:     bus,
	})

	httpServer := &http.Server{
		Handler:      router,
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("Starting SuperLeo API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server ListenAndServe failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	processor.Wait()
}

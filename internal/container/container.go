package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/wanderly/go-tour-guide/app/cache"
	"github.com/wanderly/go-tour-guide/config"
	"github.com/wanderly/go-tour-guide/internal/api/chat"
	generativeAI "github.com/wanderly/go-tour-guide/internal/api/generative_ai"
	"github.com/wanderly/go-tour-guide/internal/api/itinerary"
	"github.com/wanderly/go-tour-guide/internal/api/poi"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Cache            cache.Store
	Collector        poi.CollectorService
	ItineraryService itinerary.Service
	ChatService      chat.Service
	ItineraryHandler *itinerary.Handler
	ChatHandler      *chat.Handler
}

// NewContainer initializes all application dependencies. External providers
// are optional: a missing credential degrades the pipeline to its fallback
// tiers instead of refusing to start.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	store := setupCache(ctx, cfg, logger)

	var placesProvider poi.PlacesProvider
	if mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY"); mapsKey != "" {
		provider, err := poi.NewGooglePlacesProvider(mapsKey, cfg.Providers.Places.Language, cfg.Providers.Places.Region)
		if err != nil {
			return nil, fmt.Errorf("creating places provider: %w", err)
		}
		placesProvider = provider
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set; itineraries will use synthetic fallbacks")
	}

	var model itinerary.ModelClient
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Providers.Gemini.Model)
	if err != nil {
		logger.Warn("Gemini client unavailable; itineraries will use deterministic fallbacks", slog.Any("error", err))
	} else {
		model = aiClient
	}

	collector := poi.NewCollectorService(
		placesProvider, store,
		cfg.Cache.GeocodeTTL, cfg.Cache.SearchTTL,
		cfg.Itinerary.MaxKeywords, cfg.Itinerary.MaxCandidates,
		logger,
	)

	itineraryService := itinerary.NewServiceImpl(collector, model, cfg.Providers.Gemini.Temperature, cfg.Itinerary.PromptPoolLimit, logger)
	chatService := chat.NewServiceImpl(collector, model, cfg.Providers.Gemini.Temperature, cfg.Itinerary.PromptPoolLimit, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Cache:            store,
		Collector:        collector,
		ItineraryService: itineraryService,
		ChatService:      chatService,
		ItineraryHandler: itinerary.NewHandler(itineraryService, logger),
		ChatHandler:      chat.NewHandler(chatService, logger),
	}, nil
}

// setupCache selects the cache backend, falling back to the in-memory store
// when Redis is configured but unreachable.
func setupCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.Cache.Backend == "redis" {
		redisStore := cache.NewRedisStore(cfg.Cache.RedisAddr, os.Getenv("REDIS_PASSWORD"), cfg.Cache.RedisDB, logger)
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		defer pingCancel()
		if err := redisStore.Ping(pingCtx); err != nil {
			logger.Warn("Redis unreachable, using in-memory cache", slog.Any("error", err))
		} else {
			logger.Info("Using Redis cache backend", slog.String("addr", cfg.Cache.RedisAddr))
			return redisStore
		}
	}
	return cache.NewMemoryStore(cfg.Cache.SearchTTL, cfg.Cache.CleanupPeriod)
}

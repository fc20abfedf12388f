package itinerary

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wanderly/go-tour-guide/app/observability/metrics"
	"github.com/wanderly/go-tour-guide/internal/api/poi"
	"github.com/wanderly/go-tour-guide/internal/types"
)

// ModelClient is the single-turn completion surface the synthesizer needs.
// A nil client means "unconfigured" and skips the model tier entirely.
type ModelClient interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service defines the itinerary generation contract.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.GenerateItineraryRequest) (*types.ItineraryResponse, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	collector   poi.CollectorService
	model       ModelClient
	temperature float32
	poolLimit   int
}

func NewServiceImpl(collector poi.CollectorService, model ModelClient, temperature float32, poolLimit int, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		collector:   collector,
		model:       model,
		temperature: temperature,
		poolLimit:   poolLimit,
	}
}

// GenerateConfig is the completion config used for itinerary synthesis.
func GenerateConfig(temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](temperature),
		ResponseMIMEType: "application/json",
	}
}

// GenerateItinerary runs the full pipeline: collect candidates, synthesize
// (model tier first, then deterministic, then synthetic), repair against the
// pool. It never fails outright; sustained provider trouble only degrades
// content quality.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.GenerateItineraryRequest) (*types.ItineraryResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("days", req.Days),
	))
	defer span.End()

	start := time.Now()
	days := ClampDays(req.Days)
	l := s.logger.With(slog.String("destination", req.Destination), slog.Int("days", days))

	pool := s.collectPool(ctx, l, req.Destination, req.Preferences)

	result, tier := s.Synthesize(ctx, pool, req.Destination, days, req.StartDate, req.Preferences)
	repaired, dropped := Repair(result, pool, req.Destination, days, req.StartDate)

	m := metrics.Get()
	m.ItineraryRequestsTotal.Add(ctx, 1)
	m.ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	m.SynthesisTierTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier)))
	if dropped > 0 {
		m.DroppedItemsTotal.Add(ctx, int64(dropped))
	}

	span.SetAttributes(
		attribute.String("synthesis.tier", tier),
		attribute.Int("repair.dropped", dropped),
	)
	span.SetStatus(codes.Ok, "Itinerary generated")
	l.InfoContext(ctx, "Itinerary generated",
		slog.String("tier", tier),
		slog.Int("dropped_items", dropped),
		slog.Int("candidates", len(pool)),
	)
	return repaired, nil
}

// collectPool wraps the collector and makes the degradation decision
// explicit: a provider error means an empty pool, nothing more.
func (s *ServiceImpl) collectPool(ctx context.Context, l *slog.Logger, destination string, preferences []string) []types.PoiCandidate {
	pool, err := s.collector.CollectCandidates(ctx, destination, preferences)
	if err != nil {
		l.WarnContext(ctx, "Candidate collection failed, continuing without a pool", slog.Any("error", err))
		return nil
	}
	return pool
}

// Synthesize attempts the model tier and falls through to the deterministic
// or synthetic builder. Exported so the chat refinement path shares the
// degradation chain.
func (s *ServiceImpl) Synthesize(ctx context.Context, pool []types.PoiCandidate, destination string, days int, startDate string, preferences []string) (*types.ItineraryResponse, string) {
	if s.model != nil && len(pool) > 0 {
		prompt := buildGeneratePrompt(destination, days, startDate, preferences, pool, s.poolLimit)
		text, err := s.model.GenerateContent(ctx, prompt, GenerateConfig(s.temperature))
		if err != nil {
			s.logger.WarnContext(ctx, "Model call failed, using deterministic builder", slog.Any("error", err))
		} else if parsed := ParseModelItinerary(text); parsed != nil {
			return parsed, TierModel
		} else {
			s.logger.WarnContext(ctx, "Model returned unparseable payload, using deterministic builder")
		}
	}
	result, tier := BuildFallback(pool, destination, days, startDate)
	return result, tier
}

package poi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/wanderly/go-tour-guide/app/cache"
	"github.com/wanderly/go-tour-guide/app/observability/metrics"
	"github.com/wanderly/go-tour-guide/internal/types"
)

// baselineKeywords is the fixed category list unioned with the caller's
// preferences. Chinese food terms are kept alongside English ones because
// the provider resolves both.
var baselineKeywords = []string{
	"museum",
	"art gallery",
	"historic district",
	"old town",
	"landmark",
	"park",
	"garden",
	"temple",
	"hotpot",
	"火锅",
	"local snacks",
	"night market",
	"food street",
	"cafe",
	"dessert shop",
	"scenic viewpoint",
}

var _ CollectorService = (*CollectorServiceImpl)(nil)

// CollectorService defines the candidate collection contract.
type CollectorService interface {
	CollectCandidates(ctx context.Context, destination string, preferences []string) ([]types.PoiCandidate, error)
}

type CollectorServiceImpl struct {
	logger        *slog.Logger
	provider      PlacesProvider
	cache         cache.Store
	geocodeTTL    time.Duration
	searchTTL     time.Duration
	maxKeywords   int
	maxCandidates int

	geocodeGroup singleflight.Group
}

func NewCollectorService(provider PlacesProvider, store cache.Store, geocodeTTL, searchTTL time.Duration, maxKeywords, maxCandidates int, logger *slog.Logger) *CollectorServiceImpl {
	return &CollectorServiceImpl{
		logger:        logger,
		provider:      provider,
		cache:         store,
		geocodeTTL:    geocodeTTL,
		searchTTL:     searchTTL,
		maxKeywords:   maxKeywords,
		maxCandidates: maxCandidates,
	}
}

// CollectCandidates returns a deduplicated candidate pool for the
// destination, capped at the configured maximum. The provider being
// unconfigured or fully unreachable surfaces as *ProviderError; the caller
// owns the decision to fall back.
func (s *CollectorServiceImpl) CollectCandidates(ctx context.Context, destination string, preferences []string) ([]types.PoiCandidate, error) {
	ctx, span := otel.Tracer("CollectorService").Start(ctx, "CollectCandidates", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("preferences.count", len(preferences)),
	))
	defer span.End()

	l := s.logger.With(slog.String("destination", destination))

	if s.provider == nil {
		err := &ProviderError{Op: "search", Err: fmt.Errorf("place provider not configured")}
		span.RecordError(err)
		metrics.Get().ProviderErrorsTotal.Add(ctx, 1)
		return nil, err
	}

	scope := s.resolveCity(ctx, destination)
	keywords := buildKeywords(preferences, s.maxKeywords)
	span.SetAttributes(attribute.Int("keywords.count", len(keywords)))

	seen := make(map[string]struct{})
	candidates := make([]types.PoiCandidate, 0, s.maxCandidates)
	searchErrors := 0

	// Sequential by design: collector latency is bounded by the keyword cap.
	for _, keyword := range keywords {
		if len(candidates) >= s.maxCandidates {
			break
		}

		results, err := s.searchKeyword(ctx, destination, keyword, scope)
		if err != nil {
			searchErrors++
			l.WarnContext(ctx, "Keyword search failed, skipping", slog.String("keyword", keyword), slog.Any("error", err))
			metrics.Get().ProviderErrorsTotal.Add(ctx, 1)
			continue
		}

		for _, candidate := range results {
			// Malformed results are dropped, not retried.
			if candidate.PoiID == "" || candidate.Name == "" {
				continue
			}
			if _, dup := seen[candidate.PoiID]; dup {
				continue
			}
			seen[candidate.PoiID] = struct{}{}
			candidates = append(candidates, candidate)
			if len(candidates) >= s.maxCandidates {
				break
			}
		}
	}

	if len(candidates) == 0 && searchErrors == len(keywords) {
		err := &ProviderError{Op: "search", Err: fmt.Errorf("all %d keyword searches failed", searchErrors)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider unreachable")
		return nil, err
	}

	metrics.Get().CandidatePoolSize.Record(ctx, int64(len(candidates)))
	span.SetAttributes(attribute.Int("candidates.count", len(candidates)))
	span.SetStatus(codes.Ok, "Candidates collected")
	l.InfoContext(ctx, "Candidate pool collected", slog.Int("count", len(candidates)), slog.Int("search_errors", searchErrors))
	return candidates, nil
}

// resolveCity geocodes the destination once, best-effort. Lookups are cached
// and collapsed across concurrent requests for the same destination.
func (s *CollectorServiceImpl) resolveCity(ctx context.Context, destination string) *CityScope {
	key := fmt.Sprintf("geocode:%s", strings.ToLower(destination))

	var cached CityScope
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return &cached
	}

	v, err, _ := s.geocodeGroup.Do(key, func() (interface{}, error) {
		return s.provider.Geocode(ctx, destination)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Geocode failed, searching without city filter",
			slog.String("destination", destination), slog.Any("error", err))
		return nil
	}
	scope, ok := v.(*CityScope)
	if !ok || scope == nil {
		return nil
	}

	cache.SetJSON(ctx, s.cache, key, scope, s.geocodeTTL)
	return scope
}

func (s *CollectorServiceImpl) searchKeyword(ctx context.Context, destination, keyword string, scope *CityScope) ([]types.PoiCandidate, error) {
	key := fmt.Sprintf("places:search:%s:%s", strings.ToLower(destination), strings.ToLower(keyword))

	var cached []types.PoiCandidate
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	query := keyword
	if scope == nil {
		// No geocode result: bias the text query instead of a location filter.
		query = fmt.Sprintf("%s in %s", keyword, destination)
	}

	results, err := s.provider.SearchByKeyword(ctx, query, scope)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, s.cache, key, results, s.searchTTL)
	return results, nil
}

// buildKeywords unions the caller's preferences with the baseline category
// list, preferences first, deduplicated, capped to bound call volume.
func buildKeywords(preferences []string, maxKeywords int) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, maxKeywords)

	add := func(raw string) {
		if len(keywords) >= maxKeywords {
			return
		}
		kw := strings.TrimSpace(raw)
		if kw == "" {
			return
		}
		lower := strings.ToLower(kw)
		if _, dup := seen[lower]; dup {
			return
		}
		seen[lower] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, p := range preferences {
		add(p)
	}
	for _, b := range baselineKeywords {
		add(b)
	}
	return keywords
}

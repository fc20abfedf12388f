package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ItineraryRequestsTotal   metric.Int64Counter
	ItineraryDurationSeconds metric.Float64Histogram
	SynthesisTierTotal       metric.Int64Counter // attribute "tier": model|deterministic|synthetic
	DroppedItemsTotal        metric.Int64Counter
	ProviderErrorsTotal      metric.Int64Counter
	CandidatePoolSize        metric.Int64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TourGuideAPI")
		var err error
		m := &AppMetrics{}

		m.ItineraryRequestsTotal, err = meter.Int64Counter(
			"itinerary_requests_total",
			metric.WithDescription("Total number of itinerary generation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_requests_total: %v", err)
		}

		m.ItineraryDurationSeconds, err = meter.Float64Histogram(
			"itinerary_duration_seconds",
			metric.WithDescription("Duration of itinerary generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_duration_seconds: %v", err)
		}

		m.SynthesisTierTotal, err = meter.Int64Counter(
			"synthesis_tier_total",
			metric.WithDescription("Itineraries produced per synthesis tier (model, deterministic, synthetic)"),
			metric.WithUnit("{itinerary}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create synthesis_tier_total: %v", err)
		}

		m.DroppedItemsTotal, err = meter.Int64Counter(
			"repair_dropped_items_total",
			metric.WithDescription("Itinerary items dropped during repair because they could not be grounded"),
			metric.WithUnit("{item}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create repair_dropped_items_total: %v", err)
		}

		m.ProviderErrorsTotal, err = meter.Int64Counter(
			"provider_errors_total",
			metric.WithDescription("Total number of place-provider call failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_errors_total: %v", err)
		}

		m.CandidatePoolSize, err = meter.Int64Histogram(
			"candidate_pool_size",
			metric.WithDescription("Number of POI candidates collected per request"),
			metric.WithUnit("{candidate}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create candidate_pool_size: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

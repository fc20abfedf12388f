package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wanderly/go-tour-guide/app/cache"
	"github.com/wanderly/go-tour-guide/app/observability/metrics"
	"github.com/wanderly/go-tour-guide/internal/api/itinerary"
	"github.com/wanderly/go-tour-guide/internal/api/poi"
	"github.com/wanderly/go-tour-guide/internal/types"
)

func setupBenchmarkService(model itinerary.ModelClient) itinerary.Service {
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := cache.NewMemoryStore(time.Minute, time.Minute)
	collector := poi.NewCollectorService(stubPlacesProvider{}, store, time.Minute, time.Minute, 18, 90, logger)
	return itinerary.NewServiceImpl(collector, model, 0.5, 60, logger)
}

func benchmarkPool(size int) []types.PoiCandidate {
	pool := make([]types.PoiCandidate, 0, size)
	for i := 0; i < size; i++ {
		pool = append(pool, types.PoiCandidate{
			PoiID:    fmt.Sprintf("poi-%03d", i),
			Name:     fmt.Sprintf("Candidate Place %03d", i),
			Category: "museum",
			Source:   types.SourceProvider,
		})
	}
	return pool
}

func BenchmarkGenerateItinerary_ModelPath(b *testing.B) {
	svc := setupBenchmarkService(stubModelClient{})
	req := types.GenerateItineraryRequest{Destination: "Tokyo", Days: 2}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.GenerateItinerary(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerateItinerary_FallbackPath(b *testing.B) {
	svc := setupBenchmarkService(nil)
	req := types.GenerateItineraryRequest{Destination: "Tokyo", Days: 3}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.GenerateItinerary(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRepair(b *testing.B) {
	pool := benchmarkPool(60)
	raw := &types.ItineraryResponse{
		Title: "Benchmark Trip",
		Days: []types.ItineraryDay{
			{
				Morning:   types.ItinerarySlot{Items: []types.ItineraryItem{{PoiID: "poi-000"}, {Name: "Candidate Place 001"}}},
				Afternoon: types.ItinerarySlot{Items: []types.ItineraryItem{{PoiID: "poi-002"}, {PoiID: "nonexistent"}}},
				Night:     types.ItinerarySlot{Items: []types.ItineraryItem{{PoiID: "poi-003"}}},
			},
			{
				Morning: types.ItinerarySlot{Items: []types.ItineraryItem{{PoiID: "poi-004"}}},
			},
		},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		itinerary.Repair(raw, pool, "Tokyo", 2, "2026-04-01")
	}
}

func BenchmarkBuildFallback(b *testing.B) {
	pool := benchmarkPool(90)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		itinerary.BuildFallback(pool, "Tokyo", 5, "")
	}
}

func BenchmarkParseModelItinerary(b *testing.B) {
	payload := "```json\n" + `{
		"title": "Tokyo Essentials",
		"cityIntro": "intro",
		"days": [{
			"date": "", "title": "Day 1",
			"morning": {"items": [{"poiId": "poi-000", "name": "Candidate Place 000"}]},
			"afternoon": {"items": [{"poiId": "poi-001", "name": "Candidate Place 001"}]},
			"night": {"items": []}
		}],
		"foodMap": {"ramen": ["Ichiran"]},
		"tips": ["tip"]
	}` + "\n```"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if resp := itinerary.ParseModelItinerary(payload); resp == nil {
			b.Fatal("payload failed to parse")
		}
	}
}

package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/wanderly/go-tour-guide/app/observability/metrics"
	"github.com/wanderly/go-tour-guide/internal/types"
)

func init() {
	metrics.InitAppMetrics()
}

// --- Mocks for Dependencies ---

type MockCollector struct {
	mock.Mock
}

func (m *MockCollector) CollectCandidates(ctx context.Context, destination string, preferences []string) ([]types.PoiCandidate, error) {
	args := m.Called(ctx, destination, preferences)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PoiCandidate), args.Error(1)
}

type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.Default()
}

func TestGenerateItinerary_ModelPathGroundsOutput(t *testing.T) {
	pool := testPool()
	collector := new(MockCollector)
	collector.On("CollectCandidates", mock.Anything, "Paris", mock.Anything).Return(pool, nil)

	modelJSON := `{
		"title": "Paris Highlights",
		"cityIntro": "Paris in a weekend.",
		"days": [{
			"date": "",
			"title": "Day 1",
			"morning": {"items": [{"poiId": "p1", "name": "Renamed By Model"}]},
			"afternoon": {"items": [{"poiId": "fake123", "name": "Invented Palace"}]},
			"night": {"items": [{"poiId": "p2", "name": "Old Quarter Bistro"}]}
		}],
		"foodMap": {"bistros": ["Old Quarter Bistro"]},
		"tips": ["walk everywhere"]
	}`
	model := new(MockModelClient)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelJSON, nil)

	svc := NewServiceImpl(collector, model, 0.5, 60, newTestLogger())
	resp, err := svc.GenerateItinerary(context.Background(), types.GenerateItineraryRequest{
		Destination: "Paris",
		Days:        1,
	})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	// Grounded items carry pool values, the invented one is gone.
	require.Len(t, resp.Days[0].Morning.Items, 1)
	assert.Equal(t, "City History Museum", resp.Days[0].Morning.Items[0].Name)
	assert.Empty(t, resp.Days[0].Afternoon.Items)
	require.Len(t, resp.Days[0].Night.Items, 1)
	assert.Equal(t, "p2", resp.Days[0].Night.Items[0].PoiID)
	assert.Equal(t, 1, resp.DroppedItems)
	model.AssertExpectations(t)
}

func TestGenerateItinerary_ModelFailureFallsBackDeterministic(t *testing.T) {
	pool := testPool()
	collector := new(MockCollector)
	collector.On("CollectCandidates", mock.Anything, "Paris", mock.Anything).Return(pool, nil)

	model := new(MockModelClient)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", fmt.Errorf("upstream 503"))

	svc := NewServiceImpl(collector, model, 0.5, 60, newTestLogger())
	resp, err := svc.GenerateItinerary(context.Background(), types.GenerateItineraryRequest{
		Destination: "Paris",
		Days:        1,
	})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "p1", resp.Days[0].Morning.Items[0].PoiID)
	assert.Equal(t, "p2", resp.Days[0].Night.Items[0].PoiID)
}

func TestGenerateItinerary_UnparseableModelOutputFallsBack(t *testing.T) {
	pool := testPool()
	collector := new(MockCollector)
	collector.On("CollectCandidates", mock.Anything, "Paris", mock.Anything).Return(pool, nil)

	model := new(MockModelClient)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("I'd love to help but...", nil)

	svc := NewServiceImpl(collector, model, 0.5, 60, newTestLogger())
	resp, err := svc.GenerateItinerary(context.Background(), types.GenerateItineraryRequest{
		Destination: "Paris",
		Days:        2,
	})

	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.False(t, allSlotsEmpty(resp))
}

func TestGenerateItinerary_ProviderDownYieldsSyntheticItinerary(t *testing.T) {
	collector := new(MockCollector)
	collector.On("CollectCandidates", mock.Anything, "Chengdu", mock.Anything).
		Return(nil, fmt.Errorf("place provider search: connection refused"))

	svc := NewServiceImpl(collector, nil, 0.5, 60, newTestLogger())
	resp, err := svc.GenerateItinerary(context.Background(), types.GenerateItineraryRequest{
		Destination: "Chengdu",
		Days:        2,
		Preferences: []string{"history"},
	})

	require.NoError(t, err, "provider failure must never surface to the caller")
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "Chengdu representative museum", resp.Days[0].Morning.Items[0].Name)
	assert.NotEmpty(t, resp.CityIntro)
	assert.NotNil(t, resp.FoodMap)
	assert.NotEmpty(t, resp.Tips)
}

func TestGenerateItinerary_ClampsDays(t *testing.T) {
	collector := new(MockCollector)
	collector.On("CollectCandidates", mock.Anything, "Rome", mock.Anything).Return(testPool(), nil)

	svc := NewServiceImpl(collector, nil, 0.5, 60, newTestLogger())

	resp, err := svc.GenerateItinerary(context.Background(), types.GenerateItineraryRequest{Destination: "Rome", Days: 99})
	require.NoError(t, err)
	assert.Len(t, resp.Days, types.MaxItineraryDays)

	resp, err = svc.GenerateItinerary(context.Background(), types.GenerateItineraryRequest{Destination: "Rome", Days: 0})
	require.NoError(t, err)
	assert.Len(t, resp.Days, 1)
}

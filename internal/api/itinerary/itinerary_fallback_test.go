package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/go-tour-guide/internal/types"
)

func TestBuildFallback_DeterministicAssignsSlotsByPattern(t *testing.T) {
	pool := []types.PoiCandidate{
		{PoiID: "p1", Name: "Louvre Museum", Category: "museum", Source: types.SourceProvider},
		{PoiID: "p2", Name: "Chez Restaurant", Category: "restaurant", Source: types.SourceProvider},
	}

	resp, tier := BuildFallback(pool, "Paris", 1, "")

	assert.Equal(t, TierDeterministic, tier)
	require.Len(t, resp.Days, 1)
	day := resp.Days[0]

	require.Len(t, day.Morning.Items, 1)
	assert.Equal(t, "p1", day.Morning.Items[0].PoiID)
	require.Len(t, day.Night.Items, 1)
	assert.Equal(t, "p2", day.Night.Items[0].PoiID)
	assert.Empty(t, day.Afternoon.Items, "exhausted pool leaves the slot empty")

	// Repair over the builder's own output must not shuffle or duplicate.
	repaired, dropped := Repair(resp, pool, "Paris", 1, "")
	assert.Equal(t, 0, dropped)
	require.Len(t, repaired.Days[0].Morning.Items, 1)
	assert.Equal(t, "p1", repaired.Days[0].Morning.Items[0].PoiID)
	require.Len(t, repaired.Days[0].Night.Items, 1)
	assert.Equal(t, "p2", repaired.Days[0].Night.Items[0].PoiID)
	assert.Empty(t, repaired.Days[0].Afternoon.Items)
}

func TestBuildFallback_NeverDuplicatesCandidates(t *testing.T) {
	pool := []types.PoiCandidate{
		{PoiID: "m1", Name: "Art Museum", Category: "museum"},
		{PoiID: "m2", Name: "Science Museum", Category: "museum"},
		{PoiID: "g1", Name: "Botanic Garden", Category: "park"},
		{PoiID: "f1", Name: "Night Market", Category: "food"},
	}

	resp, _ := BuildFallback(pool, "Lyon", 3, "")

	seen := map[string]int{}
	for _, day := range resp.Days {
		for _, slot := range []types.ItinerarySlot{day.Morning, day.Afternoon, day.Night} {
			for _, item := range slot.Items {
				seen[item.PoiID]++
			}
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "candidate %s assigned more than once", id)
	}
}

func TestBuildFallback_SyntheticWhenPoolEmpty(t *testing.T) {
	resp, tier := BuildFallback(nil, "Chengdu", 2, "")

	assert.Equal(t, TierSynthetic, tier)
	require.Len(t, resp.Days, 2)
	require.Len(t, resp.Days[0].Morning.Items, 1)
	assert.Equal(t, "Chengdu representative museum", resp.Days[0].Morning.Items[0].Name)
	assert.Equal(t, types.SourceGenerated, resp.Days[0].Morning.Items[0].Source)
	assert.Empty(t, resp.Days[0].Morning.Items[0].PoiID)

	assert.NotEmpty(t, resp.CityIntro)
	assert.NotNil(t, resp.FoodMap)
	assert.NotEmpty(t, resp.Tips)

	// Synthetic output survives repair against the empty pool.
	repaired, dropped := Repair(resp, nil, "Chengdu", 2, "")
	assert.Equal(t, 0, dropped)
	assert.False(t, allSlotsEmpty(repaired))
}

func TestBuildFoodMap_CapsBucketsAtSix(t *testing.T) {
	var pool []types.PoiCandidate
	names := []string{
		"Dragon Hotpot", "Phoenix Hotpot", "River Hotpot", "Spicy Hotpot",
		"Twin Hotpot", "Golden Hotpot", "Imperial Hotpot", "Lucky Hotpot",
	}
	for i, name := range names {
		pool = append(pool, types.PoiCandidate{PoiID: string(rune('a' + i)), Name: name})
	}

	foodMap := buildFoodMap(pool)

	require.Contains(t, foodMap, "hotpot")
	assert.Len(t, foodMap["hotpot"], 6)
}

func TestDayDates(t *testing.T) {
	dates := dayDates("2026-03-30", 3)
	assert.Equal(t, []string{"2026-03-30", "2026-03-31", "2026-04-01"}, dates)

	blank := dayDates("", 2)
	assert.Equal(t, []string{"", ""}, blank)

	garbage := dayDates("not-a-date", 2)
	assert.Equal(t, []string{"", ""}, garbage)
}

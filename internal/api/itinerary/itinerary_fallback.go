package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/wanderly/go-tour-guide/internal/types"
)

const (
	slotTitleMorning   = "Morning"
	slotTitleAfternoon = "Afternoon"
	slotTitleNight     = "Night"
)

// Synthesis tiers, in degradation order.
const (
	TierModel         = "model"
	TierDeterministic = "deterministic"
	TierSynthetic     = "synthetic"
)

// Category cues for the greedy slot assignment. English and Chinese terms
// are matched side by side; the tables are package-level so a locale can
// extend them without touching the builder.
var (
	morningPatterns = []string{
		"museum", "gallery", "memorial", "heritage", "exhibition",
		"博物", "美术", "纪念", "展览",
	}
	afternoonPatterns = []string{
		"park", "garden", "historic", "old town", "temple", "walk",
		"lake", "square", "bridge",
		"公园", "古", "步行", "湖", "广场",
	}
	nightPatterns = []string{
		"food", "restaurant", "snack", "market", "bar", "cafe",
		"hotpot", "dessert", "night",
		"火锅", "小吃", "夜市", "咖啡", "甜",
	}
)

// Food map bucket cues, capped at 6 entries per bucket.
var foodMapBuckets = []struct {
	name string
	cues []string
}{
	{"hotpot", []string{"hotpot", "skewer", "barbecue", "火锅", "串", "烧烤"}},
	{"restaurants", []string{"restaurant", "dining", "bistro", "饭店", "餐厅", "菜"}},
	{"snacks", []string{"snack", "night market", "小吃", "夜市"}},
	{"streets", []string{"street", "lane", "alley", "街", "巷"}},
	{"cafes", []string{"cafe", "coffee", "dessert", "bakery", "咖啡", "甜", "茶"}},
}

const foodMapBucketCap = 6

// BuildFallback produces an itinerary without any model call: deterministic
// greedy assignment over the candidate pool, or a fully synthetic plan when
// the pool is empty. The second return value is the synthesis tier used.
func BuildFallback(pool []types.PoiCandidate, destination string, days int, startDate string) (*types.ItineraryResponse, string) {
	if len(pool) == 0 {
		return buildSynthetic(destination, days, startDate), TierSynthetic
	}
	return buildDeterministic(pool, destination, days, startDate), TierDeterministic
}

func buildDeterministic(pool []types.PoiCandidate, destination string, days int, startDate string) *types.ItineraryResponse {
	used := make(map[string]struct{})
	dates := dayDates(startDate, days)

	pick := func(patterns []string) *types.PoiCandidate {
		for i := range pool {
			c := &pool[i]
			if _, taken := used[c.PoiID]; taken {
				continue
			}
			if matchesAny(c, patterns) {
				used[c.PoiID] = struct{}{}
				return c
			}
		}
		return nil
	}
	pickAny := func() *types.PoiCandidate {
		for i := range pool {
			c := &pool[i]
			if _, taken := used[c.PoiID]; taken {
				continue
			}
			used[c.PoiID] = struct{}{}
			return c
		}
		return nil
	}

	resp := &types.ItineraryResponse{
		Title:       defaultTitle(destination, days),
		Destination: destination,
		CityIntro:   defaultCityIntro(destination),
		FoodMap:     buildFoodMap(pool),
		Tips:        defaultTips(destination),
	}

	for i := 0; i < days; i++ {
		day := types.ItineraryDay{
			Date:      dates[i],
			Title:     fmt.Sprintf("Day %d", i+1),
			Morning:   types.ItinerarySlot{Title: slotTitleMorning, Items: []types.ItineraryItem{}},
			Afternoon: types.ItinerarySlot{Title: slotTitleAfternoon, Items: []types.ItineraryItem{}},
			Night:     types.ItinerarySlot{Title: slotTitleNight, Items: []types.ItineraryItem{}},
		}

		// Pattern pass first, then fill still-empty slots from whatever is
		// left. Running the fill pass early would steal pattern matches from
		// later slots of the same day.
		morning := pick(morningPatterns)
		afternoon := pick(afternoonPatterns)
		night := pick(nightPatterns)

		if morning == nil {
			morning = pickAny()
		}
		if afternoon == nil {
			afternoon = pickAny()
		}
		if night == nil {
			night = pickAny()
		}

		if morning != nil {
			day.Morning.Items = append(day.Morning.Items, candidateItem(morning, "culture"))
		}
		if afternoon != nil {
			day.Afternoon.Items = append(day.Afternoon.Items, candidateItem(afternoon, "scenery"))
		}
		if night != nil {
			day.Night.Items = append(day.Night.Items, candidateItem(night, "food"))
		}

		resp.Days = append(resp.Days, day)
	}
	return resp
}

func buildSynthetic(destination string, days int, startDate string) *types.ItineraryResponse {
	dates := dayDates(startDate, days)

	resp := &types.ItineraryResponse{
		Title:       defaultTitle(destination, days),
		Destination: destination,
		CityIntro:   defaultCityIntro(destination),
		FoodMap:     map[string][]string{},
		Tips:        defaultTips(destination),
	}

	for i := 0; i < days; i++ {
		resp.Days = append(resp.Days, types.ItineraryDay{
			Date:  dates[i],
			Title: fmt.Sprintf("Day %d", i+1),
			Morning: types.ItinerarySlot{Title: slotTitleMorning, Items: []types.ItineraryItem{
				{Name: fmt.Sprintf("%s representative museum", destination), Tag: "culture", Source: types.SourceGenerated, EstimatedDurationHours: 2},
			}},
			Afternoon: types.ItinerarySlot{Title: slotTitleAfternoon, Items: []types.ItineraryItem{
				{Name: fmt.Sprintf("%s old town walk", destination), Tag: "scenery", Source: types.SourceGenerated, EstimatedDurationHours: 2},
			}},
			Night: types.ItinerarySlot{Title: slotTitleNight, Items: []types.ItineraryItem{
				{Name: fmt.Sprintf("%s local food street", destination), Tag: "food", Source: types.SourceGenerated, EstimatedDurationHours: 2},
			}},
		})
	}
	return resp
}

func candidateItem(c *types.PoiCandidate, tag string) types.ItineraryItem {
	return types.ItineraryItem{
		PoiID:                  c.PoiID,
		Name:                   c.Name,
		Category:               c.Category,
		Address:                c.Address,
		Coordinates:            c.Coordinates,
		Tag:                    tag,
		Source:                 types.SourceProvider,
		EstimatedDurationHours: 2,
	}
}

func matchesAny(c *types.PoiCandidate, patterns []string) bool {
	name := strings.ToLower(c.Name)
	category := strings.ToLower(c.Category)
	for _, p := range patterns {
		if strings.Contains(name, p) || strings.Contains(category, p) {
			return true
		}
	}
	return false
}

func buildFoodMap(pool []types.PoiCandidate) map[string][]string {
	foodMap := map[string][]string{}
	for _, bucket := range foodMapBuckets {
		var names []string
		for i := range pool {
			if len(names) >= foodMapBucketCap {
				break
			}
			if matchesAny(&pool[i], bucket.cues) {
				names = append(names, pool[i].Name)
			}
		}
		if len(names) > 0 {
			foodMap[bucket.name] = names
		}
	}
	return foodMap
}

// dayDates returns one date string per day: consecutive dates when startDate
// parses as YYYY-MM-DD, empty strings otherwise.
func dayDates(startDate string, days int) []string {
	dates := make([]string, days)
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return dates
	}
	for i := 0; i < days; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates
}

func defaultTitle(destination string, days int) string {
	return fmt.Sprintf("%s %d-Day Itinerary", destination, days)
}

func defaultCityIntro(destination string) string {
	return fmt.Sprintf("%s rewards unhurried visitors: a museum or two, a long walk through its older streets, and an evening spent eating where the locals do.", destination)
}

func defaultTips(destination string) []string {
	return []string{
		"Check opening hours and book popular museums ahead.",
		fmt.Sprintf("Carry small change and a transit card for getting around %s.", destination),
		"Keep evenings flexible; the best food streets reward wandering.",
	}
}

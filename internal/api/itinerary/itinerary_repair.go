package itinerary

import (
	"fmt"
	"strings"

	"github.com/wanderly/go-tour-guide/internal/types"
)

// maxItemsPerSlot is the post-repair cap.
const maxItemsPerSlot = 3

type poolIndex struct {
	byID   map[string]*types.PoiCandidate
	byName map[string]*types.PoiCandidate
}

func indexPool(pool []types.PoiCandidate) *poolIndex {
	idx := &poolIndex{
		byID:   make(map[string]*types.PoiCandidate, len(pool)),
		byName: make(map[string]*types.PoiCandidate, len(pool)),
	}
	for i := range pool {
		c := &pool[i]
		if _, dup := idx.byID[c.PoiID]; !dup {
			idx.byID[c.PoiID] = c
		}
		name := strings.ToLower(c.Name)
		if _, dup := idx.byName[name]; !dup {
			idx.byName[name] = c
		}
	}
	return idx
}

// Repair validates an itinerary of uncertain shape against the candidate
// pool and returns a structurally guaranteed replacement plus the number of
// items dropped in this pass. The dropped count accumulates on the response
// so repairing an already-repaired itinerary is a no-op.
//
// Grounding rule: with a non-empty pool, every item must resolve to a pool
// entry by poiId or by name, and the entry's own fields overwrite whatever
// the input claimed. Unresolvable items are discarded. With an empty pool
// there is nothing to ground against, so surviving items are marked as
// generated content.
func Repair(raw *types.ItineraryResponse, pool []types.PoiCandidate, destination string, days int, startDate string) (*types.ItineraryResponse, int) {
	if raw == nil {
		raw = &types.ItineraryResponse{}
	}

	idx := indexPool(pool)
	dates := dayDates(startDate, days)
	dropped := 0

	out := &types.ItineraryResponse{
		Title:       raw.Title,
		Destination: destination,
		CityIntro:   raw.CityIntro,
		Overview:    raw.Overview,
		FoodMap:     raw.FoodMap,
		Tips:        raw.Tips,
	}
	if out.Title == "" {
		out.Title = defaultTitle(destination, days)
	}
	if out.CityIntro == "" {
		out.CityIntro = defaultCityIntro(destination)
	}
	if out.FoodMap == nil {
		out.FoodMap = map[string][]string{}
	}
	if len(out.Tips) == 0 {
		out.Tips = defaultTips(destination)
	}

	// Exactly the requested number of days, no matter what came in.
	for i := 0; i < days; i++ {
		day := types.ItineraryDay{
			Date:      dates[i],
			Title:     fmt.Sprintf("Day %d", i+1),
			Morning:   types.ItinerarySlot{Title: slotTitleMorning, Items: []types.ItineraryItem{}},
			Afternoon: types.ItinerarySlot{Title: slotTitleAfternoon, Items: []types.ItineraryItem{}},
			Night:     types.ItinerarySlot{Title: slotTitleNight, Items: []types.ItineraryItem{}},
		}
		if i < len(raw.Days) {
			in := raw.Days[i]
			if in.Title != "" {
				day.Title = in.Title
			}
			if dates[i] == "" {
				day.Date = in.Date
			}
			day.Morning.Items, dropped = repairSlot(in.Morning.Items, idx, len(pool) > 0, dropped)
			day.Afternoon.Items, dropped = repairSlot(in.Afternoon.Items, idx, len(pool) > 0, dropped)
			day.Night.Items, dropped = repairSlot(in.Night.Items, idx, len(pool) > 0, dropped)
		}
		out.Days = append(out.Days, day)
	}

	out.DroppedItems = raw.DroppedItems + dropped

	if allSlotsEmpty(out) {
		// Nothing survived repair; the caller must still receive a usable
		// itinerary, so the fallback builder's output replaces it wholesale.
		fb, _ := BuildFallback(pool, destination, days, startDate)
		fb.DroppedItems = out.DroppedItems
		return fb, dropped
	}
	return out, dropped
}

func repairSlot(items []types.ItineraryItem, idx *poolIndex, grounded bool, dropped int) ([]types.ItineraryItem, int) {
	kept := []types.ItineraryItem{}
	for _, item := range items {
		if len(kept) >= maxItemsPerSlot {
			dropped++
			continue
		}
		repaired, ok := repairItem(item, idx, grounded)
		if !ok {
			dropped++
			continue
		}
		kept = append(kept, repaired)
	}
	return kept, dropped
}

func repairItem(item types.ItineraryItem, idx *poolIndex, grounded bool) (types.ItineraryItem, bool) {
	if !grounded {
		if item.Name == "" {
			return item, false
		}
		item.PoiID = ""
		item.Source = types.SourceGenerated
		return item, true
	}

	c, ok := idx.byID[item.PoiID]
	if !ok {
		c, ok = idx.byName[strings.ToLower(item.Name)]
	}
	if !ok {
		return item, false
	}

	// The candidate entry is authoritative; the model's restatement of a
	// grounded fact is never trusted.
	item.PoiID = c.PoiID
	item.Name = c.Name
	item.Category = c.Category
	item.Address = c.Address
	item.Coordinates = c.Coordinates
	item.Source = types.SourceProvider
	return item, true
}

func allSlotsEmpty(resp *types.ItineraryResponse) bool {
	for _, day := range resp.Days {
		if len(day.Morning.Items) > 0 || len(day.Afternoon.Items) > 0 || len(day.Night.Items) > 0 {
			return false
		}
	}
	return true
}

// ClampDays bounds the requested day count to the supported range.
func ClampDays(days int) int {
	if days < types.MinItineraryDays {
		return types.MinItineraryDays
	}
	if days > types.MaxItineraryDays {
		return types.MaxItineraryDays
	}
	return days
}

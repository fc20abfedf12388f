package itinerary

import (
	"encoding/json"
	"strings"

	"github.com/wanderly/go-tour-guide/internal/types"
)

// CleanModelJSON strips markdown fences and any stray text around the first
// top-level JSON object. Models sometimes wrap JSON even when asked not to.
func CleanModelJSON(response string) string {
	s := strings.TrimSpace(response)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseModelItinerary decodes untrusted model output into an itinerary,
// coercing every field to its expected type. Returns nil when the payload is
// not a JSON object at all; everything less broken than that is salvaged
// field by field.
func ParseModelItinerary(jsonStr string) *types.ItineraryResponse {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(CleanModelJSON(jsonStr)), &raw); err != nil {
		return nil
	}
	return coerceItinerary(raw)
}

func coerceItinerary(raw map[string]interface{}) *types.ItineraryResponse {
	resp := &types.ItineraryResponse{
		Title:       asString(raw["title"]),
		Destination: asString(raw["destination"]),
		CityIntro:   asString(raw["cityIntro"]),
		Overview:    asString(raw["overview"]),
		FoodMap:     asFoodMap(raw["foodMap"]),
		Tips:        asStringSlice(raw["tips"]),
	}
	for _, entry := range asSlice(raw["days"]) {
		day, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		resp.Days = append(resp.Days, types.ItineraryDay{
			Date:      asString(day["date"]),
			Title:     asString(day["title"]),
			Morning:   coerceSlot(day["morning"], slotTitleMorning),
			Afternoon: coerceSlot(day["afternoon"], slotTitleAfternoon),
			Night:     coerceSlot(day["night"], slotTitleNight),
		})
	}
	return resp
}

func coerceSlot(v interface{}, title string) types.ItinerarySlot {
	slot := types.ItinerarySlot{Title: title, Items: []types.ItineraryItem{}}
	m, ok := v.(map[string]interface{})
	if !ok {
		return slot
	}
	for _, entry := range asSlice(m["items"]) {
		item, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		slot.Items = append(slot.Items, types.ItineraryItem{
			PoiID:                  asString(item["poiId"]),
			Name:                   asString(item["name"]),
			Category:               asString(item["category"]),
			EstimatedDurationHours: asFloat(item["estimatedDurationHours"]),
			Tag:                    asString(item["tag"]),
			Address:                asString(item["address"]),
			Coordinates:            asCoordinates(item["coordinates"]),
			Source:                 asString(item["source"]),
		})
	}
	return slot
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asStringSlice(v interface{}) []string {
	var out []string
	for _, entry := range asSlice(v) {
		if s, ok := entry.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asFoodMap(v interface{}) map[string][]string {
	out := map[string][]string{}
	m, ok := v.(map[string]interface{})
	if !ok {
		return out
	}
	for k, entry := range m {
		if names := asStringSlice(entry); len(names) > 0 {
			out[k] = names
		}
	}
	return out
}

func asCoordinates(v interface{}) *types.Coordinates {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	lat, latOK := m["lat"].(float64)
	lng, lngOK := m["lng"].(float64)
	if !latOK || !lngOK {
		return nil
	}
	return &types.Coordinates{Lat: lat, Lng: lng}
}

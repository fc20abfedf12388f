package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wanderly/go-tour-guide/internal/types"
)

// promptCandidate is the trimmed candidate shape sent to the model.
type promptCandidate struct {
	PoiID    string `json:"poiId"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Address  string `json:"address,omitempty"`
}

const itinerarySystemRules = `You are a travel itinerary planner.
Rules you must follow:
- Respond with a single JSON object and nothing else. No markdown, no commentary.
- Plan at most 3 major stops per day, split across exactly three slots: "morning", "afternoon", "night". Put at most 2 items in any slot.
- "cityIntro", "foodMap" and "tips" must be present and non-empty.
- When no start date is given, every "date" field must be an empty string.
- Every itinerary item that refers to a real place MUST carry a "poiId" copied from the candidate list below. Inventing places or poiIds is forbidden.
- Items may include "estimatedDurationHours" (number) and a short "tag".`

const itinerarySchema = `{
  "title": "string",
  "destination": "string",
  "cityIntro": "string",
  "overview": "string",
  "days": [
    {
      "date": "YYYY-MM-DD or empty string",
      "title": "string",
      "morning": {"title": "Morning", "items": [{"poiId": "string", "name": "string", "category": "string", "estimatedDurationHours": 2, "tag": "string"}]},
      "afternoon": {"title": "Afternoon", "items": []},
      "night": {"title": "Night", "items": []}
    }
  ],
  "foodMap": {"category": ["dish or place name"]},
  "tips": ["string"]
}`

func buildGeneratePrompt(destination string, days int, startDate string, preferences []string, pool []types.PoiCandidate, poolLimit int) string {
	var b strings.Builder
	b.WriteString(itinerarySystemRules)
	b.WriteString("\n\nThe JSON object must follow this shape:\n")
	b.WriteString(itinerarySchema)

	fmt.Fprintf(&b, "\n\nDestination: %s\nDays: %d\n", destination, days)
	if startDate != "" {
		fmt.Fprintf(&b, "Start date: %s\n", startDate)
	} else {
		b.WriteString("Start date: unknown, use empty date strings\n")
	}
	if len(preferences) > 0 {
		fmt.Fprintf(&b, "Traveler preferences: %s\n", strings.Join(preferences, ", "))
	}

	b.WriteString("\nCandidate places (the only poiIds you may use):\n")
	b.WriteString(renderCandidates(pool, poolLimit))
	return b.String()
}

// BuildRefinePrompt asks the model to rewrite the current itinerary following
// a conversational instruction. The reply envelope carries a short natural
// language summary alongside the full replacement itinerary.
func BuildRefinePrompt(current *types.ItineraryResponse, history []types.ChatMessage, message string, destination string, days int, startDate string, pool []types.PoiCandidate, poolLimit int) string {
	var b strings.Builder
	b.WriteString(itinerarySystemRules)
	b.WriteString("\n\nYou are refining an existing itinerary. Respond with a single JSON object of the shape:\n")
	b.WriteString(`{"reply": "one or two sentences describing what you changed", "itinerary": <itinerary object>}`)
	b.WriteString("\nThe itinerary object must follow this shape:\n")
	b.WriteString(itinerarySchema)

	fmt.Fprintf(&b, "\n\nDestination: %s\nDays: %d\n", destination, days)
	if startDate != "" {
		fmt.Fprintf(&b, "Start date: %s\n", startDate)
	}

	if current != nil {
		if raw, err := json.Marshal(current); err == nil {
			b.WriteString("\nCurrent itinerary:\n")
			b.Write(raw)
			b.WriteString("\n")
		}
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	fmt.Fprintf(&b, "\nNew instruction: %s\n", message)
	b.WriteString("\nCandidate places (the only poiIds you may use):\n")
	b.WriteString(renderCandidates(pool, poolLimit))
	return b.String()
}

func renderCandidates(pool []types.PoiCandidate, limit int) string {
	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	trimmed := make([]promptCandidate, 0, len(pool))
	for _, c := range pool {
		trimmed = append(trimmed, promptCandidate{
			PoiID:    c.PoiID,
			Name:     c.Name,
			Category: c.Category,
			Address:  c.Address,
		})
	}
	raw, err := json.Marshal(trimmed)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

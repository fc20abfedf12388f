package types

// Source values carried by itinerary items. Items sourced from the place
// provider are grounded: their descriptive fields are authoritative copies
// of the candidate pool entry.
const (
	SourceProvider  = "provider"
	SourceGenerated = "generated"
)

// Day count bounds accepted by the itinerary endpoints.
const (
	MinItineraryDays = 1
	MaxItineraryDays = 14
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PoiCandidate is one entry of the candidate pool collected for a single
// request. Immutable once collected.
type PoiCandidate struct {
	PoiID       string       `json:"poiId"`
	Name        string       `json:"name"`
	Category    string       `json:"category,omitempty"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Source      string       `json:"source"`
}

type ItineraryItem struct {
	PoiID                  string       `json:"poiId,omitempty"`
	Name                   string       `json:"name"`
	Category               string       `json:"category,omitempty"`
	EstimatedDurationHours float64      `json:"estimatedDurationHours,omitempty"`
	Tag                    string       `json:"tag,omitempty"`
	Address                string       `json:"address,omitempty"`
	Coordinates            *Coordinates `json:"coordinates,omitempty"`
	Source                 string       `json:"source,omitempty"`
}

// ItinerarySlot is one of the three fixed day-parts. Holds at most three
// items once the itinerary has been normalized.
type ItinerarySlot struct {
	Title string          `json:"title"`
	Items []ItineraryItem `json:"items"`
}

type ItineraryDay struct {
	Date      string        `json:"date"`
	Title     string        `json:"title"`
	Morning   ItinerarySlot `json:"morning"`
	Afternoon ItinerarySlot `json:"afternoon"`
	Night     ItinerarySlot `json:"night"`
}

// ItineraryResponse is the root aggregate returned to the caller. It is
// rebuilt from scratch on every generation or refinement turn.
type ItineraryResponse struct {
	Title        string              `json:"title"`
	Destination  string              `json:"destination"`
	CityIntro    string              `json:"cityIntro"`
	Overview     string              `json:"overview,omitempty"`
	Days         []ItineraryDay      `json:"days"`
	FoodMap      map[string][]string `json:"foodMap"`
	Tips         []string            `json:"tips"`
	DroppedItems int                 `json:"droppedItems"`
}

type GenerateItineraryRequest struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate,omitempty"`
	Days        int      `json:"days"`
	Preferences []string `json:"preferences,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

type ChatItineraryRequest struct {
	SessionID   string             `json:"sessionId,omitempty"`
	Destination string             `json:"destination"`
	StartDate   string             `json:"startDate,omitempty"`
	Days        int                `json:"days"`
	Preferences []string           `json:"preferences,omitempty"`
	Itinerary   *ItineraryResponse `json:"itinerary,omitempty"`
	Messages    []ChatMessage      `json:"messages,omitempty"`
	Message     string             `json:"message"`
}

type ChatItineraryResponse struct {
	SessionID string             `json:"sessionId"`
	Reply     string             `json:"reply"`
	Itinerary *ItineraryResponse `json:"itinerary"`
}

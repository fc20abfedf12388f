package poi

import (
	"context"
	"fmt"

	"github.com/wanderly/go-tour-guide/internal/types"
)

// ProviderError marks a place-provider failure at the collector boundary.
// Callers decide whether to degrade to a fallback tier; the collector never
// makes that call on its own.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("place provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// CityScope narrows keyword searches to a destination resolved by geocoding.
// A nil scope is valid: searches simply run without a city filter.
type CityScope struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// PlacesProvider is the external POI search surface used by the collector.
type PlacesProvider interface {
	Geocode(ctx context.Context, destination string) (*CityScope, error)
	SearchByKeyword(ctx context.Context, keyword string, scope *CityScope) ([]types.PoiCandidate, error)
}

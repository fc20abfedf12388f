package poi

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/wanderly/go-tour-guide/internal/types"
)

// searchRadiusMeters bounds keyword searches around the geocoded city centre.
const searchRadiusMeters = 25000

// GooglePlacesProvider implements PlacesProvider on the Google Maps Platform
// (Text Search + Geocoding).
type GooglePlacesProvider struct {
	client   *maps.Client
	language string
	region   string
}

func NewGooglePlacesProvider(apiKey, language, region string) (*GooglePlacesProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GooglePlacesProvider{client: client, language: language, region: region}, nil
}

func (p *GooglePlacesProvider) Geocode(ctx context.Context, destination string) (*CityScope, error) {
	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  destination,
		Language: p.language,
		Region:   p.region,
	})
	if err != nil {
		return nil, &ProviderError{Op: "geocode", Err: err}
	}
	if len(results) == 0 {
		return nil, nil
	}
	first := results[0]
	return &CityScope{
		Name: first.FormattedAddress,
		Lat:  first.Geometry.Location.Lat,
		Lng:  first.Geometry.Location.Lng,
	}, nil
}

func (p *GooglePlacesProvider) SearchByKeyword(ctx context.Context, keyword string, scope *CityScope) ([]types.PoiCandidate, error) {
	req := &maps.TextSearchRequest{
		Query:    keyword,
		Language: p.language,
		Region:   p.region,
	}
	if scope != nil {
		req.Location = &maps.LatLng{Lat: scope.Lat, Lng: scope.Lng}
		req.Radius = searchRadiusMeters
	}

	resp, err := p.client.TextSearch(ctx, req)
	if err != nil {
		return nil, &ProviderError{Op: "text search", Err: err}
	}

	candidates := make([]types.PoiCandidate, 0, len(resp.Results))
	for _, result := range resp.Results {
		candidate := types.PoiCandidate{
			PoiID:   result.PlaceID,
			Name:    result.Name,
			Address: result.FormattedAddress,
			Source:  types.SourceProvider,
		}
		if len(result.Types) > 0 {
			candidate.Category = result.Types[0]
		}
		candidate.Coordinates = &types.Coordinates{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

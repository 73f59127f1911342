// Package googlemaps wraps the Google Maps Web Services client with the
// narrow surface the study-spot pipeline needs.
package googlemaps

import (
	"context"
	"fmt"
	"net/url"

	"googlemaps.github.io/maps"

	"github.com/studiable/studyspots-backend-go/internal/models"
)

const photoBaseURL = "https://maps.googleapis.com/maps/api/place/photo?maxwidth=400&photoreference=%s&key=%s"

// nearbySearchType pins nearby searches to establishments. The maps package
// has no PlaceType constant for "establishment" (it is not a Table-1 type),
// so the raw parameter value is used.
const nearbySearchType = maps.PlaceType("establishment")

// detailFields is the fixed field mask requested on every details lookup
var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskOpeningHours,
	maps.PlaceDetailsFieldMaskPhotos,
	maps.PlaceDetailsFieldMaskTypes,
	maps.PlaceDetailsFieldMaskPriceLevel,
	maps.PlaceDetailsFieldMaskUserRatingsTotal,
}

// PlaceDetail is the enriched record from the Place Details endpoint
type PlaceDetail struct {
	Name             string
	FormattedAddress string
	Rating           float64
	Coordinates      models.Coordinates
	WeekdayText      []string
	PhotoURLs        []string
	Types            []string
	PriceLevel       int
	UserRatingsTotal int
}

// RoadDistance is one element of a distance-matrix row. OK is false when the
// service could not route to that destination.
type RoadDistance struct {
	OK bool
	Km float64
}

// Client is a thin wrapper around the official maps client. The raw API key
// is kept as well because photo URLs embed it directly.
type Client struct {
	mc  *maps.Client
	key string
}

// New creates a Google Maps client
func New(key string) (*Client, error) {
	mc, err := maps.NewClient(maps.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Client{mc: mc, key: key}, nil
}

// NearbySearch runs one categorized nearby search around the origin.
// ZERO_RESULTS comes back as an empty slice, not an error.
func (c *Client) NearbySearch(ctx context.Context, origin models.Coordinates, radiusM uint, keyword string) ([]models.Candidate, error) {
	resp, err := c.mc.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: origin.Lat, Lng: origin.Lng},
		Radius:   radiusM,
		Type:     nearbySearchType,
		Keyword:  keyword,
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search %q: %w", keyword, err)
	}

	candidates := make([]models.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, models.Candidate{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Types:            r.Types,
			Vicinity:         r.Vicinity,
			Coordinates:      models.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Rating:           float64(r.Rating),
			PriceLevel:       r.PriceLevel,
			UserRatingsTotal: r.UserRatingsTotal,
		})
	}
	return candidates, nil
}

// PlaceDetails fetches the extended field set for one place and templates
// its photo references into servable photo URLs.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*PlaceDetail, error) {
	resp, err := c.mc.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  detailFields,
	})
	if err != nil {
		return nil, fmt.Errorf("place details %s: %w", placeID, err)
	}

	detail := &PlaceDetail{
		Name:             resp.Name,
		FormattedAddress: resp.FormattedAddress,
		Rating:           float64(resp.Rating),
		Coordinates:      models.Coordinates{Lat: resp.Geometry.Location.Lat, Lng: resp.Geometry.Location.Lng},
		Types:            resp.Types,
		PriceLevel:       resp.PriceLevel,
		UserRatingsTotal: resp.UserRatingsTotal,
	}
	if resp.OpeningHours != nil {
		detail.WeekdayText = resp.OpeningHours.WeekdayText
	}
	for _, p := range resp.Photos {
		detail.PhotoURLs = append(detail.PhotoURLs,
			fmt.Sprintf(photoBaseURL, url.QueryEscape(p.PhotoReference), url.QueryEscape(c.key)))
	}
	return detail, nil
}

// RoadDistances resolves driving distances from the origin to up to 25
// destinations in a single Distance Matrix call. The returned slice is
// parallel to dests.
func (c *Client) RoadDistances(ctx context.Context, origin models.Coordinates, dests []models.Coordinates) ([]RoadDistance, error) {
	destStrs := make([]string, len(dests))
	for i, d := range dests {
		destStrs[i] = fmt.Sprintf("%f,%f", d.Lat, d.Lng)
	}

	resp, err := c.mc.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		Destinations: destStrs,
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) != len(dests) {
		return nil, fmt.Errorf("distance matrix: malformed response (%d rows for %d destinations)",
			len(resp.Rows), len(dests))
	}

	distances := make([]RoadDistance, len(dests))
	for i, el := range resp.Rows[0].Elements {
		if el.Status != "OK" {
			continue
		}
		distances[i] = RoadDistance{OK: true, Km: float64(el.Distance.Meters) / 1000}
	}
	return distances, nil
}

// Geocode resolves a free-text address to a coordinate
func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	results, err := c.mc.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return models.Coordinates{}, fmt.Errorf("could not geocode address: %s", address)
	}
	loc := results[0].Geometry.Location
	return models.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// Autocomplete returns place predictions for a partial text input,
// optionally restricted to one country code.
func (c *Client) Autocomplete(ctx context.Context, input, country string) ([]models.Prediction, error) {
	req := &maps.PlaceAutocompleteRequest{Input: input}
	if country != "" {
		req.Components = map[maps.Component][]string{maps.ComponentCountry: {country}}
	}

	resp, err := c.mc.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("place autocomplete: %w", err)
	}

	predictions := make([]models.Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, models.Prediction{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}
	return predictions, nil
}

package service

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/studiable/studyspots-backend-go/internal/models"
)

// maxPredictions caps the suggestions returned per autocomplete input
const maxPredictions = 3

// geocodeWorkers bounds concurrent geocoding lookups
const geocodeWorkers = 8

// GeoClient is the slice of the Google Maps surface used for address
// resolution and place suggestions
type GeoClient interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
	Autocomplete(ctx context.Context, input, country string) ([]models.Prediction, error)
}

// GeocodeService resolves free-text locations before the pipeline runs
type GeocodeService struct {
	client  GeoClient
	country string
}

// NewGeocodeService creates a new geocoding service. country restricts
// autocomplete predictions to one region; empty means worldwide.
func NewGeocodeService(client GeoClient, country string) *GeocodeService {
	return &GeocodeService{client: client, country: country}
}

// GeocodeAll resolves each address concurrently. An address that cannot be
// geocoded comes back with null coordinates instead of failing the batch,
// and results stay in input order.
func (s *GeocodeService) GeocodeAll(ctx context.Context, addresses []string) []models.GeocodedAddress {
	out := make([]models.GeocodedAddress, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeWorkers)
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			out[i] = models.GeocodedAddress{Address: addr}
			coord, err := s.client.Geocode(gctx, addr)
			if err != nil {
				log.Printf("Geocoding failed for %q: %v", addr, err)
				return nil
			}
			lat, lng := coord.Lat, coord.Lng
			out[i].Lat, out[i].Lng = &lat, &lng
			return nil
		})
	}
	g.Wait()

	return out
}

// Suggest returns at most three place predictions for a partial input
func (s *GeocodeService) Suggest(ctx context.Context, input string) ([]models.Prediction, error) {
	predictions, err := s.client.Autocomplete(ctx, input, s.country)
	if err != nil {
		return nil, err
	}
	if len(predictions) > maxPredictions {
		predictions = predictions[:maxPredictions]
	}
	return predictions, nil
}

package service

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/studiable/studyspots-backend-go/internal/classify"
	"github.com/studiable/studyspots-backend-go/internal/googlemaps"
	"github.com/studiable/studyspots-backend-go/internal/models"
	"github.com/studiable/studyspots-backend-go/internal/spatial"
)

// searchKeywords are the categorized discovery queries, in priority order:
// when two keywords return the same place, the earlier keyword's category
// tags win.
var searchKeywords = []string{"cafe", "library", "coworking space", "coffee shop"}

const (
	// distanceMatrixBatchSize is the per-call destination limit of the
	// Distance Matrix API
	distanceMatrixBatchSize = 25

	// detailWorkers bounds concurrent place-details lookups
	detailWorkers = 8

	hoursNotAvailable   = "Hours not available"
	addressNotAvailable = "Address not available"
)

// PlacesClient is the slice of the Google Maps surface the pipeline consumes
type PlacesClient interface {
	NearbySearch(ctx context.Context, origin models.Coordinates, radiusM uint, keyword string) ([]models.Candidate, error)
	PlaceDetails(ctx context.Context, placeID string) (*googlemaps.PlaceDetail, error)
	RoadDistances(ctx context.Context, origin models.Coordinates, dests []models.Coordinates) ([]googlemaps.RoadDistance, error)
}

// SpotService runs the study-spot aggregation pipeline:
// discovery → suitability filter → detail enrichment → road distance →
// threshold filter → dedupe → rank.
type SpotService struct {
	client     PlacesClient
	maxResults int
	now        func() time.Time
}

// NewSpotService creates a new study-spot service
func NewSpotService(client PlacesClient, maxResults int) *SpotService {
	if maxResults <= 0 {
		maxResults = 30
	}
	return &SpotService{
		client:     client,
		maxResults: maxResults,
		now:        time.Now,
	}
}

// Search runs the full pipeline for one query. Partial upstream failures
// degrade the result set but never abort the run; every discovery call
// failing yields an empty list, not an error.
func (s *SpotService) Search(ctx context.Context, query models.Query) ([]models.StudySpot, error) {
	if query.MaxDistanceKm <= 0 {
		query.MaxDistanceKm = 10
	}

	log.Printf("Searching for study spots near %.4f,%.4f within %.0fkm by road",
		query.Origin.Lat, query.Origin.Lng, query.MaxDistanceKm)

	candidates := s.discover(ctx, query)
	candidates = filterSuitable(candidates)
	spots := s.enrich(ctx, query.Origin, candidates)
	spots = s.resolveDistances(ctx, query.Origin, spots)
	spots = filterByDistance(spots, query.MaxDistanceKm)
	spots = dedupe(spots)
	spots = s.rank(spots)

	log.Printf("Final study spots count: %d", len(spots))
	return spots, nil
}

// discover fans out one nearby search per keyword. The calls run
// concurrently but merge in fixed keyword order, skipping candidates already
// seen, so earlier keywords keep their category association. A failed
// keyword call is logged and contributes zero results.
func (s *SpotService) discover(ctx context.Context, query models.Query) []models.Candidate {
	radius := spatial.EffectiveSearchRadiusMeters(query.MaxDistanceKm)

	results := make([][]models.Candidate, len(searchKeywords))
	g, gctx := errgroup.WithContext(ctx)
	for i, keyword := range searchKeywords {
		i, keyword := i, keyword
		g.Go(func() error {
			found, err := s.client.NearbySearch(gctx, query.Origin, radius, keyword)
			if err != nil {
				log.Printf("Nearby search failed for %q: %v", keyword, err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool)
	var merged []models.Candidate
	for _, batch := range results {
		for _, cand := range batch {
			key := cand.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, cand)
		}
	}
	return merged
}

// filterSuitable drops candidates the study-friendliness heuristic rejects.
// Rejected candidates are never considered for enrichment.
func filterSuitable(candidates []models.Candidate) []models.Candidate {
	var suitable []models.Candidate
	for _, cand := range candidates {
		if classify.Classify(cand.Name, cand.Types).Suitable {
			suitable = append(suitable, cand)
		}
	}
	return suitable
}

// enrich fetches details for each candidate with a bounded worker pool,
// preserving input order. A candidate whose lookup fails falls back to its
// bare nearby-search record; it is never dropped here.
func (s *SpotService) enrich(ctx context.Context, origin models.Coordinates, candidates []models.Candidate) []models.StudySpot {
	spots := make([]models.StudySpot, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailWorkers)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			detail, err := s.client.PlaceDetails(gctx, cand.PlaceID)
			if err != nil {
				log.Printf("Details lookup failed for %s, using nearby data: %v", cand.Name, err)
				spots[i] = fallbackSpot(cand)
			} else {
				spots[i] = s.detailedSpot(cand, detail)
			}
			spots[i].StraightLineKm = spatial.HaversineKm(
				origin.Lat, origin.Lng,
				spots[i].Coordinates.Lat, spots[i].Coordinates.Lng)
			return nil
		})
	}
	g.Wait()

	return spots
}

// detailedSpot builds a StudySpot from a successful details lookup
func (s *SpotService) detailedSpot(cand models.Candidate, detail *googlemaps.PlaceDetail) models.StudySpot {
	cls := classify.Classify(detail.Name, detail.Types)
	photos := detail.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return models.StudySpot{
		Name:             detail.Name,
		Location:         detail.FormattedAddress,
		Rating:           detail.Rating,
		Wifi:             cls.Amenities.Wifi,
		Coffee:           cls.Amenities.Coffee,
		Quiet:            cls.Amenities.Quiet,
		Outlets:          cls.Amenities.Outlets,
		OpenTime:         todayHours(detail.WeekdayText, s.now()),
		Coordinates:      detail.Coordinates,
		PlaceID:          cand.Key(),
		Photos:           photos,
		PriceLevel:       detail.PriceLevel,
		UserRatingsTotal: detail.UserRatingsTotal,
	}
}

// fallbackSpot builds a reduced StudySpot straight from the nearby-search
// record when detail enrichment failed
func fallbackSpot(cand models.Candidate) models.StudySpot {
	cls := classify.Classify(cand.Name, cand.Types)
	location := cand.Vicinity
	if location == "" {
		location = addressNotAvailable
	}
	return models.StudySpot{
		Name:             cand.Name,
		Location:         location,
		Rating:           cand.Rating,
		Wifi:             cls.Amenities.Wifi,
		Coffee:           cls.Amenities.Coffee,
		Quiet:            cls.Amenities.Quiet,
		Outlets:          cls.Amenities.Outlets,
		OpenTime:         hoursNotAvailable,
		Coordinates:      cand.Coordinates,
		PlaceID:          cand.Key(),
		Photos:           []string{},
		PriceLevel:       cand.PriceLevel,
		UserRatingsTotal: cand.UserRatingsTotal,
	}
}

// todayHours picks today's entry from Google's Monday-first weekday_text.
// time.Weekday counts from Sunday, so Sunday maps to the last entry.
func todayHours(weekdayText []string, now time.Time) string {
	if len(weekdayText) == 0 {
		return hoursNotAvailable
	}
	idx := int(now.Weekday()) - 1
	if idx < 0 {
		idx = 6
	}
	if idx >= len(weekdayText) || weekdayText[idx] == "" {
		return hoursNotAvailable
	}
	return weekdayText[idx]
}

// resolveDistances attaches road distances in sequential batches of 25.
// A destination the service cannot route to is dropped as unreachable, but a
// whole-batch failure keeps every spot in the batch without a distance, so a
// quota or network error never silently shrinks the result set.
func (s *SpotService) resolveDistances(ctx context.Context, origin models.Coordinates, spots []models.StudySpot) []models.StudySpot {
	var resolved []models.StudySpot
	for start := 0; start < len(spots); start += distanceMatrixBatchSize {
		end := min(start+distanceMatrixBatchSize, len(spots))
		batch := spots[start:end]

		dests := make([]models.Coordinates, len(batch))
		for i, sp := range batch {
			dests[i] = sp.Coordinates
		}

		distances, err := s.client.RoadDistances(ctx, origin, dests)
		if err != nil {
			log.Printf("Distance matrix batch failed, keeping %d spots without distance: %v", len(batch), err)
			resolved = append(resolved, batch...)
			continue
		}

		for i, d := range distances {
			if !d.OK {
				log.Printf("No road route to %s, dropping", batch[i].Name)
				continue
			}
			sp := batch[i]
			km := d.Km
			sp.Distance = &km
			resolved = append(resolved, sp)
		}
	}
	return resolved
}

// filterByDistance keeps spots whose road distance is within the limit.
// Spots without a resolved distance get the benefit of the doubt.
func filterByDistance(spots []models.StudySpot, maxKm float64) []models.StudySpot {
	var kept []models.StudySpot
	for _, sp := range spots {
		if sp.Distance == nil || *sp.Distance <= maxKm {
			kept = append(kept, sp)
		}
	}
	return kept
}

// dedupe keeps the first occurrence of each key in encounter order
func dedupe(spots []models.StudySpot) []models.StudySpot {
	seen := make(map[string]bool, len(spots))
	var unique []models.StudySpot
	for _, sp := range spots {
		key := sp.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, sp)
	}
	return unique
}

// rank orders spots by ascending road distance; spots with a distance sort
// before spots without one, and among spots with no distance a higher rating
// wins. Remaining ties keep encounter order. The result is truncated to the
// configured cap.
func (s *SpotService) rank(spots []models.StudySpot) []models.StudySpot {
	sort.SliceStable(spots, func(i, j int) bool {
		a, b := spots[i], spots[j]
		switch {
		case a.Distance != nil && b.Distance != nil:
			return *a.Distance < *b.Distance
		case a.Distance != nil:
			return true
		case b.Distance != nil:
			return false
		default:
			return a.Rating > b.Rating
		}
	})
	if len(spots) > s.maxResults {
		spots = spots[:s.maxResults]
	}
	return spots
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/studiable/studyspots-backend-go/internal/googlemaps"
	"github.com/studiable/studyspots-backend-go/internal/models"
)

// fakeMapsClient implements PlacesClient in memory
type fakeMapsClient struct {
	mu sync.Mutex

	nearby    map[string][]models.Candidate // keyword -> results
	nearbyErr map[string]error

	details   map[string]*googlemaps.PlaceDetail
	detailErr map[string]error

	distances       map[string]googlemaps.RoadDistance // "lat,lng" -> element
	matrixErr       error
	matrixErrOnCall int // 1-based call number that fails; 0 means never

	matrixCalls int
}

func coordKey(c models.Coordinates) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

func (f *fakeMapsClient) NearbySearch(_ context.Context, _ models.Coordinates, _ uint, keyword string) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.nearbyErr[keyword]; err != nil {
		return nil, err
	}
	return f.nearby[keyword], nil
}

func (f *fakeMapsClient) PlaceDetails(_ context.Context, placeID string) (*googlemaps.PlaceDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.detailErr[placeID]; err != nil {
		return nil, err
	}
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeMapsClient) RoadDistances(_ context.Context, _ models.Coordinates, dests []models.Coordinates) ([]googlemaps.RoadDistance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matrixCalls++
	if f.matrixErr != nil {
		return nil, f.matrixErr
	}
	if f.matrixErrOnCall == f.matrixCalls {
		return nil, errors.New("matrix batch failed")
	}
	out := make([]googlemaps.RoadDistance, len(dests))
	for i, d := range dests {
		out[i] = f.distances[coordKey(d)]
	}
	return out, nil
}

var testOrigin = models.Coordinates{Lat: 13.7563, Lng: 100.5018}

func cafeCandidate(id, name string, lat, lng float64) models.Candidate {
	return models.Candidate{
		PlaceID:     id,
		Name:        name,
		Types:       []string{"cafe", "food", "establishment"},
		Vicinity:    "123 Sukhumvit Rd",
		Coordinates: models.Coordinates{Lat: lat, Lng: lng},
		Rating:      4.2,
	}
}

func detailFor(cand models.Candidate, weekdayText []string) *googlemaps.PlaceDetail {
	return &googlemaps.PlaceDetail{
		Name:             cand.Name,
		FormattedAddress: cand.Vicinity + ", Bangkok",
		Rating:           cand.Rating,
		Coordinates:      cand.Coordinates,
		WeekdayText:      weekdayText,
		Types:            cand.Types,
	}
}

func TestSearchPipeline(t *testing.T) {
	starbucks := cafeCandidate("p-starbucks", "Starbucks Thonglor", 13.7300, 100.5800)
	library := models.Candidate{
		PlaceID:     "p-library",
		Name:        "Neilson Hays Library",
		Types:       []string{"library", "establishment"},
		Vicinity:    "195 Surawong Rd",
		Coordinates: models.Coordinates{Lat: 13.7250, Lng: 100.5250},
		Rating:      4.7,
	}
	restaurant := models.Candidate{
		PlaceID:     "p-noodles",
		Name:        "Boat Noodle House",
		Types:       []string{"restaurant", "food", "establishment"},
		Coordinates: models.Coordinates{Lat: 13.7400, Lng: 100.5100},
	}

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{
			"cafe":        {starbucks, restaurant},
			"library":     {library},
			"coffee shop": {starbucks}, // duplicate across keywords
		},
		details: map[string]*googlemaps.PlaceDetail{
			"p-starbucks": detailFor(starbucks, nil),
			"p-library":   detailFor(library, nil),
		},
		distances: map[string]googlemaps.RoadDistance{
			coordKey(starbucks.Coordinates): {OK: true, Km: 2.3},
			coordKey(library.Coordinates):   {OK: true, Km: 4.1},
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(spots) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(spots))
	}

	// ordered by road distance ascending
	if spots[0].Name != "Starbucks Thonglor" || spots[1].Name != "Neilson Hays Library" {
		t.Fatalf("unexpected order: %s, %s", spots[0].Name, spots[1].Name)
	}

	sb := spots[0]
	if sb.Distance == nil || *sb.Distance != 2.3 {
		t.Fatalf("Starbucks distance = %v, want 2.3", sb.Distance)
	}
	if !sb.Coffee || !sb.Wifi || !sb.Outlets {
		t.Errorf("Starbucks amenities = coffee %v wifi %v outlets %v, all should be true", sb.Coffee, sb.Wifi, sb.Outlets)
	}
	if sb.Quiet {
		t.Error("a cafe should not be tagged quiet")
	}
	if sb.Location != "123 Sukhumvit Rd, Bangkok" {
		t.Errorf("Location = %q", sb.Location)
	}
	if sb.StraightLineKm <= 0 {
		t.Error("straight-line distance not populated")
	}

	lib := spots[1]
	if !lib.Quiet || !lib.Wifi || lib.Coffee {
		t.Errorf("library amenities = quiet %v wifi %v coffee %v", lib.Quiet, lib.Wifi, lib.Coffee)
	}
}

func TestSearchRejectsUnsuitableBeforeEnrichment(t *testing.T) {
	restaurant := models.Candidate{
		PlaceID:     "p-noodles",
		Name:        "Boat Noodle House",
		Types:       []string{"restaurant", "food"},
		Coordinates: models.Coordinates{Lat: 13.7400, Lng: 100.5100},
	}

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{"cafe": {restaurant}},
		// no details registered: an enrichment attempt would fall back,
		// not fail, so track that no spot leaks through instead
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 0 {
		t.Fatalf("restaurant should be filtered out, got %d spots", len(spots))
	}
	if client.matrixCalls != 0 {
		t.Error("distance matrix should not be called with no suitable candidates")
	}
}

func TestSearchDetailFallback(t *testing.T) {
	cand := cafeCandidate("p-flaky", "Flaky Cafe", 13.7400, 100.5100)
	client := &fakeMapsClient{
		nearby:    map[string][]models.Candidate{"cafe": {cand}},
		detailErr: map[string]error{"p-flaky": errors.New("OVER_QUERY_LIMIT")},
		distances: map[string]googlemaps.RoadDistance{
			coordKey(cand.Coordinates): {OK: true, Km: 1.0},
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 1 {
		t.Fatalf("expected fallback spot to survive, got %d spots", len(spots))
	}
	sp := spots[0]
	if sp.OpenTime != "Hours not available" {
		t.Errorf("OpenTime = %q", sp.OpenTime)
	}
	if sp.Location != "123 Sukhumvit Rd" {
		t.Errorf("Location = %q, want nearby-search vicinity", sp.Location)
	}
	if sp.Photos == nil || len(sp.Photos) != 0 {
		t.Errorf("Photos = %v, want empty non-nil slice", sp.Photos)
	}
}

func TestSearchBatchFailureKeepsSpotsWithoutDistance(t *testing.T) {
	a := cafeCandidate("p-a", "Cafe A", 13.7400, 100.5100)
	b := cafeCandidate("p-b", "Cafe B", 13.7500, 100.5200)
	b.Rating = 4.9

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{"cafe": {a, b}},
		details: map[string]*googlemaps.PlaceDetail{
			"p-a": detailFor(a, nil),
			"p-b": detailFor(b, nil),
		},
		matrixErr: errors.New("quota exceeded"),
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 5})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("batch failure must keep all spots, got %d", len(spots))
	}
	for _, sp := range spots {
		if sp.Distance != nil {
			t.Errorf("%s has a distance despite matrix failure", sp.Name)
		}
	}
	// without distances, higher rating ranks first
	if spots[0].Name != "Cafe B" {
		t.Errorf("expected Cafe B (rating 4.9) first, got %s", spots[0].Name)
	}
}

func TestSearchDropsUnroutable(t *testing.T) {
	reachable := cafeCandidate("p-ok", "Reachable Cafe", 13.7400, 100.5100)
	island := cafeCandidate("p-island", "Island Cafe", 13.7600, 100.5300)

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{"cafe": {reachable, island}},
		details: map[string]*googlemaps.PlaceDetail{
			"p-ok":     detailFor(reachable, nil),
			"p-island": detailFor(island, nil),
		},
		distances: map[string]googlemaps.RoadDistance{
			coordKey(reachable.Coordinates): {OK: true, Km: 3.0},
			// island missing -> zero value, OK false
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 1 || spots[0].Name != "Reachable Cafe" {
		t.Fatalf("expected only the routable spot, got %v", names(spots))
	}
}

func TestSearchDistanceThreshold(t *testing.T) {
	near := cafeCandidate("p-near", "Near Cafe", 13.7400, 100.5100)
	far := cafeCandidate("p-far", "Far Cafe", 13.9000, 100.7000)

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{"cafe": {near, far}},
		details: map[string]*googlemaps.PlaceDetail{
			"p-near": detailFor(near, nil),
			"p-far":  detailFor(far, nil),
		},
		distances: map[string]googlemaps.RoadDistance{
			coordKey(near.Coordinates): {OK: true, Km: 4.5},
			coordKey(far.Coordinates):  {OK: true, Km: 26.8},
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 5})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 1 || spots[0].Name != "Near Cafe" {
		t.Fatalf("expected only Near Cafe within 5km, got %v", names(spots))
	}
}

func TestSearchResultCap(t *testing.T) {
	var cands []models.Candidate
	details := make(map[string]*googlemaps.PlaceDetail)
	distances := make(map[string]googlemaps.RoadDistance)
	for i := 0; i < 5; i++ {
		c := cafeCandidate(
			fmt.Sprintf("p-%d", i),
			fmt.Sprintf("Cafe %d", i),
			13.70+float64(i)*0.01, 100.50)
		cands = append(cands, c)
		details[c.PlaceID] = detailFor(c, nil)
		distances[coordKey(c.Coordinates)] = googlemaps.RoadDistance{OK: true, Km: float64(i + 1)}
	}

	client := &fakeMapsClient{
		nearby:    map[string][]models.Candidate{"cafe": cands},
		details:   details,
		distances: distances,
	}

	svc := NewSpotService(client, 3)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(spots))
	}
	// nearest three survive the cut
	for i, sp := range spots {
		if *sp.Distance != float64(i+1) {
			t.Errorf("spot %d distance = %v, want %d", i, *sp.Distance, i+1)
		}
	}
}

func TestSearchAllDiscoveryFailuresYieldEmpty(t *testing.T) {
	client := &fakeMapsClient{
		nearbyErr: map[string]error{
			"cafe":            errors.New("boom"),
			"library":         errors.New("boom"),
			"coworking space": errors.New("boom"),
			"coffee shop":     errors.New("boom"),
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search must not propagate discovery failures, got %v", err)
	}
	if len(spots) != 0 {
		t.Fatalf("expected empty result, got %d spots", len(spots))
	}
}

func TestSearchDedupAcrossKeywords(t *testing.T) {
	shared := cafeCandidate("p-shared", "Everyday Cafe", 13.7400, 100.5100)

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{
			"cafe":        {shared},
			"coffee shop": {shared},
		},
		details: map[string]*googlemaps.PlaceDetail{"p-shared": detailFor(shared, nil)},
		distances: map[string]googlemaps.RoadDistance{
			coordKey(shared.Coordinates): {OK: true, Km: 2.0},
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 1 {
		t.Fatalf("duplicate place across keywords must collapse to one, got %d", len(spots))
	}
}

func TestTodayHours(t *testing.T) {
	week := []string{
		"Monday: 8:00 AM – 8:00 PM",
		"Tuesday: 8:00 AM – 8:00 PM",
		"Wednesday: 8:00 AM – 8:00 PM",
		"Thursday: 8:00 AM – 8:00 PM",
		"Friday: 8:00 AM – 10:00 PM",
		"Saturday: 9:00 AM – 10:00 PM",
		"Sunday: Closed",
	}

	monday := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	if monday.Weekday() != time.Monday {
		t.Fatal("fixture date is not a Monday")
	}
	sunday := monday.AddDate(0, 0, 6)

	if got := todayHours(week, monday); got != week[0] {
		t.Errorf("Monday hours = %q, want %q", got, week[0])
	}
	if got := todayHours(week, sunday); got != week[6] {
		t.Errorf("Sunday hours = %q, want %q", got, week[6])
	}
	if got := todayHours(nil, monday); got != "Hours not available" {
		t.Errorf("empty weekday text = %q", got)
	}
	if got := todayHours(week[:3], sunday); got != "Hours not available" {
		t.Errorf("truncated weekday text on Sunday = %q", got)
	}
}

func TestResolveDistancesBatching(t *testing.T) {
	var spots []models.StudySpot
	distances := make(map[string]googlemaps.RoadDistance)
	for i := 0; i < 60; i++ {
		c := models.Coordinates{Lat: 13.70 + float64(i)*0.001, Lng: 100.50}
		spots = append(spots, models.StudySpot{Name: fmt.Sprintf("Spot %d", i), Coordinates: c})
		distances[coordKey(c)] = googlemaps.RoadDistance{OK: true, Km: float64(i)}
	}

	client := &fakeMapsClient{distances: distances}
	svc := NewSpotService(client, 100)

	resolved := svc.resolveDistances(context.Background(), testOrigin, spots)
	if len(resolved) != 60 {
		t.Fatalf("expected 60 resolved spots, got %d", len(resolved))
	}
	if client.matrixCalls != 3 {
		t.Errorf("60 destinations should take 3 batches of 25, got %d calls", client.matrixCalls)
	}
}

func TestSearchOrderingAcrossFailedBatch(t *testing.T) {
	// 60 candidates span three distance-matrix batches; the middle batch
	// fails, so its spots survive without a distance and must sort after
	// every resolved spot, capped at the result limit.
	var cands []models.Candidate
	details := make(map[string]*googlemaps.PlaceDetail)
	distances := make(map[string]googlemaps.RoadDistance)
	for i := 0; i < 60; i++ {
		c := cafeCandidate(
			fmt.Sprintf("p-%02d", i),
			fmt.Sprintf("Cafe %02d", i),
			13.70+float64(i)*0.001, 100.50)
		c.Rating = 3.0 + float64(i%10)*0.1
		cands = append(cands, c)
		details[c.PlaceID] = detailFor(c, nil)
		switch {
		case i < 25:
			// batch 1: 0.8..20.0 km, descending-ish past the threshold
			distances[coordKey(c.Coordinates)] = googlemaps.RoadDistance{OK: true, Km: 0.8 * float64(i+1)}
		case i >= 50:
			// batch 3: all well within the threshold
			distances[coordKey(c.Coordinates)] = googlemaps.RoadDistance{OK: true, Km: 1.0 + 0.1*float64(i-50)}
		}
	}

	client := &fakeMapsClient{
		nearby:          map[string][]models.Candidate{"cafe": cands},
		details:         details,
		distances:       distances,
		matrixErrOnCall: 2,
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 9})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if client.matrixCalls != 3 {
		t.Fatalf("60 destinations should take 3 batches, got %d calls", client.matrixCalls)
	}
	if len(spots) != 30 {
		t.Fatalf("expected the 30-result cap, got %d", len(spots))
	}

	// resolved spots first, ascending; once a spot has no distance every
	// later spot has none either, with non-increasing ratings
	inTail := false
	for i, sp := range spots {
		if sp.Distance == nil {
			inTail = true
			if i > 0 && spots[i-1].Distance == nil && spots[i-1].Rating < sp.Rating {
				t.Errorf("undistanced spots misordered by rating at %d", i)
			}
			continue
		}
		if inTail {
			t.Fatalf("spot %d has a distance after an undistanced spot", i)
		}
		if *sp.Distance > 9 {
			t.Errorf("spot %d distance %.1f exceeds the 9km threshold", i, *sp.Distance)
		}
		if i > 0 && spots[i-1].Distance != nil && *spots[i-1].Distance > *sp.Distance {
			t.Errorf("distances out of order at %d: %.1f before %.1f", i, *spots[i-1].Distance, *sp.Distance)
		}
	}
	if !inTail {
		t.Error("expected spots from the failed batch in the capped output")
	}
}

func TestSearchDedupWithoutPlaceID(t *testing.T) {
	// the same venue reported without a place ID under two keywords, with
	// GPS jitter below the 4-decimal rounding, must merge into one spot
	first := models.Candidate{
		Name:        "Riverside Reading Room",
		Types:       []string{"library"},
		Vicinity:    "48 Charoen Krung Rd",
		Coordinates: models.Coordinates{Lat: 13.74001, Lng: 100.51002},
		Rating:      4.6,
	}
	jittered := first
	jittered.Coordinates = models.Coordinates{Lat: 13.74004, Lng: 100.50998}

	client := &fakeMapsClient{
		nearby: map[string][]models.Candidate{
			"library":     {first},
			"coffee shop": {jittered},
		},
		// no details: an empty place ID cannot be looked up, so the
		// fallback record is used
		distances: map[string]googlemaps.RoadDistance{
			coordKey(first.Coordinates): {OK: true, Km: 3.2},
		},
	}

	svc := NewSpotService(client, 30)
	spots, err := svc.Search(context.Background(), models.Query{Origin: testOrigin, MaxDistanceKm: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(spots) != 1 {
		t.Fatalf("jittered duplicates must merge, got %d spots: %v", len(spots), names(spots))
	}
	if want := "Riverside Reading Room_13.7400_100.5100"; spots[0].PlaceID != want {
		t.Errorf("fallback key = %q, want %q", spots[0].PlaceID, want)
	}
}

func names(spots []models.StudySpot) []string {
	out := make([]string, len(spots))
	for i, sp := range spots {
		out[i] = sp.Name
	}
	return out
}

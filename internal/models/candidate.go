package models

import "fmt"

// Candidate is a single categorized nearby-search result, before suitability
// filtering. Ephemeral: it exists only within one pipeline run.
type Candidate struct {
	PlaceID          string
	Name             string
	Types            []string
	Vicinity         string
	Coordinates      Coordinates
	Rating           float64
	PriceLevel       int
	UserRatingsTotal int
}

// Key returns the deduplication identity for the candidate, mirroring
// StudySpot.Key so a candidate and the spot built from it always agree.
func (c *Candidate) Key() string {
	if c.PlaceID != "" {
		return c.PlaceID
	}
	return fmt.Sprintf("%s_%.4f_%.4f", c.Name, c.Coordinates.Lat, c.Coordinates.Lng)
}

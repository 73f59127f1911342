package models

import "fmt"

// Coordinates is a WGS84 point in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StudySpot represents an enriched study venue returned to the caller.
// Field names on the wire follow the shape the frontend already consumes.
type StudySpot struct {
	Name             string      `json:"name"`
	Location         string      `json:"location"`
	Rating           float64     `json:"rating"`
	Wifi             bool        `json:"Wifi"`
	Coffee           bool        `json:"Coffee"`
	Quiet            bool        `json:"Quiet"`
	Outlets          bool        `json:"Outlets"`
	OpenTime         string      `json:"openTime"`
	Coordinates      Coordinates `json:"coordinates"`
	PlaceID          string      `json:"place_id"`
	Photos           []string    `json:"photos"`
	PriceLevel       int         `json:"price_level,omitempty"`
	UserRatingsTotal int         `json:"user_ratings_total,omitempty"`
	StraightLineKm   float64     `json:"straight_line_km"`

	// Distance is the road distance from the query origin in kilometers.
	// nil when the Distance Matrix call for this spot's batch failed.
	Distance *float64 `json:"distance,omitempty"`
}

// Key returns the identity used for deduplication. The Google place ID is
// primary; name plus rounded coordinates is the fallback for results
// without one, so near-identical GPS readings of the same venue still merge.
func (s *StudySpot) Key() string {
	if s.PlaceID != "" {
		return s.PlaceID
	}
	return fmt.Sprintf("%s_%.4f_%.4f", s.Name, s.Coordinates.Lat, s.Coordinates.Lng)
}

// Query is the immutable pipeline input
type Query struct {
	Origin        Coordinates
	MaxDistanceKm float64
}

// SearchRequest is the JSON body of POST /api/v1/spots/search
type SearchRequest struct {
	Lat         *float64 `json:"lat" binding:"required"`
	Lng         *float64 `json:"lng" binding:"required"`
	MaxDistance float64  `json:"maxDistance"` // km, defaults to config when 0
}

// SearchResponse wraps the ranked study spots
type SearchResponse struct {
	StudySpots []StudySpot `json:"studySpots"`
	Count      int         `json:"count"`
}

package models

// SavedSpot is a study spot bookmarked by a user
type SavedSpot struct {
	ID        string  `json:"id" db:"id"`
	User      string  `json:"user" db:"user"`
	Name      string  `json:"name" db:"name"`
	PlaceID   string  `json:"place_id,omitempty" db:"place_id"`
	Location  string  `json:"location,omitempty" db:"location"`
	Lat       float64 `json:"lat" db:"lat"`
	Lng       float64 `json:"lng" db:"lng"`
	Rating    float64 `json:"rating,omitempty" db:"rating"`
	Note      string  `json:"note,omitempty" db:"note"`
	CreatedAt string  `json:"createdAt,omitempty" db:"created_at"`

	// StraightLineKm is filled in when the caller asks for proximity sorting
	StraightLineKm float64 `json:"straight_line_km,omitempty"`
}

// SaveSpotRequest is the JSON body of POST /api/v1/saved
type SaveSpotRequest struct {
	Name     string   `json:"name" binding:"required"`
	PlaceID  string   `json:"place_id"`
	Location string   `json:"location"`
	Lat      *float64 `json:"lat" binding:"required"`
	Lng      *float64 `json:"lng" binding:"required"`
	Rating   float64  `json:"rating"`
	Note     string   `json:"note"`
}

package models

// GeocodeRequest is the JSON body of POST /api/v1/geocode
type GeocodeRequest struct {
	Addresses []string `json:"addresses" binding:"required"`
}

// GeocodedAddress pairs an input address with its resolved coordinate.
// Lat/Lng are null when geocoding failed for that address.
type GeocodedAddress struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// AutocompleteRequest is the JSON body of POST /api/v1/autocomplete
type AutocompleteRequest struct {
	Input string `json:"input" binding:"required"`
}

// Prediction is a single place suggestion for a partial text input
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

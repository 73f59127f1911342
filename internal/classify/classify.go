// Package classify holds the study-friendliness heuristics in one place so
// the same rules drive both candidate filtering and amenity inference.
package classify

import "strings"

// Amenities are inferred attributes, never directly observed
type Amenities struct {
	Wifi    bool
	Coffee  bool
	Quiet   bool
	Outlets bool
}

// Classification is the result of running the heuristics on one place
type Classification struct {
	Suitable  bool
	Amenities Amenities
}

// suitableNameTokens pass a place on name alone, whatever its category tags
var suitableNameTokens = []string{"coffee", "cafe", "library", "coworking", "workspace"}

// cafeNameTokens includes two chain names kept for compatibility with the
// data the heuristic was originally tuned on
var cafeNameTokens = []string{"coffee", "cafe", "starbucks", "true coffee"}

// Classify runs the suitability and amenity heuristics over a place's
// display name and Google category tags.
func Classify(name string, types []string) Classification {
	lower := strings.ToLower(name)

	isCafe := hasType(types, "cafe") || containsAny(lower, cafeNameTokens)
	isLibrary := hasType(types, "library")
	isCoworking := strings.Contains(lower, "coworking") || strings.Contains(lower, "workspace")

	suitable := hasType(types, "cafe") || hasType(types, "library") || hasType(types, "book_store") ||
		containsAny(lower, suitableNameTokens)

	return Classification{
		Suitable: suitable,
		Amenities: Amenities{
			Wifi:    isCafe || isLibrary || isCoworking,
			Coffee:  isCafe,
			Quiet:   isLibrary || isCoworking,
			Outlets: isCafe || isLibrary || isCoworking,
		},
	}
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

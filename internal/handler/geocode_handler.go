package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studiable/studyspots-backend-go/internal/models"
	"github.com/studiable/studyspots-backend-go/pkg/response"
)

// GeoResolver resolves free-text locations and partial inputs
type GeoResolver interface {
	GeocodeAll(ctx context.Context, addresses []string) []models.GeocodedAddress
	Suggest(ctx context.Context, input string) ([]models.Prediction, error)
}

// GeocodeHandler handles HTTP requests for geocoding and autocomplete
type GeocodeHandler struct {
	resolver GeoResolver
}

// NewGeocodeHandler creates a new geocode handler. resolver is nil when no
// Google Maps API key is configured.
func NewGeocodeHandler(resolver GeoResolver) *GeocodeHandler {
	return &GeocodeHandler{resolver: resolver}
}

// Geocode handles POST /api/v1/geocode
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	if h.resolver == nil {
		response.Error(c, http.StatusInternalServerError, "Google Maps API key not configured")
		return
	}

	var req models.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Addresses) == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid addresses")
		return
	}

	coordinates := h.resolver.GeocodeAll(c.Request.Context(), req.Addresses)
	response.Success(c, gin.H{"coordinates": coordinates})
}

// Autocomplete handles POST /api/v1/autocomplete
func (h *GeocodeHandler) Autocomplete(c *gin.Context) {
	if h.resolver == nil {
		response.Error(c, http.StatusInternalServerError, "Google Maps API key not configured")
		return
	}

	var req models.AutocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid or missing input")
		return
	}

	predictions, err := h.resolver.Suggest(c.Request.Context(), req.Input)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Place autocomplete failed")
		return
	}
	if predictions == nil {
		predictions = []models.Prediction{}
	}

	response.Success(c, gin.H{"predictions": predictions})
}

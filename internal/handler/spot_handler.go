package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studiable/studyspots-backend-go/internal/models"
	"github.com/studiable/studyspots-backend-go/pkg/response"
)

// SpotSearcher runs the study-spot aggregation pipeline
type SpotSearcher interface {
	Search(ctx context.Context, query models.Query) ([]models.StudySpot, error)
}

// SpotHandler handles HTTP requests for study-spot searches
type SpotHandler struct {
	searcher     SpotSearcher
	defaultMaxKm float64
}

// NewSpotHandler creates a new spot handler. searcher is nil when no Google
// Maps API key is configured; requests then get a configuration error.
func NewSpotHandler(searcher SpotSearcher, defaultMaxKm float64) *SpotHandler {
	if defaultMaxKm <= 0 {
		defaultMaxKm = 10
	}
	return &SpotHandler{searcher: searcher, defaultMaxKm: defaultMaxKm}
}

// Search handles POST /api/v1/spots/search
func (h *SpotHandler) Search(c *gin.Context) {
	if h.searcher == nil {
		response.Error(c, http.StatusInternalServerError, "Google Maps API key not configured")
		return
	}

	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Missing coordinates")
		return
	}

	maxKm := req.MaxDistance
	if maxKm <= 0 {
		maxKm = h.defaultMaxKm
	}

	spots, err := h.searcher.Search(c.Request.Context(), models.Query{
		Origin:        models.Coordinates{Lat: *req.Lat, Lng: *req.Lng},
		MaxDistanceKm: maxKm,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch study spots")
		return
	}
	if spots == nil {
		spots = []models.StudySpot{}
	}

	response.Success(c, models.SearchResponse{StudySpots: spots, Count: len(spots)})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studiable/studyspots-backend-go/internal/models"
	"github.com/studiable/studyspots-backend-go/internal/repository"
	"github.com/studiable/studyspots-backend-go/internal/service"
	"github.com/studiable/studyspots-backend-go/pkg/response"
)

// SavedHandler handles HTTP requests for bookmarked study spots
type SavedHandler struct {
	service *service.SavedSpotService
}

// NewSavedHandler creates a new saved-spot handler
func NewSavedHandler(service *service.SavedSpotService) *SavedHandler {
	return &SavedHandler{service: service}
}

// Save handles POST /api/v1/saved
func (h *SavedHandler) Save(c *gin.Context) {
	user := c.GetString("user")

	var req models.SaveSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid saved spot payload")
		return
	}

	spot, err := h.service.Save(user, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to save spot")
		return
	}

	response.Success(c, spot)
}

// List handles GET /api/v1/saved?lat=&lng=
func (h *SavedHandler) List(c *gin.Context) {
	user := c.GetString("user")

	var near *models.Coordinates
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			response.Error(c, http.StatusBadRequest, "Invalid lat/lng")
			return
		}
		near = &models.Coordinates{Lat: lat, Lng: lng}
	}

	spots, err := h.service.List(user, near)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list saved spots")
		return
	}

	response.Success(c, gin.H{"spots": spots, "count": len(spots)})
}

// Delete handles DELETE /api/v1/saved/:id
func (h *SavedHandler) Delete(c *gin.Context) {
	user := c.GetString("user")
	id := c.Param("id")

	if err := h.service.Delete(user, id); err != nil {
		if errors.Is(err, repository.ErrSavedSpotNotFound) {
			response.Error(c, http.StatusNotFound, "Saved spot not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete saved spot")
		return
	}

	response.Success(c, gin.H{"message": "Saved spot deleted"})
}

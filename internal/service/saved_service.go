package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/studiable/studyspots-backend-go/internal/models"
	"github.com/studiable/studyspots-backend-go/internal/repository"
	"github.com/studiable/studyspots-backend-go/internal/spatial"
)

// maxSavedPerUser caps how many bookmarks a user keeps; oldest are pruned
const maxSavedPerUser = 50

// SavedSpotService handles business logic for bookmarked study spots
type SavedSpotService struct {
	repo *repository.SavedSpotRepository
}

// NewSavedSpotService creates a new saved-spot service
func NewSavedSpotService(repo *repository.SavedSpotRepository) *SavedSpotService {
	return &SavedSpotService{repo: repo}
}

// Save bookmarks a spot for the user
func (s *SavedSpotService) Save(user string, req models.SaveSpotRequest) (*models.SavedSpot, error) {
	spot := &models.SavedSpot{
		ID:        uuid.New().String(),
		User:      user,
		Name:      req.Name,
		PlaceID:   req.PlaceID,
		Location:  req.Location,
		Lat:       *req.Lat,
		Lng:       *req.Lng,
		Rating:    req.Rating,
		Note:      req.Note,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := s.repo.Create(spot); err != nil {
		return nil, err
	}
	if err := s.repo.PruneOldest(user, maxSavedPerUser); err != nil {
		return nil, err
	}
	return spot, nil
}

// List returns the user's saved spots, newest first. When near is set, each
// spot gets a straight-line distance and the list is sorted by proximity
// instead.
func (s *SavedSpotService) List(user string, near *models.Coordinates) ([]models.SavedSpot, error) {
	spots, err := s.repo.ListByUser(user)
	if err != nil {
		return nil, err
	}

	if near != nil {
		for i := range spots {
			spots[i].StraightLineKm = spatial.HaversineKm(near.Lat, near.Lng, spots[i].Lat, spots[i].Lng)
		}
		sort.SliceStable(spots, func(i, j int) bool {
			return spots[i].StraightLineKm < spots[j].StraightLineKm
		})
	}
	return spots, nil
}

// Delete removes one of the user's saved spots
func (s *SavedSpotService) Delete(user, id string) error {
	return s.repo.Delete(user, id)
}

package repository

import (
	"database/sql"
	"fmt"

	"github.com/studiable/studyspots-backend-go/internal/models"
)

// ErrSavedSpotNotFound is returned when a delete targets a spot the user
// does not have
var ErrSavedSpotNotFound = fmt.Errorf("saved spot not found")

// SavedSpotRepository handles database operations for bookmarked spots
type SavedSpotRepository struct {
	db *sql.DB
}

// NewSavedSpotRepository creates a new saved-spot repository
func NewSavedSpotRepository(db *sql.DB) *SavedSpotRepository {
	return &SavedSpotRepository{db: db}
}

// Create inserts a new saved spot
func (r *SavedSpotRepository) Create(spot *models.SavedSpot) error {
	_, err := r.db.Exec(`
		INSERT INTO saved_spots (id, user, name, place_id, location, lat, lng, rating, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		spot.ID, spot.User, spot.Name, spot.PlaceID, spot.Location,
		spot.Lat, spot.Lng, spot.Rating, spot.Note, spot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert saved spot: %w", err)
	}
	return nil
}

// ListByUser returns a user's saved spots, newest first
func (r *SavedSpotRepository) ListByUser(user string) ([]models.SavedSpot, error) {
	rows, err := r.db.Query(`
		SELECT id, user, name, place_id, location, lat, lng, rating, note, created_at
		FROM saved_spots
		WHERE user = ?
		ORDER BY created_at DESC`, user)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved spots: %w", err)
	}
	defer rows.Close()

	spots := []models.SavedSpot{}
	for rows.Next() {
		var s models.SavedSpot
		var placeID, location, note sql.NullString
		if err := rows.Scan(&s.ID, &s.User, &s.Name, &placeID, &location,
			&s.Lat, &s.Lng, &s.Rating, &note, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved spot: %w", err)
		}
		s.PlaceID = placeID.String
		s.Location = location.String
		s.Note = note.String
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read saved spots: %w", err)
	}
	return spots, nil
}

// Delete removes one saved spot owned by the user
func (r *SavedSpotRepository) Delete(user, id string) error {
	res, err := r.db.Exec(`DELETE FROM saved_spots WHERE user = ? AND id = ?`, user, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved spot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrSavedSpotNotFound
	}
	return nil
}

// PruneOldest deletes a user's oldest saved spots beyond the keep limit
func (r *SavedSpotRepository) PruneOldest(user string, keep int) error {
	_, err := r.db.Exec(`
		DELETE FROM saved_spots
		WHERE user = ? AND id NOT IN (
			SELECT id FROM saved_spots
			WHERE user = ?
			ORDER BY created_at DESC
			LIMIT ?
		)`, user, user, keep)
	if err != nil {
		return fmt.Errorf("failed to prune saved spots: %w", err)
	}
	return nil
}

package repositories

import "gallery/internal/models"

// LikeRepository defines the interface for like data access.
type LikeRepository interface {
	GetByUserAndImage(userID, imageID string) (*models.Like, error)
	Create(like *models.Like) error
	Delete(id string) error
	CountByImage(imageID string) (int64, error)
}

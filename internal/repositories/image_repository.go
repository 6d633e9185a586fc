package repositories

import "gallery/internal/models"

// ImageRepository defines the interface for cached-image data access. Rows
// are write-once; there is no update or delete.
type ImageRepository interface {
	Create(image *models.Image) error
	GetByUnsplashID(unsplashID string) (*models.Image, error)
}

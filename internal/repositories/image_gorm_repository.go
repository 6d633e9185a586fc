package repositories

import (
	"errors"
	"fmt"

	"gallery/internal/apperrors"
	"gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{
		db: db,
	}
}

// Create persists a new cached image. The unique index on unsplash_id makes
// the losing side of a concurrent double-insert fail here; callers re-read
// instead of treating that as fatal.
func (r *GORMImageRepository) Create(image *models.Image) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("image %s: %w", image.UnsplashID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByUnsplashID retrieves a cached image by its Unsplash id.
func (r *GORMImageRepository) GetByUnsplashID(unsplashID string) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, "unsplash_id = ?", unsplashID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("image %s: %w", unsplashID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get image %s: %w", unsplashID, err)
	}
	return &image, nil
}

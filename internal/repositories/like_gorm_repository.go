package repositories

import (
	"errors"
	"fmt"

	"gallery/internal/apperrors"
	"gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{
		db: db,
	}
}

// GetByUserAndImage retrieves the like for a (user, image) pair, if any.
func (r *GORMLikeRepository) GetByUserAndImage(userID, imageID string) (*models.Like, error) {
	var like models.Like
	if err := r.db.First(&like, "user_id = ? AND image_id = ?", userID, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("like for user %s on image %s: %w", userID, imageID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

// Create creates a new like.
func (r *GORMLikeRepository) Create(like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	if err := r.db.Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("like for user %s on image %s: %w", like.UserID, like.ImageID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes a like by its ID.
func (r *GORMLikeRepository) Delete(id string) error {
	res := r.db.Unscoped().Delete(&models.Like{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// CountByImage returns the aggregate like count for an image.
func (r *GORMLikeRepository) CountByImage(imageID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("image_id = ?", imageID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes for image %s: %w", imageID, err)
	}
	return count, nil
}

package repositories

import (
	"errors"
	"fmt"

	"gallery/internal/apperrors"
	"gallery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create creates a new comment.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment with its author preloaded.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %s: %w", id, err)
	}
	return &comment, nil
}

// ListByImage returns all comments for an image, newest first, with authors
// preloaded for display names.
func (r *GORMCommentRepository) ListByImage(imageID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("User").
		Where("image_id = ?", imageID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for image %s: %w", imageID, err)
	}
	return comments, nil
}

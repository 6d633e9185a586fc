package repositories

import "gallery/internal/models"

// CommentRepository defines the interface for comment data access. Comments
// are immutable once created.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	ListByImage(imageID string) ([]models.Comment, error)
}

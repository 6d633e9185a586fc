package repositories

import (
	"fmt"
	"sync"

	"gallery/internal/apperrors"
	"gallery/internal/models"

	"github.com/google/uuid"
)

// MockLikeRepository is an in-memory implementation of LikeRepository.
type MockLikeRepository struct {
	likes map[string]models.Like
	mu    sync.RWMutex
}

// NewMockLikeRepository creates a new instance of MockLikeRepository.
func NewMockLikeRepository() *MockLikeRepository {
	return &MockLikeRepository{
		likes: make(map[string]models.Like),
	}
}

// GetByUserAndImage returns the like for a (user, image) pair, if any.
func (r *MockLikeRepository) GetByUserAndImage(userID, imageID string) (*models.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.likes {
		if l.UserID == userID && l.ImageID == imageID {
			like := l
			return &like, nil
		}
	}
	return nil, fmt.Errorf("like for user %s on image %s: %w", userID, imageID, apperrors.ErrNotFound)
}

// Create adds a new like, enforcing the (user, image) pair uniqueness.
func (r *MockLikeRepository) Create(like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.likes {
		if l.UserID == like.UserID && l.ImageID == like.ImageID {
			return fmt.Errorf("like for user %s on image %s: %w", like.UserID, like.ImageID, apperrors.ErrConflict)
		}
	}
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	r.likes[like.ID] = *like
	return nil
}

// Delete removes a like by its ID.
func (r *MockLikeRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.likes[id]; !ok {
		return fmt.Errorf("like %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.likes, id)
	return nil
}

// CountByImage returns the number of likes for an image.
func (r *MockLikeRepository) CountByImage(imageID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, l := range r.likes {
		if l.ImageID == imageID {
			count++
		}
	}
	return count, nil
}

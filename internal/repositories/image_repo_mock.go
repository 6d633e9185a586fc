package repositories

import (
	"fmt"
	"sync"

	"gallery/internal/apperrors"
	"gallery/internal/models"

	"github.com/google/uuid"
)

// MockImageRepository is an in-memory implementation of ImageRepository. It
// enforces unsplash_id uniqueness the way the real unique index does.
type MockImageRepository struct {
	images map[string]models.Image // keyed by unsplash id
	mu     sync.RWMutex
}

// NewMockImageRepository creates a new instance of MockImageRepository.
func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{
		images: make(map[string]models.Image),
	}
}

// Create adds a new image, rejecting a duplicate unsplash id.
func (r *MockImageRepository) Create(image *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[image.UnsplashID]; ok {
		return fmt.Errorf("image %s: %w", image.UnsplashID, apperrors.ErrConflict)
	}
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images[image.UnsplashID] = *image
	return nil
}

// GetByUnsplashID returns the cached image for the given Unsplash id.
func (r *MockImageRepository) GetByUnsplashID(unsplashID string) (*models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	image, ok := r.images[unsplashID]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", unsplashID, apperrors.ErrNotFound)
	}
	return &image, nil
}

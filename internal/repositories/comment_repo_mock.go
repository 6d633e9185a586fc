package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gallery/internal/apperrors"
	"gallery/internal/models"

	"github.com/google/uuid"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
// An optional user lookup fills in authors the way the GORM preload does.
type MockCommentRepository struct {
	comments map[string]models.Comment
	users    UserRepository // may be nil; authors are then left unset
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository(users UserRepository) *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[string]models.Comment),
		users:    users,
	}
}

// Create adds a new comment.
func (r *MockCommentRepository) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments[comment.ID] = *comment
	return nil
}

// GetByID returns a comment with its author attached.
func (r *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	r.attachAuthor(&comment)
	return &comment, nil
}

// ListByImage returns the comments for an image, newest first, with authors
// attached.
func (r *MockCommentRepository) ListByImage(imageID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.ImageID == imageID {
			comment := c
			r.attachAuthor(&comment)
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *MockCommentRepository) attachAuthor(comment *models.Comment) {
	if r.users == nil {
		return
	}
	if user, err := r.users.GetByID(comment.UserID); err == nil {
		comment.User = user
	}
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"gallery/internal/apperrors"
	"gallery/internal/models"
	"gallery/internal/repositories"
	"gallery/pkg/rabbitmq"
)

// Toggle outcomes reported to the client.
const (
	LikeResultLiked   = "Liked"
	LikeResultUnliked = "Unliked"
)

// MinCommentLength is the comment content floor, enforced here and at the
// API boundary.
const MinCommentLength = 3

// CommentView is the client-facing projection of a comment. The author is
// reduced to the public user fields; the full row (email, hash) stays
// server-side.
type CommentView struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	User      models.PublicUser `json:"user"`
}

func newCommentView(c *models.Comment) CommentView {
	view := CommentView{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		view.User = c.User.Public()
	}
	return view
}

func newCommentViews(comments []models.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, newCommentView(&comments[i]))
	}
	return views
}

// EngagementService handles likes and comments on cached images. Both write
// paths resolve the image through the catalog's GetOrFetch, so the first
// interaction with an Unsplash id is what pulls it into the local cache.
type EngagementService struct {
	catalog     *CatalogService
	imageRepo   repositories.ImageRepository
	likeRepo    repositories.LikeRepository
	commentRepo repositories.CommentRepository
	publisher   rabbitmq.Publisher // nil disables event publishing
}

// NewEngagementService creates a new EngagementService. publisher may be nil.
func NewEngagementService(
	catalog *CatalogService,
	imageRepo repositories.ImageRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	publisher rabbitmq.Publisher,
) *EngagementService {
	return &EngagementService{
		catalog:     catalog,
		imageRepo:   imageRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
	}
}

// ToggleLike flips the like state for a (user, image) pair and reports which
// way it went. The check-then-act pair is not transactional; a concurrent
// duplicate create is stopped by the unique pair index instead.
func (s *EngagementService) ToggleLike(unsplashID, userID string) (string, error) {
	image, err := s.catalog.GetOrFetch(unsplashID)
	if err != nil {
		return "", err
	}

	existing, err := s.likeRepo.GetByUserAndImage(userID, image.ID)
	if err == nil {
		if err := s.likeRepo.Delete(existing.ID); err != nil {
			return "", fmt.Errorf("failed to remove like: %w", err)
		}
		s.publishEvent("like.toggled", map[string]interface{}{
			"userId":     userID,
			"imageId":    image.ID,
			"unsplashId": unsplashID,
			"action":     LikeResultUnliked,
		})
		return LikeResultUnliked, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}

	like := &models.Like{UserID: userID, ImageID: image.ID}
	if err := s.likeRepo.Create(like); err != nil {
		return "", fmt.Errorf("failed to create like: %w", err)
	}
	s.publishEvent("like.toggled", map[string]interface{}{
		"userId":     userID,
		"imageId":    image.ID,
		"unsplashId": unsplashID,
		"action":     LikeResultLiked,
	})
	return LikeResultLiked, nil
}

// AddComment posts a comment on an image and returns it with the author's
// display name attached. The image is resolved through GetOrFetch; an id
// that resolves neither locally nor upstream reports not-found.
func (s *EngagementService) AddComment(unsplashID, userID, content string) (*CommentView, error) {
	if utf8.RuneCountInString(content) < MinCommentLength {
		return nil, fmt.Errorf("%w: comment must be at least 3 characters long", apperrors.ErrValidation)
	}

	image, err := s.catalog.GetOrFetch(unsplashID)
	if err != nil {
		return nil, fmt.Errorf("image not found: %w", apperrors.ErrNotFound)
	}

	comment := &models.Comment{
		UserID:  userID,
		ImageID: image.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	// Re-read to attach the author's display name.
	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created comment: %w", err)
	}

	s.publishEvent("comment.created", map[string]interface{}{
		"commentId":  created.ID,
		"userId":     userID,
		"imageId":    image.ID,
		"unsplashId": unsplashID,
	})
	view := newCommentView(created)
	return &view, nil
}

// ListComments returns all comments for a cached image, newest first. An
// image never interacted with has no local row and reports not-found; this
// read path does not touch Unsplash.
func (s *EngagementService) ListComments(unsplashID string) ([]CommentView, error) {
	image, err := s.imageRepo.GetByUnsplashID(unsplashID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("image not found: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListByImage(image.ID)
	if err != nil {
		return nil, err
	}
	return newCommentViews(comments), nil
}

// publishEvent sends an engagement event to the broker. Publishing is best
// effort: a broken broker must not fail the user's request.
func (s *EngagementService) publishEvent(event string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.publisher.Publish(event, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

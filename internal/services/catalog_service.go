package services

import (
	"errors"
	"fmt"

	"gallery/internal/apperrors"
	"gallery/internal/models"
	"gallery/internal/repositories"
	"gallery/pkg/unsplash"
)

// Search defaults per the original gallery behavior.
const (
	defaultQuery   = "nature"
	defaultPage    = 1
	defaultPerPage = 9
)

// SearchPage is one page of remote search results. Nothing in it is
// persisted; browsing is read-through.
type SearchPage struct {
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalPages int              `json:"totalPages"`
	Images     []unsplash.Photo `json:"images"`
}

// ImageDetails is a cached image with its engagement state attached.
type ImageDetails struct {
	models.Image
	Comments []CommentView `json:"comments"`
	Likes    int64         `json:"likes"`
	Liked    bool          `json:"liked"`
}

// CatalogService proxies the Unsplash API and maintains the local image
// cache. Images are persisted lazily on first interaction and never
// re-fetched afterwards.
type CatalogService struct {
	imageRepo   repositories.ImageRepository
	likeRepo    repositories.LikeRepository
	commentRepo repositories.CommentRepository
	unsplash    *unsplash.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	imageRepo repositories.ImageRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	unsplashClient *unsplash.Client,
) *CatalogService {
	return &CatalogService{
		imageRepo:   imageRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		unsplash:    unsplashClient,
	}
}

// Search queries Unsplash with sane defaults (query "nature", page 1, nine
// per page). Zero page values take the defaults; negative values are
// rejected.
func (s *CatalogService) Search(query string, page, perPage int) (*SearchPage, error) {
	if query == "" {
		query = defaultQuery
	}
	if page == 0 {
		page = defaultPage
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("%w: invalid page or perPage value", apperrors.ErrValidation)
	}

	result, err := s.unsplash.SearchPhotos(query, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, unsplash.ErrNoAccessKey):
			return nil, err
		case errors.Is(err, unsplash.ErrNoResults):
			return nil, fmt.Errorf("no images found: %w", apperrors.ErrNotFound)
		default:
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
		}
	}

	return &SearchPage{
		Page:       page,
		PerPage:    perPage,
		TotalPages: result.TotalPages,
		Images:     result.Photos,
	}, nil
}

// GetOrFetch returns the cached image row for an Unsplash id, fetching and
// persisting it on first touch. Once cached, Unsplash is not consulted
// again. Idempotent under concurrency: when two requests race past the
// lookup, the insert that loses to the unique index falls back to reading
// the winner's row.
func (s *CatalogService) GetOrFetch(unsplashID string) (*models.Image, error) {
	image, err := s.imageRepo.GetByUnsplashID(unsplashID)
	if err == nil {
		return image, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	photo, err := s.unsplash.GetPhoto(unsplashID)
	if err != nil {
		if errors.Is(err, unsplash.ErrNoAccessKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	image = &models.Image{
		UnsplashID:  photo.UnsplashID,
		Title:       photo.Title,
		Author:      photo.Author,
		Thumbnail:   photo.Thumbnail,
		Full:        photo.Full,
		Description: photo.Description,
		Tags:        photo.Tags,
	}
	if err := s.imageRepo.Create(image); err != nil {
		// A concurrent request may have inserted the same id first.
		if existing, readErr := s.imageRepo.GetByUnsplashID(unsplashID); readErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to cache image %s: %w", unsplashID, err)
	}
	return image, nil
}

// GetDetails resolves an image via GetOrFetch and attaches its comments
// (newest first, with author names), aggregate like count, and — when a
// requesting user is supplied — whether that user currently likes it.
func (s *CatalogService) GetDetails(unsplashID, requestingUserID string) (*ImageDetails, error) {
	image, err := s.GetOrFetch(unsplashID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByImage(image.ID)
	if err != nil {
		return nil, err
	}

	likes, err := s.likeRepo.CountByImage(image.ID)
	if err != nil {
		return nil, err
	}

	liked := false
	if requestingUserID != "" {
		if _, err := s.likeRepo.GetByUserAndImage(requestingUserID, image.ID); err == nil {
			liked = true
		}
	}

	return &ImageDetails{
		Image:    *image,
		Comments: newCommentViews(comments),
		Likes:    likes,
		Liked:    liked,
	}, nil
}

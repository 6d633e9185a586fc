package handlers

import (
	"errors"
	"log"

	"gallery/internal/apperrors"
	"gallery/internal/middleware"
	"gallery/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	engagement *services.EngagementService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(engagement *services.EngagementService) *CommentHandler {
	return &CommentHandler{
		engagement: engagement,
	}
}

// RegisterRoutes registers the comment routes. Posting requires a session;
// reading is public.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, required fiber.Handler) {
	commentRoutes := router.Group("/comments")
	commentRoutes.Post("/:unsplashId", required, h.HandleAddComment)
	commentRoutes.Get("/:unsplashId", h.HandleListComments)
}

// CommentRequest is the request body for posting a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment posts a comment on an image as the authenticated user.
func (h *CommentHandler) HandleAddComment(c *fiber.Ctx) error {
	unsplashID := c.Params("unsplashId")
	userID := middleware.UserID(c)

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing comment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	comment, err := h.engagement.AddComment(unsplashID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Comment must be at least 3 characters long",
			})
		case errors.Is(err, apperrors.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Image not found",
			})
		default:
			log.Printf("Error posting comment on %s: %v", unsplashID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error posting comment",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleListComments returns an image's comments, newest first.
func (h *CommentHandler) HandleListComments(c *fiber.Ctx) error {
	unsplashID := c.Params("unsplashId")

	comments, err := h.engagement.ListComments(unsplashID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Image not found",
			})
		}
		log.Printf("Error fetching comments for %s: %v", unsplashID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching comments",
		})
	}

	return c.JSON(comments)
}

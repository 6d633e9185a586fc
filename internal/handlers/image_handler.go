package handlers

import (
	"errors"
	"log"

	"gallery/internal/apperrors"
	"gallery/internal/middleware"
	"gallery/internal/services"
	"gallery/pkg/unsplash"

	"github.com/gofiber/fiber/v2"
)

// ImageHandler handles HTTP requests for browsing images and toggling likes.
type ImageHandler struct {
	catalog    *services.CatalogService
	engagement *services.EngagementService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(catalog *services.CatalogService, engagement *services.EngagementService) *ImageHandler {
	return &ImageHandler{
		catalog:    catalog,
		engagement: engagement,
	}
}

// RegisterRoutes registers the image routes. The auth gates differ per
// route, so they are passed in rather than applied on the group.
func (h *ImageHandler) RegisterRoutes(router fiber.Router, required, optional fiber.Handler) {
	imageRoutes := router.Group("/images")
	// Static segments must be registered before the :unsplashId catch-all.
	imageRoutes.Get("/unsplash", h.HandleSearch)
	imageRoutes.Post("/like/:unsplashId", required, h.HandleToggleLike)
	imageRoutes.Get("/:unsplashId", optional, h.HandleGetDetails)
}

// HandleSearch proxies a paginated Unsplash search.
func (h *ImageHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	page := c.QueryInt("page")
	perPage := c.QueryInt("perPage")

	result, err := h.catalog.Search(query, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid page or perPage value",
			})
		case errors.Is(err, apperrors.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No images found",
			})
		case errors.Is(err, unsplash.ErrNoAccessKey):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unsplash access key not found",
			})
		default:
			log.Printf("Unsplash search failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch from Unsplash",
			})
		}
	}

	return c.JSON(result)
}

// HandleGetDetails returns a cached image with its engagement state. The
// like flag reflects the requesting user when the request carries a valid
// token.
func (h *ImageHandler) HandleGetDetails(c *fiber.Ctx) error {
	unsplashID := c.Params("unsplashId")
	if unsplashID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request parameters",
		})
	}

	details, err := h.catalog.GetDetails(unsplashID, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, unsplash.ErrNoAccessKey) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unsplash access key not found",
			})
		}
		log.Printf("Error fetching image details for %s: %v", unsplashID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load image",
		})
	}

	return c.JSON(details)
}

// HandleToggleLike flips the authenticated user's like on an image.
func (h *ImageHandler) HandleToggleLike(c *fiber.Ctx) error {
	unsplashID := c.Params("unsplashId")
	userID := middleware.UserID(c)
	if unsplashID == "" || userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request parameters",
		})
	}

	result, err := h.engagement.ToggleLike(unsplashID, userID)
	if err != nil {
		if errors.Is(err, unsplash.ErrNoAccessKey) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unsplash access key not found",
			})
		}
		log.Printf("Error toggling like on %s: %v", unsplashID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error toggling like",
		})
	}

	return c.JSON(fiber.Map{
		"message": result,
	})
}

package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gallery/internal/config"
	"gallery/internal/handlers"
	"gallery/internal/middleware"
	"gallery/internal/models"
	"gallery/internal/repositories"
	"gallery/internal/services"
	"gallery/pkg/rabbitmq"
	"gallery/pkg/unsplash"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Image{}, &models.Like{}, &models.Comment{})
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Engagement events are best effort; without a broker URL the services
	// simply skip publishing.
	var publisher rabbitmq.Publisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	imageRepo := repositories.NewGORMImageRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	// --- Services ---
	unsplashClient := unsplash.NewClient(cfg.UnsplashAccessKey, &http.Client{Timeout: 15 * time.Second})
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	catalogService := services.NewCatalogService(imageRepo, likeRepo, commentRepo, unsplashClient)
	engagementService := services.NewEngagementService(catalogService, imageRepo, likeRepo, commentRepo, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	imageHandler := handlers.NewImageHandler(catalogService, engagementService)
	commentHandler := handlers.NewCommentHandler(engagementService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// --- API Routes ---
	api := app.Group("/api")
	requiredAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	authHandler.RegisterRoutes(api)
	imageHandler.RegisterRoutes(api, requiredAuth, optionalAuth)
	commentHandler.RegisterRoutes(api, requiredAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Engagement Event Consumer ---
	// A placeholder consumer that drains the engagement queue. Downstream
	// processing (notifications, analytics) would hang off this handler.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for engagement events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received engagement event %s: %s", msg.Type, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeEngagementEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens the GORM connection for the configured driver.
// TranslateError turns driver-level unique violations into
// gorm.ErrDuplicatedKey so the repositories can report conflicts.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.DatabaseDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DatabaseDSN), gormCfg)
	}
}

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all process-wide settings. It is loaded once in main and
// passed explicitly to the services that need it; nothing reads the
// environment after startup.
type Config struct {
	// Port the HTTP server listens on, e.g. ":5000".
	Port string
	// JWTSecret signs and verifies session tokens.
	JWTSecret string
	// UnsplashAccessKey authenticates outbound calls to the Unsplash API.
	// May be empty; image search and lazy fetch will then fail with an
	// upstream error.
	UnsplashAccessKey string
	// DatabaseDriver selects the GORM driver: "sqlite" or "postgres".
	DatabaseDriver string
	// DatabaseDSN is the connection string for the selected driver. For
	// sqlite this is the database file path.
	DatabaseDSN string
	// AllowOrigin is the browser origin allowed by the CORS middleware.
	AllowOrigin string
	// RabbitMQURL is the AMQP broker for engagement events. Empty disables
	// event publishing.
	RabbitMQURL string
}

// Load reads configuration from environment variables via Viper, applying
// defaults suitable for local development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("UNSPLASH_ACCESS_KEY", "")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "gallery.db")
	v.SetDefault("ALLOW_ORIGIN", "http://localhost:5173")
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	cfg := &Config{
		Port:              v.GetString("APP_PORT"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		UnsplashAccessKey: v.GetString("UNSPLASH_ACCESS_KEY"),
		DatabaseDriver:    v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		AllowOrigin:       v.GetString("ALLOW_ORIGIN"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

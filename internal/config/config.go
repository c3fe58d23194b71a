// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	URL string
}

// UploadConfig holds file storage settings.
type UploadConfig struct {
	Dir     string
	BaseURL string

	// R2 settings — when R2AccountID is set, uploads go to Cloudflare R2
	// instead of the local directory.
	R2AccountID string
	R2AccessKey string
	R2SecretKey string
	R2Bucket    string
	R2PublicURL string
}

// Config is the full service configuration.
type Config struct {
	Port      string
	JWTSecret string
	DB        DBConfig
	Upload    UploadConfig
}

// Load reads configuration from the environment. A .env file is loaded
// first if present (development convenience; ignored in production).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		DB: DBConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Upload: UploadConfig{
			Dir:         getEnv("UPLOAD_DIR", "uploads"),
			BaseURL:     getEnv("UPLOAD_BASE_URL", "/api/files"),
			R2AccountID: os.Getenv("R2_ACCOUNT_ID"),
			R2AccessKey: os.Getenv("R2_ACCESS_KEY_ID"),
			R2SecretKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			R2Bucket:    os.Getenv("R2_BUCKET"),
			R2PublicURL: os.Getenv("R2_PUBLIC_URL"),
		},
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv            = "dev"
	defaultDBPath            = "./dev.db"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultShopifyAPIVersion = "2024-01"
	defaultCurrency          = "USD"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv      string
	DBPath      string
	Port        string
	Currency    string
	LogLevel    string
	LogEncoding string

	FeeSchedulesPath string

	ShopifyStoreURL      string
	ShopifyAccessToken   string
	ShopifyWebhookSecret string
	ShopifyAPIVersion    string
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// ShopifyConfigured reports whether outbound product sync can run.
func (c Config) ShopifyConfigured() bool {
	return c.ShopifyStoreURL != "" && c.ShopifyAccessToken != ""
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Local dev convenience; production injects real env vars.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: reading .env: %v", err)
	}

	cfg := Config{
		AppEnv:               getEnv("APP_ENV", defaultAppEnv),
		DBPath:               getEnv("DB_PATH", defaultDBPath),
		Port:                 getEnv("PORT", defaultPort),
		Currency:             getEnv("CURRENCY", defaultCurrency),
		LogLevel:             getEnv("LOG_LEVEL", defaultLogLevel),
		LogEncoding:          os.Getenv("LOG_ENCODING"),
		FeeSchedulesPath:     os.Getenv("FEE_SCHEDULES_PATH"),
		ShopifyStoreURL:      os.Getenv("SHOPIFY_STORE_URL"),
		ShopifyAccessToken:   os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		ShopifyWebhookSecret: os.Getenv("SHOPIFY_WEBHOOK_SECRET"),
		ShopifyAPIVersion:    getEnv("SHOPIFY_API_VERSION", defaultShopifyAPIVersion),
	}

	if cfg.LogEncoding == "" {
		cfg.LogEncoding = "json"
		if cfg.IsDev() {
			cfg.LogEncoding = "console"
		}
	}

	if !cfg.ShopifyConfigured() {
		log.Print("warning: SHOPIFY_STORE_URL or SHOPIFY_ACCESS_TOKEN is not set; product sync disabled")
	}
	if cfg.ShopifyWebhookSecret == "" {
		log.Print("warning: SHOPIFY_WEBHOOK_SECRET is not set; webhook signatures are not verified")
	}

	return cfg
}

// loadDotEnv loads KEY=VALUE pairs from a dotenv file into the process
// environment. A missing file is not an error and existing variables are
// never overwritten.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load dotenv %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

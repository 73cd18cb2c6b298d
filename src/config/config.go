package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Calculation settings
	TaxRulesPath     string              // optional JSON file with additional tax years
	CapitalLossLimit decimal.NullDecimal // optional cap on net capital losses against other income

	// Upload settings
	MaxUploadSizeBytes int64

	// Frontend URL(s) allowed by CORS
	AllowedOrigins []string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory (common when running from /backend)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760") // 10MB default
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./magifolio.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		TaxRulesPath:     getEnv("TAX_RULES_PATH", ""),
		CapitalLossLimit: getEnvAsNullDecimal("CAPITAL_LOSS_LIMIT"),

		MaxUploadSizeBytes: maxUploadSizeBytes,

		AllowedOrigins: getOrigins("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
	if Cfg.CapitalLossLimit.Valid {
		log.Printf("Capital loss limit enabled: %s", Cfg.CapitalLossLimit.Decimal.String())
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsNullDecimal reads an optional decimal environment variable; unset
// or empty means "not configured".
func getEnvAsNullDecimal(key string) decimal.NullDecimal {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return decimal.NullDecimal{}
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		log.Printf("Invalid decimal value for %s ('%s'), ignoring", key, valueStr)
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: value, Valid: true}
}

// getOrigins retrieves and parses the comma-separated list of allowed CORS origins.
func getOrigins(key, fallback string) []string {
	originsStr := getEnv(key, fallback)
	origins := strings.Split(originsStr, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

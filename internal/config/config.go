package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment.
type Config struct {
	DatabaseURL          string
	Port                 string
	JWTSecret            string
	DefaultStoreID       int
	RuleSelection        string
	SettingsCacheRefresh string
	AdminEmail           string
	AdminPassword        string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		Port:                 getenv("APP_PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		RuleSelection:        getenv("SHIPPING_RULE_SELECTION", "first"),
		SettingsCacheRefresh: getenv("SETTINGS_CACHE_REFRESH", "@every 5m"),
		AdminEmail:           os.Getenv("ADMIN_EMAIL"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
	}

	storeID, err := strconv.Atoi(getenv("DEFAULT_STORE_ID", "1"))
	if err != nil || storeID < 0 {
		return nil, fmt.Errorf("DEFAULT_STORE_ID must be a non-negative integer")
	}
	cfg.DefaultStoreID = storeID

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

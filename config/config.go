package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	FrontendURL         string
	JWTSecret           string
	JWTAccessExpiration time.Duration
	UpstreamBaseURL     string
	UpstreamTimeout     time.Duration
	DefaultAPIKey       string
	WorkspaceAPIKeys    map[string]string
	DataDir             string
}

func Load() *Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	accessExp, _ := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION", "12h"))
	upstreamTimeout, _ := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "30s"))

	return &Config{
		Port:                getEnv("PORT", "8080"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiration: accessExp,
		UpstreamBaseURL:     getEnv("INSTANTLY_BASE_URL", "https://api.instantly.ai"),
		UpstreamTimeout:     upstreamTimeout,
		DefaultAPIKey:       getEnv("INSTANTLY_API_KEY", ""),
		WorkspaceAPIKeys: map[string]string{
			"1": getEnv("INSTANTLY_API_KEY_1", ""),
			"2": getEnv("INSTANTLY_API_KEY_2", ""),
			"3": getEnv("INSTANTLY_API_KEY_3", ""),
			"4": getEnv("INSTANTLY_API_KEY_4", ""),
		},
		DataDir: getEnv("DATA_DIR", "data"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

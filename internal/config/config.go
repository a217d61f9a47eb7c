package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the board needs from the environment.
type Config struct {
	MongoURI     string
	DBName       string
	JWTSecret    string
	GeminiAPIKey string
	GeminiModel  string

	// RankingMode selects the displayed order: "recency" or "popularity".
	RankingMode string

	// Fallback coordinate used when geolocation is unavailable or denied.
	FallbackLat float64
	FallbackLng float64

	// Map viewport defaults.
	MapCenterLat float64
	MapCenterLng float64
	MapZoom      int

	DigestCron string
}

// LoadConfig reads .env when present, falling back to the process
// environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("MONGO_DB", "wishboard"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		RankingMode:  getEnv("RANKING_MODE", "recency"),
		FallbackLat:  getEnvFloat("FALLBACK_LAT", 36.5),
		FallbackLng:  getEnvFloat("FALLBACK_LNG", 127.5),
		MapCenterLat: getEnvFloat("MAP_CENTER_LAT", 36.5),
		MapCenterLng: getEnvFloat("MAP_CENTER_LNG", 127.5),
		MapZoom:      getEnvInt("MAP_ZOOM", 12),
		DigestCron:   getEnv("DIGEST_CRON", "@hourly"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid value for %s, using default", key)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default", key)
		return fallback
	}
	return parsed
}

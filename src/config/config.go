package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	LeagueID string
	Season   int

	ProviderBaseURL        string
	ProviderTimeout        time.Duration
	ProviderRequestsPerSec float64
	ProviderBurst          int

	CacheExpiry        time.Duration
	CacheCleanupPeriod time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	leagueID := getEnv("LEAGUE_ID", "")
	if leagueID == "" {
		log.Println("WARNING: LEAGUE_ID is not set. Season sync requests will fail until it is configured.")
	}

	season := getEnvAsInt("SEASON", time.Now().Year())

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./leaguefolio.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		LeagueID: leagueID,
		Season:   season,

		ProviderBaseURL:        getEnv("PROVIDER_BASE_URL", "https://api.sleeper.app/v1"),
		ProviderTimeout:        getEnvAsDuration("PROVIDER_TIMEOUT", 15*time.Second),
		ProviderRequestsPerSec: getEnvAsFloat("PROVIDER_REQUESTS_PER_SEC", 5),
		ProviderBurst:          getEnvAsInt("PROVIDER_BURST", 10),

		CacheExpiry:        getEnvAsDuration("CACHE_EXPIRY", 15*time.Minute),
		CacheCleanupPeriod: getEnvAsDuration("CACHE_CLEANUP_PERIOD", 30*time.Minute),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, LeagueID=%s, Season=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.LeagueID, Cfg.Season)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Float value for %s not set or empty, using default: %g", key, fallback)
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

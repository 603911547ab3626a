package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every tunable the API reads from the environment.
type Config struct {
	Port        string
	DatabaseURI string
	AppEnv      string

	JWTSecret     string
	JWTExpiration time.Duration
	BcryptCost    int

	OrderNumberPrefix  string
	DefaultPrepMinutes int

	RabbitMQURL string
}

// Load reads .env (if present) and builds a Config with sensible defaults,
// so the server starts on a clean checkout without any setup.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		DatabaseURI: getEnv("DATABASE_URI", "streetbites.db"),
		AppEnv:      getEnv("APP_ENV", "development"),

		JWTSecret:     getEnv("JWT_SECRET", "street-bites-super-secret-key-2025"),
		JWTExpiration: getDuration("JWT_EXPIRATION", 24*time.Hour),
		BcryptCost:    getInt("BCRYPT_COST", 12),

		OrderNumberPrefix:  getEnv("ORDER_PREFIX", "SB"),
		DefaultPrepMinutes: getInt("DEFAULT_PREP_TIME", 15),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
	}
}

// IsDevelopment reports whether diagnostic detail may be included in error responses.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "debug"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %s", key, fallback)
		return fallback
	}
	return parsed
}

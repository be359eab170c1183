package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"rupeeready/internal/money"
)

// Config holds application configuration. All business constants (tax
// reservation rate, low-balance threshold, session timeout, fetch retry
// policy) live here rather than being hardcoded at call sites.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret      string
	SessionTimeout time.Duration

	// Ledger rules
	TaxReserveRate      int64 // percent of income reserved for taxes
	LowBalanceThreshold int64 // paise; safe-to-spend below this raises an alert
	UpcomingBills       int64 // paise; placeholder until a bills ledger exists

	// Profile store
	ProfileFetchRetries int
	ProfileFetchBackoff time.Duration

	// Spend guard (advisory pre-check service)
	SpendGuardURL     string
	SpendGuardTimeout time.Duration

	// Income webhook
	WebhookAPIKey string

	// Federated sign-in
	GoogleClientID string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rupeeready"),
		DBPassword: getEnv("DB_PASSWORD", "rupeeready"),
		DBName:     getEnv("DB_NAME", "rupeeready"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Auth
		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		SessionTimeout: getDuration("SESSION_TIMEOUT", 24*time.Hour),

		// Ledger rules
		TaxReserveRate:      getInt64("TAX_RESERVE_RATE", 30),
		LowBalanceThreshold: getAmount("LOW_BALANCE_THRESHOLD", "10000"),
		UpcomingBills:       getAmount("UPCOMING_BILLS", "7219.50"),

		// Profile store
		ProfileFetchRetries: int(getInt64("PROFILE_FETCH_RETRIES", 3)),
		ProfileFetchBackoff: getDuration("PROFILE_FETCH_BACKOFF", 500*time.Millisecond),

		// Spend guard
		SpendGuardURL:     getEnv("SPENDGUARD_URL", ""),
		SpendGuardTimeout: getDuration("SPENDGUARD_TIMEOUT", 3*time.Second),

		// Income webhook
		WebhookAPIKey: getEnv("WEBHOOK_API_KEY", ""),

		// Federated sign-in
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration environment variable, falling back on error.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

// getInt64 parses an integer environment variable, falling back on error.
func getInt64(key string, defaultValue int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

// getAmount parses a decimal rupee environment variable into paise.
func getAmount(key, defaultValue string) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		raw = defaultValue
	}
	paise, err := money.Parse(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		paise, _ = money.Parse(defaultValue)
	}
	return paise
}

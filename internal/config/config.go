package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	BaseURL     string // Public base URL short codes are appended to
	LandingURL  string // Where unknown short codes are sent
	JWTSecret   string // Secret key for JWT token signing
	JWTTTL      int    // JWT token expiration time in hours

	TrustedProxies []string // CIDRs or IPs whose X-Forwarded-For is believed for rate limiting; empty trusts none

	RateLimitRPS           float64 // General API endpoints (requests per second)
	RateLimitBurst         int
	RateLimitAuthRPS       float64 // Auth endpoints (stricter)
	RateLimitAuthBurst     int
	RateLimitShortenRPS    float64 // Link creation (stricter)
	RateLimitShortenBurst  int
	RateLimitRedirectRPS   float64 // Redirects (lenient)
	RateLimitRedirectBurst int

	Allocation AllocationPolicy

	StoreTimeout   time.Duration // Upper bound for a single store round-trip
	CacheTTL       time.Duration // Lifetime of cached short code lookups
	ClickWorkers   int           // 0 records clicks inline with the redirect
	ClickQueueSize int
}

// AllocationPolicy tunes the short code collision loop.
type AllocationPolicy struct {
	CodeLength          int // Length of freshly generated codes
	EscalatedCodeLength int // Length used once EscalateAfter collisions have been seen
	EscalateAfter       int
	MaxCodeAttempts     int // Collisions tolerated before giving up
	MaxInsertRetries    int // Retries after losing an insert race on the unique index
}

// DefaultAllocationPolicy: 6 character codes, 8 characters after more than 10 collisions.
func DefaultAllocationPolicy() AllocationPolicy {
	return AllocationPolicy{
		CodeLength:          6,
		EscalatedCodeLength: 8,
		EscalateAfter:       10,
		MaxCodeAttempts:     50,
		MaxInsertRetries:    5,
	}
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	defaults := DefaultAllocationPolicy()
	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		BaseURL:     baseURL,
		LandingURL:  getEnv("LANDING_URL", getEnv("FRONTEND_URL", baseURL+"/")),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTL:      getEnvInt("JWT_TTL_HOURS", 24),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		RateLimitRPS:           getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:       getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		RateLimitShortenRPS:    getEnvFloat("RATE_LIMIT_SHORTEN_RPS", 2),
		RateLimitShortenBurst:  getEnvInt("RATE_LIMIT_SHORTEN_BURST", 5),
		RateLimitRedirectRPS:   getEnvFloat("RATE_LIMIT_REDIRECT_RPS", 30),
		RateLimitRedirectBurst: getEnvInt("RATE_LIMIT_REDIRECT_BURST", 60),

		Allocation: AllocationPolicy{
			CodeLength:          getEnvInt("CODE_LENGTH", defaults.CodeLength),
			EscalatedCodeLength: getEnvInt("ESCALATED_CODE_LENGTH", defaults.EscalatedCodeLength),
			EscalateAfter:       getEnvInt("CODE_ESCALATE_AFTER", defaults.EscalateAfter),
			MaxCodeAttempts:     getEnvInt("MAX_CODE_ATTEMPTS", defaults.MaxCodeAttempts),
			MaxInsertRetries:    getEnvInt("MAX_INSERT_RETRIES", defaults.MaxInsertRetries),
		},

		StoreTimeout:   getEnvDuration("STORE_TIMEOUT", 3*time.Second),
		CacheTTL:       getEnvDuration("CACHE_TTL", time.Hour),
		ClickWorkers:   getEnvInt("CLICK_WORKERS", 0),
		ClickQueueSize: getEnvInt("CLICK_QUEUE_SIZE", 1000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDuration accepts Go duration strings such as "500ms" or "2s".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

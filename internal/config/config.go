package config

import (
	"os"
	"strconv"
	"time"

	"cmbs_reminder/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Selector tuning
	ReminderInterval     time.Duration
	DueSoonThresholdDays int

	// Background trigger
	SchedulerEnabled  bool
	SchedulerInterval time.Duration

	// Text generation; empty key means the offline template generator
	GeminiAPIKey string
	GeminiModel  string

	// Admin endpoints stay disabled without a secret
	AdminJWTSecret string

	// API rate limiting
	APIRateLimit  int
	APIRateWindow time.Duration

	LogLevel string
	LogJSON  bool

	SeedOnStartup bool
}

// Load reads configuration from the environment (.env honored in dev).
func Load() *Config {
	_ = godotenv.Load()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("invalid REDIS_DB", "value", v)
		}
		redisDB = n
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	reminderInterval := 24 * time.Hour
	if v := os.Getenv("REMINDER_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			reminderInterval = time.Duration(n) * time.Hour
		}
	}

	dueSoonDays := 7
	if v := os.Getenv("DUE_SOON_THRESHOLD_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dueSoonDays = n
		}
	}

	schedulerInterval := 60 * time.Second
	if v := os.Getenv("SCHEDULER_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			schedulerInterval = time.Duration(n) * time.Second
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-pro"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:              port,
		RedisAddr:            redisAddr,
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              redisDB,
		ReminderInterval:     reminderInterval,
		DueSoonThresholdDays: dueSoonDays,
		SchedulerEnabled:     os.Getenv("SCHEDULER_ENABLED") != "false",
		SchedulerInterval:    schedulerInterval,
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          model,
		AdminJWTSecret:       os.Getenv("ADMIN_JWT_SECRET"),
		APIRateLimit:         apiRateLimit,
		APIRateWindow:        apiRateWindow,
		LogLevel:             logLevel,
		LogJSON:              os.Getenv("LOG_FORMAT") == "json",
		SeedOnStartup:        os.Getenv("SEED_ON_STARTUP") == "true",
	}
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// Server Settings
	AppPort     string
	Host        string
	Env         string
	DatabaseURL string

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Logging
	LogLevel string

	// Media Settings
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MediaDir            string

	// Cleanup job
	SweepSchedule string
}

func LoadConfig() *Config {
	// The .env file is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	return &Config{
		AppPort:     getEnv("PORT", "8080"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", "site.db"),

		JWTSecret:     getEnv("JWT_SECRET", "your_super_secret_key_here"),
		JWTExpiration: getEnvAsDuration("JWT_EXPIRES_IN", 72*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		MediaDir:            getEnv("MEDIA_DIR", "./uploads"),

		SweepSchedule: getEnv("SWEEP_SCHEDULE", "@hourly"),
	}
}

// HasCloudinary reports whether all three provider credentials are set.
// Their absence is a logged warning, not a hard failure: uploads fall back
// to local disk.
func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// WarnIfIncomplete logs configuration gaps that are survivable.
func (c *Config) WarnIfIncomplete(log *zap.Logger) {
	if !c.HasCloudinary() {
		log.Warn("cloudinary credentials not configured, storing media on local disk",
			zap.String("media_dir", c.MediaDir))
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations. Plain
// integers are read as hours.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if hours, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return defaultValue
}

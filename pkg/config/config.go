package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDrainTimeout bounds how long shutdown waits for buffered events to
// reach the sinks.
const DefaultDrainTimeout = 5 * time.Second

// App holds runtime configuration derived from env vars or .env files.
type App struct {
	DatabaseDriver string
	DatabaseURL    string

	KafkaBrokers string
	KafkaTopic   string
	RedisAddr    string
	RedisChannel string
	DrainTimeout time.Duration

	SnapshotCron     string
	SnapshotTimezone string

	APIPort     string
	Environment string
	LogLevel    string
	LogEncoding string
	CORSOrigins []string
}

// Load reads the given .env files (missing files are skipped) and then
// returns FromEnv. Variables already set in the process environment win.
func Load(files ...string) (App, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return App{}, err
		}
	}
	return FromEnv(), nil
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() App {
	return App{
		DatabaseDriver:   getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:      getEnv("DATABASE_URL", "file:recipes.db"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "recipe-events"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisChannel:     getEnv("REDIS_CHANNEL", "recipe-events"),
		DrainTimeout:     getDuration("EVENT_DRAIN_TIMEOUT", DefaultDrainTimeout),
		SnapshotCron:     getEnv("SNAPSHOT_CRON", "@every 5m"),
		SnapshotTimezone: os.Getenv("SNAPSHOT_TIMEZONE"),
		APIPort:          getEnv("API_PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "production"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogEncoding:      os.Getenv("LOG_ENCODING"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

// Brokers returns the configured Kafka brokers, or nil when Kafka is off.
func (a App) Brokers() []string {
	return splitList(a.KafkaBrokers)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration parses key with time.ParseDuration. Unset, invalid and
// non-positive values yield fallback.
func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DATABASE_DRIVER", "DATABASE_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"REDIS_ADDR", "REDIS_CHANNEL", "EVENT_DRAIN_TIMEOUT", "SNAPSHOT_CRON",
	"SNAPSHOT_TIMEZONE", "API_PORT",
	"ENVIRONMENT", "LOG_LEVEL", "LOG_ENCODING", "CORS_ORIGINS",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnv_WhenAllVariablesSet_ThenReturnsConfigWithSetValues(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/recipes")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092, kafka2:9092")
	t.Setenv("KAFKA_TOPIC", "recipes")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_CHANNEL", "recipes.events")
	t.Setenv("EVENT_DRAIN_TIMEOUT", "750ms")
	t.Setenv("SNAPSHOT_CRON", "*/10 * * * *")
	t.Setenv("SNAPSHOT_TIMEZONE", "Europe/Rome")
	t.Setenv("API_PORT", "9000")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_ENCODING", "console")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://example.com")

	// Act
	cfg := FromEnv()

	// Assert
	assert.Equal(t, "mysql", cfg.DatabaseDriver)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/recipes", cfg.DatabaseURL)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Brokers())
	assert.Equal(t, "recipes", cfg.KafkaTopic)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "recipes.events", cfg.RedisChannel)
	assert.Equal(t, 750*time.Millisecond, cfg.DrainTimeout)
	assert.Equal(t, "*/10 * * * *", cfg.SnapshotCron)
	assert.Equal(t, "Europe/Rome", cfg.SnapshotTimezone)
	assert.Equal(t, "9000", cfg.APIPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogEncoding)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSOrigins)
}

func TestFromEnv_WhenNoVariablesSet_ThenReturnsDefaults(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	cfg := FromEnv()

	// Assert
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:recipes.db", cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Nil(t, cfg.Brokers())
	assert.Equal(t, "recipe-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, DefaultDrainTimeout, cfg.DrainTimeout)
	assert.Equal(t, "@every 5m", cfg.SnapshotCron)
	assert.Empty(t, cfg.SnapshotTimezone)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_WhenDotEnvPresent_ThenFillsUnsetVariables(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("API_PORT", "7000")
	path := filepath.Join(t.TempDir(), ".env")
	body := "API_PORT=9999\nDATABASE_URL=file:dotenv.db\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.APIPort)
	assert.Equal(t, "file:dotenv.db", cfg.DatabaseURL)
}

func TestLoad_WhenFileMissing_ThenSkipsIt(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.APIPort)
}

func TestFromEnv_WhenDrainTimeoutInvalid_ThenUsesDefault(t *testing.T) {
	for _, value := range []string{"soon", "-1s", "0"} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("EVENT_DRAIN_TIMEOUT", value)

			cfg := FromEnv()

			assert.Equal(t, DefaultDrainTimeout, cfg.DrainTimeout)
		})
	}
}

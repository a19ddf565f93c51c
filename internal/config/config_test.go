package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cf, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cf.ServerPort)
	assert.Equal(t, 720*time.Hour, cf.SessionTTL)
	assert.Equal(t, 2500*time.Millisecond, cf.MessageReplyDelay)
	assert.Equal(t, CatalogSourceFile, cf.CatalogSource)
	assert.Equal(t, time.Minute, cf.LocalStoreSweep)
	assert.Equal(t, 5, cf.RateLimitCapacity)
	assert.Equal(t, 1.0, cf.RateLimitRate)
	assert.False(t, cf.HasRedis())
	assert.False(t, cf.HasDatabase())
	assert.False(t, cf.HasKafka())
	assert.Equal(t, "0.0.0.0:8080", cf.Addr())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9090\n" +
		"REDIS_ADDR=localhost:6379\n" +
		"KAFKA_BROKERS=kafka-1:9092, kafka-2:9092,\n" +
		"PAYMENT_LATENCY=150ms\n" +
		"LOG_PRETTY=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cf, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cf.ServerPort)
	assert.True(t, cf.HasRedis())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cf.Brokers())
	assert.Equal(t, 150*time.Millisecond, cf.PaymentLatency)
	assert.True(t, cf.LogPretty)
	assert.Empty(t, cf.MemcachedAddrs())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\n"), 0o644))
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "eventro")

	cf, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cf.ServerPort)
	assert.True(t, cf.HasDatabase())
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	assert.Equal(t, "./.env", ConfigPath())

	t.Setenv("CONFIG_FILE", "/etc/eventro/.env")
	assert.Equal(t, "/etc/eventro/.env", ConfigPath())
}

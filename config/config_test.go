package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.BackendURL)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 20*time.Second, cfg.PollInterval)
	assert.True(t, cfg.PriceTolerance.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 10*time.Minute, cfg.RatingCacheTTL)
	assert.Equal(t, "kiosk-sessions", cfg.KafkaTopic)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBroker)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kiosk.yaml")
	require.NoError(t, os.WriteFile(file, []byte("listen_addr: \":7000\"\npoll_interval: 5s\nlog_level: debug\nredis_addr: cache:6379\n"), 0o600))

	t.Setenv("KIOSK_POLL_INTERVAL", "3s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--log-level=warn"}))

	cfg, err := Load(Options{ConfigFile: file, EnvFile: noEnvFile(t), Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, "http://localhost:8080/api", cfg.BackendURL)
}

func TestLoad_EnvFile(t *testing.T) {
	require.NoError(t, os.Unsetenv("KIOSK_KAFKA_TOPIC"))
	t.Cleanup(func() { os.Unsetenv("KIOSK_KAFKA_TOPIC") })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KIOSK_KAFKA_TOPIC=from-dotenv\n"), 0o600))

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.KafkaTopic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "relative_backend_url", env: map[string]string{"KIOSK_BACKEND_URL": "/api"}},
		{name: "zero_poll_interval", env: map[string]string{"KIOSK_POLL_INTERVAL": "0s"}},
		{name: "negative_tolerance", env: map[string]string{"KIOSK_PRICE_TOLERANCE": "-1"}},
		{name: "bad_tolerance", env: map[string]string{"KIOSK_PRICE_TOLERANCE": "one"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			_, err := Load(Options{EnvFile: noEnvFile(t)})
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noEnvFile(t)})
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := InitRedis(context.Background(), server.Addr())
	require.NoError(t, err)
	defer client.Close()

	server.Close()
	_, err = InitRedis(context.Background(), server.Addr())
	assert.Error(t, err)
}

func TestNewKafkaWriter(t *testing.T) {
	writer := NewKafkaWriter("broker:9092", "kiosk-sessions")
	defer writer.Close()

	assert.Equal(t, "kiosk-sessions", writer.Topic)
	assert.Equal(t, "broker:9092", writer.Addr.String())
	assert.IsType(t, &kafka.Hash{}, writer.Balancer)
}

func TestNewKafkaReader(t *testing.T) {
	reader := NewKafkaReader("broker:9092", "kiosk-sessions", "tail")
	defer reader.Close()

	cfg := reader.Config()
	assert.Equal(t, []string{"broker:9092"}, cfg.Brokers)
	assert.Equal(t, "kiosk-sessions", cfg.Topic)
	assert.Equal(t, "tail", cfg.GroupID)
}

func TestRegisterFlags_StableOrder(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.SortFlags = false
	RegisterFlags(flags)

	var names []string
	flags.VisitAll(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})

	assert.Equal(t, []string{
		"backend-url", "frontend-dir", "kafka-broker", "kafka-topic", "listen-addr", "log-level",
		"poll-interval", "price-tolerance", "rating-cache-ttl", "receipt-base-url", "redis-addr",
	}, names)
	assert.Len(t, Keys(), len(names))
}

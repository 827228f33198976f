package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "KIOSK"

type Config struct {
	BackendURL     string
	ListenAddr     string
	PollInterval   time.Duration
	PriceTolerance decimal.Decimal
	RedisAddr      string
	RatingCacheTTL time.Duration
	KafkaBroker    string
	KafkaTopic     string
	ReceiptBaseURL string
	FrontendDir    string
	LogLevel       string
}

type Options struct {
	// ConfigFile is an optional YAML file.
	ConfigFile string
	// EnvFile defaults to ".env"; a missing file is ignored.
	EnvFile string
	Flags   *pflag.FlagSet
}

var defaults = map[string]interface{}{
	"backend_url":      "http://localhost:8080/api",
	"listen_addr":      ":9000",
	"poll_interval":    "20s",
	"price_tolerance":  "1",
	"redis_addr":       "",
	"rating_cache_ttl": "10m",
	"kafka_broker":     "",
	"kafka_topic":      "kiosk-sessions",
	"receipt_base_url": "http://localhost:9000/receipts",
	"frontend_dir":     "./frontend",
	"log_level":        "info",
}

// RegisterFlags adds one flag per key, named with dashes, in key order.
func RegisterFlags(flags *pflag.FlagSet) {
	for _, key := range Keys() {
		flags.String(flagName(key), fmt.Sprint(defaults[key]), "overrides "+key)
	}
}

// Keys lists every configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load resolves configuration from, lowest to highest: defaults, the YAML
// file, the .env file, KIOSK_* environment variables, changed flags.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key := range defaults {
			if flag := opts.Flags.Lookup(flagName(key)); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
	}

	tolerance, err := decimal.NewFromString(v.GetString("price_tolerance"))
	if err != nil {
		return nil, fmt.Errorf("price_tolerance: %w", err)
	}

	cfg := &Config{
		BackendURL:     v.GetString("backend_url"),
		ListenAddr:     v.GetString("listen_addr"),
		PollInterval:   v.GetDuration("poll_interval"),
		PriceTolerance: tolerance,
		RedisAddr:      v.GetString("redis_addr"),
		RatingCacheTTL: v.GetDuration("rating_cache_ttl"),
		KafkaBroker:    v.GetString("kafka_broker"),
		KafkaTopic:     v.GetString("kafka_topic"),
		ReceiptBaseURL: v.GetString("receipt_base_url"),
		FrontendDir:    v.GetString("frontend_dir"),
		LogLevel:       v.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend_url %q is not an absolute URL", c.BackendURL)
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.PriceTolerance.IsNegative() {
		return errors.New("price_tolerance must not be negative")
	}
	if c.RedisAddr != "" && c.RatingCacheTTL <= 0 {
		return errors.New("rating_cache_ttl must be positive when redis_addr is set")
	}
	return nil
}

// InitRedis connects and pings; the caller owns the client.
func InitRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return client, nil
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	"github.com/vladislavdragonenkov/lugx/internal/messaging/kafka"
	httpsvc "github.com/vladislavdragonenkov/lugx/internal/service/http"
)

// Драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Переменные окружения.
const (
	EnvHTTPAddr              = "HTTP_ADDR"
	EnvMetricsAddr           = "METRICS_ADDR"
	EnvStorageDriver         = "STORAGE_DRIVER"
	EnvPostgresDSN           = "POSTGRES_DSN"
	EnvPostgresAutoMigrate   = "POSTGRES_AUTO_MIGRATE"
	EnvPostgresMaxOpenConns  = "POSTGRES_MAX_OPEN_CONNS"
	EnvPostgresMaxIdleConns  = "POSTGRES_MAX_IDLE_CONNS"
	EnvOrderStatusPolicy     = "ORDER_STATUS_POLICY"
	EnvKafkaBrokers          = "KAFKA_BROKERS"
	EnvKafkaTopic            = "KAFKA_TOPIC"
	EnvKafkaDLQTopic         = "KAFKA_DLQ_TOPIC"
	EnvOutboxPollInterval    = "OUTBOX_POLL_INTERVAL"
	EnvOutboxBatchSize       = "OUTBOX_BATCH_SIZE"
	EnvOutboxMaxAttempts     = "OUTBOX_MAX_ATTEMPTS"
	EnvOutboxRetryDelay      = "OUTBOX_RETRY_DELAY"
	EnvOutboxRetention       = "OUTBOX_RETENTION"
	EnvOutboxCleanupInterval = "OUTBOX_CLEANUP_INTERVAL"
	EnvRedisAddr             = "REDIS_ADDR"
	EnvRedisPassword         = "REDIS_PASSWORD"
	EnvRedisDB               = "REDIS_DB"
	EnvCacheTTL              = "CACHE_TTL"
	EnvLogLevel              = "LOG_LEVEL"
)

// Config описывает настройки запуска одного сервиса.
type Config struct {
	Service     string
	HTTPAddr    string
	MetricsAddr string

	StorageDriver        string
	PostgresDSN          string
	PostgresAutoMigrate  bool
	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	StatusPolicy domain.StatusPolicy

	// KafkaBrokers — список через запятую; пустая строка отключает события заказов.
	// Нулевой OutboxRetention отключает очистку обработанных сообщений.
	KafkaBrokers          string
	KafkaTopic            string
	KafkaDLQTopic         string
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	OutboxMaxAttempts     int
	OutboxRetryDelay      time.Duration
	OutboxRetention       time.Duration
	OutboxCleanupInterval time.Duration

	// RedisAddr включает кэш каталога.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	LogLevel        string
	ShutdownTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		StorageDriver:         StorageDriverMemory,
		PostgresAutoMigrate:   true,
		PostgresMaxOpenConns:  20,
		PostgresMaxIdleConns:  10,
		StatusPolicy:          domain.StatusPolicyFreeForm,
		KafkaTopic:            kafka.TopicOrderEvents,
		KafkaDLQTopic:         kafka.TopicDeadLetterQueue,
		OutboxPollInterval:    time.Second,
		OutboxBatchSize:       100,
		OutboxMaxAttempts:     3,
		OutboxRetryDelay:      50 * time.Millisecond,
		OutboxRetention:       24 * time.Hour,
		OutboxCleanupInterval: 10 * time.Minute,
		CacheTTL:              5 * time.Minute,
		LogLevel:              "info",
		ShutdownTimeout:       10 * time.Second,
	}
}

// DefaultCatalogConfig возвращает настройки каталога: HTTP на :3001, метрики на :9091.
func DefaultCatalogConfig() Config {
	cfg := defaultConfig()
	cfg.Service = httpsvc.CatalogServiceName
	cfg.HTTPAddr = ":3001"
	cfg.MetricsAddr = ":9091"
	return cfg
}

// DefaultOrderConfig возвращает настройки сервиса заказов: HTTP на :3003, метрики на :9093.
func DefaultOrderConfig() Config {
	cfg := defaultConfig()
	cfg.Service = httpsvc.OrderServiceName
	cfg.HTTPAddr = ":3003"
	cfg.MetricsAddr = ":9093"
	return cfg
}

// Brokers разбирает KafkaBrokers.
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// EventsEnabled сообщает, пишутся ли события заказов в outbox.
func (c Config) EventsEnabled() bool {
	return c.Service == httpsvc.OrderServiceName && len(c.Brokers()) > 0
}

// EnvLookup совпадает по сигнатуре с os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// ReadConfigFromEnv накладывает переменные окружения на cfg. Некорректные значения
// не прерывают запуск: поле сохраняет значение по умолчанию, а в ответ добавляется предупреждение.
func ReadConfigFromEnv(cfg Config, lookup EnvLookup) (Config, []string) {
	var warnings []string
	warn := func(key, raw string, err error) {
		warnings = append(warnings, fmt.Sprintf("invalid %s=%q: %v", key, raw, err))
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			parsed, err := parseBool(v)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	integer := func(key string, dst *int, valid func(int) bool, rule string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			parsed, err := parseInt(v, valid, rule)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	duration := func(key string, dst *time.Duration, valid func(time.Duration) bool, rule string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			parsed, err := parseDuration(v, valid, rule)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}

	positive := func(v int) bool { return v > 0 }
	nonNegative := func(v int) bool { return v >= 0 }
	positiveDuration := func(v time.Duration) bool { return v > 0 }
	nonNegativeDuration := func(v time.Duration) bool { return v >= 0 }

	str(EnvHTTPAddr, &cfg.HTTPAddr)
	str(EnvMetricsAddr, &cfg.MetricsAddr)

	if v, ok := lookup(EnvStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
	}
	str(EnvPostgresDSN, &cfg.PostgresDSN)
	boolean(EnvPostgresAutoMigrate, &cfg.PostgresAutoMigrate)
	integer(EnvPostgresMaxOpenConns, &cfg.PostgresMaxOpenConns, positive, "must be > 0")
	integer(EnvPostgresMaxIdleConns, &cfg.PostgresMaxIdleConns, nonNegative, "must be >= 0")

	if v, ok := lookup(EnvOrderStatusPolicy); ok && strings.TrimSpace(v) != "" {
		policy, err := domain.ParseStatusPolicy(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			warn(EnvOrderStatusPolicy, v, err)
		} else {
			cfg.StatusPolicy = policy
		}
	}

	str(EnvKafkaBrokers, &cfg.KafkaBrokers)
	str(EnvKafkaTopic, &cfg.KafkaTopic)
	str(EnvKafkaDLQTopic, &cfg.KafkaDLQTopic)
	duration(EnvOutboxPollInterval, &cfg.OutboxPollInterval, positiveDuration, "must be > 0")
	integer(EnvOutboxBatchSize, &cfg.OutboxBatchSize, positive, "must be > 0")
	integer(EnvOutboxMaxAttempts, &cfg.OutboxMaxAttempts, positive, "must be > 0")
	duration(EnvOutboxRetryDelay, &cfg.OutboxRetryDelay, nonNegativeDuration, "must be >= 0")
	duration(EnvOutboxRetention, &cfg.OutboxRetention, nonNegativeDuration, "must be >= 0")
	duration(EnvOutboxCleanupInterval, &cfg.OutboxCleanupInterval, positiveDuration, "must be > 0")

	str(EnvRedisAddr, &cfg.RedisAddr)
	if v, ok := lookup(EnvRedisPassword); ok {
		cfg.RedisPassword = v
	}
	integer(EnvRedisDB, &cfg.RedisDB, nonNegative, "must be >= 0")
	duration(EnvCacheTTL, &cfg.CacheTTL, positiveDuration, "must be > 0")

	str(EnvLogLevel, &cfg.LogLevel)

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected one of true/false/yes/no/on/off/1/0")
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if valid != nil && !valid(value) {
		return 0, fmt.Errorf("%s", rule)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("not a duration")
	}
	if valid != nil && !valid(value) {
		return 0, fmt.Errorf("%s", rule)
	}
	return value, nil
}

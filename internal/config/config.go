package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	DBDSN       string `mapstructure:"DB_DSN"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`

	MigrationsEnabled bool `mapstructure:"MIGRATIONS_ENABLED"`

	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	OTelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	PixelsPerHour     float64       `mapstructure:"PIXELS_PER_HOUR"`
	EditorSessionTTL  time.Duration `mapstructure:"EDITOR_SESSION_TTL"`
	BookingWeeksAhead int           `mapstructure:"BOOKING_WEEKS_AHEAD"`

	// EnvFileLoaded true если значения были прочитаны из .env
	EnvFileLoaded bool `mapstructure:"-"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (ошибку игнорируем, если файла нет)
	loaded := godotenv.Load(".env") == nil

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// FromEnv собирает конфигурацию из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:   getenv("ENV"),
		DBDSN:         getenv("DB_DSN"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		JWTSecret:     getenv("JWT_SECRET"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		RedisAddr:     getenv("REDIS_ADDR"),
		KafkaBrokers:  getenv("KAFKA_BROKERS"),
		KafkaTopic:    getenv("KAFKA_TOPIC"),
		OTelEndpoint:  getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "booking-events"
	}

	var err error
	if cfg.MigrationsEnabled, err = parseBool(getenv, "MIGRATIONS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.OTelEnabled, err = parseBool(getenv, "OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = parseInt(getenv, "RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.BookingWeeksAhead, err = parseInt(getenv, "BOOKING_WEEKS_AHEAD", 4); err != nil {
		return nil, err
	}
	if cfg.PixelsPerHour, err = parseFloat(getenv, "PIXELS_PER_HOUR", 20); err != nil {
		return nil, err
	}
	if cfg.EditorSessionTTL, err = parseDuration(getenv, "EDITOR_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if cfg.PixelsPerHour <= 0 {
		return nil, fmt.Errorf("PIXELS_PER_HOUR must be positive")
	}
	if cfg.BookingWeeksAhead <= 0 {
		return nil, fmt.Errorf("BOOKING_WEEKS_AHEAD must be positive")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q", key, raw)
	}
	return v, nil
}

func parseInt(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return v, nil
}

func parseFloat(getenv func(string) string, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return v, nil
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return v, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Kafka     KafkaConfig     `toml:"kafka"`
	Tracing   TracingConfig   `toml:"tracing"`
	CORS      CORSConfig      `toml:"cors"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig политика календаря и бронирования
type BookingConfig struct {
	WindowDays            int      `toml:"window_days"`
	Timezone              string   `toml:"timezone"`
	TimeSlots             []string `toml:"time_slots"`
	BlockOverlappingSlots bool     `toml:"block_overlapping_slots"`
	MaxTxRetries          int      `toml:"max_tx_retries"`
}

// Location часовой пояс бизнеса
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Roster фиксированный список слотов дня
func (b BookingConfig) Roster() ([]types.TimeString, error) {
	return domain.ParseRoster(b.TimeSlots)
}

// RedisConfig настройки Redis (используется для rate limit)
type RedisConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	DialTimeout  int    `toml:"dial_timeout"`  // секунды
	ReadTimeout  int    `toml:"read_timeout"`  // секунды
	WriteTimeout int    `toml:"write_timeout"` // секунды
}

// RateLimitConfig ограничение частоты запросов на изменяющие маршруты
type RateLimitConfig struct {
	Enabled       bool `toml:"enabled"`
	Requests      int  `toml:"requests"`
	WindowSeconds int  `toml:"window_seconds"`
	FailOpen      bool `toml:"fail_open"`
	// TrustedProxies адреса и подсети, которым разрешено передавать X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

// KafkaConfig публикация событий о записях
type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// TracingConfig OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// CORSConfig разрешённые источники для браузерного клиента
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает TOML файл, применяет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc-detailing"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Booking.WindowDays == 0 {
		c.Booking.WindowDays = domain.DefaultWindowDays
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = domain.DefaultTimezone
	}
	if len(c.Booking.TimeSlots) == 0 {
		c.Booking.TimeSlots = domain.DefaultTimeSlots
	}
	if c.Booking.MaxTxRetries == 0 {
		c.Booking.MaxTxRetries = domain.DefaultMaxTxRetries
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 30
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "appointments"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Booking.WindowDays < 0 || c.Booking.WindowDays > domain.MaxWindowDays {
		problems = append(problems, fmt.Sprintf("booking.window_days must be in [0, %d]", domain.MaxWindowDays))
	}
	if _, err := c.Booking.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone: %v", err))
	}
	if roster, err := c.Booking.Roster(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.time_slots: %v", err))
	} else {
		for i := 1; i < len(roster); i++ {
			if !roster[i].IsAfter(roster[i-1]) {
				problems = append(problems, "booking.time_slots must be strictly increasing")
				break
			}
		}
	}
	if c.Booking.MaxTxRetries < 0 {
		problems = append(problems, "booking.max_tx_retries must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "kafka.brokers is required when kafka is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "" {
		problems = append(problems, "tracing.otlp_endpoint is required when tracing is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		problems = append(problems, "tracing.sample_ratio must be in [0, 1]")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

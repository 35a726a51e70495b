package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	LockerLocal = "local"
	LockerRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	RabbitMQ      RabbitMQConfig      `toml:"rabbitmq"`
	RefundService RefundServiceConfig `toml:"refund_service"`
	Billing       BillingConfig       `toml:"billing"`
	Lifecycle     LifecycleConfig     `toml:"lifecycle"`
	Workers       WorkersConfig       `toml:"workers"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки Redis (распределённые блокировки ресурсов)
type RedisConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	LockTTL      int    `toml:"lock_ttl"`       // секунды
	LockWait     int    `toml:"lock_wait"`      // секунды ожидания захвата
	LockRetryMin int    `toml:"lock_retry_min"` // миллисекунды между попытками
}

// RabbitMQConfig настройки брокера уведомлений
type RabbitMQConfig struct {
	Enabled       bool   `toml:"enabled"`
	URL           string `toml:"url"`
	Exchange      string `toml:"exchange"`
	RetryInterval int    `toml:"retry_interval"` // секунды
	MaxRetries    int    `toml:"max_retries"`
	RetryQueue    int    `toml:"retry_queue"` // размер очереди повторной отправки
}

// RefundServiceConfig настройки клиента сервиса возвратов
type RefundServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BillingConfig настройки выставления счетов
type BillingConfig struct {
	InvoiceDueDays int  `toml:"invoice_due_days"`
	RequirePayment bool `toml:"require_payment"`
}

// LifecycleConfig настройки жизненного цикла заявок
type LifecycleConfig struct {
	AutoApproveExtensions bool   `toml:"auto_approve_extensions"`
	Locker                string `toml:"locker"` // local | redis
}

// WorkersConfig периоды фоновых задач (секунды)
type WorkersConfig struct {
	TickInterval         int `toml:"tick_interval"`
	OverdueSweepInterval int `toml:"overdue_sweep_interval"`
}

// Load загружает конфигурацию из TOML файла
// Перед чтением подгружает .env (если есть), после - применяет переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.RabbitMQ.URL = v
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "facility-booking"
	}

	setDefault(&c.Redis.LockTTL, 30)
	setDefault(&c.Redis.LockWait, 5)
	setDefault(&c.Redis.LockRetryMin, 50)

	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "booking.events"
	}
	setDefault(&c.RabbitMQ.RetryInterval, 10)
	setDefault(&c.RabbitMQ.MaxRetries, 5)
	setDefault(&c.RabbitMQ.RetryQueue, 1000)

	setDefault(&c.RefundService.Timeout, 10)

	setDefault(&c.Billing.InvoiceDueDays, 14)

	if c.Lifecycle.Locker == "" {
		c.Lifecycle.Locker = LockerLocal
	}

	setDefault(&c.Workers.TickInterval, 60)
	setDefault(&c.Workers.OverdueSweepInterval, 3600)
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []string

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for postgres driver")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required for postgres driver")
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	if _, ok := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}[strings.ToLower(c.Logs.Level)]; !ok {
		errs = append(errs, fmt.Sprintf("logs.level %q is not supported", c.Logs.Level))
	}

	switch c.Lifecycle.Locker {
	case LockerLocal:
	case LockerRedis:
		if !c.Redis.Enabled || c.Redis.Addr == "" {
			errs = append(errs, "lifecycle.locker = redis requires redis.enabled and redis.addr")
		}
	default:
		errs = append(errs, fmt.Sprintf("lifecycle.locker %q is not supported", c.Lifecycle.Locker))
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		errs = append(errs, "rabbitmq.url is required when rabbitmq is enabled")
	}

	if c.Billing.InvoiceDueDays < 0 {
		errs = append(errs, "billing.invoice_due_days must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

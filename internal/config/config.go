package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

var (
	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	Redis          RedisConfig          `toml:"redis"`
	Kafka          KafkaConfig          `toml:"kafka"`
	Rental         RentalConfig         `toml:"rental"`
	Jobs           JobsConfig           `toml:"jobs"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"` // text | json
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CatalogServiceConfig настройки клиента каталога товаров
type CatalogServiceConfig struct {
	URL      string `toml:"url"`
	Timeout  int    `toml:"timeout"`   // секунды
	CacheTTL int    `toml:"cache_ttl"` // секунды, 0 = без кэша
}

// RedisConfig настройки Redis. Пустой addr отключает кэш.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// KafkaConfig настройки публикации событий. Пустой список брокеров отключает публикацию.
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// RentalConfig правила аренды по умолчанию, если в БД нет своих
type RentalConfig struct {
	PickupWeekday      string  `toml:"pickup_weekday"`
	ReturnWeekday      string  `toml:"return_weekday"`
	DefaultRentalDays  int     `toml:"default_rental_days"`
	TaxRatePercent     float64 `toml:"tax_rate_percent"`
	DepositRatePercent float64 `toml:"deposit_rate_percent"`
	AdvanceBookingDays int     `toml:"advance_booking_days"` // 0 = без ограничения
}

// Rules правила аренды из конфига в виде rentalcalc.Rules
func (r RentalConfig) Rules() (rentalcalc.Rules, error) {
	pickup, err := ParseWeekday(r.PickupWeekday)
	if err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: pickup_weekday: %v", ErrInvalidConfig, err)
	}
	ret, err := ParseWeekday(r.ReturnWeekday)
	if err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: return_weekday: %v", ErrInvalidConfig, err)
	}

	rules := rentalcalc.Rules{
		PickupWeekday:     pickup,
		ReturnWeekday:     ret,
		DefaultRentalDays: r.DefaultRentalDays,
		TaxRate:           rentalcalc.PercentToRate(decimal.NewFromFloat(r.TaxRatePercent)),
		DepositRate:       rentalcalc.PercentToRate(decimal.NewFromFloat(r.DepositRatePercent)),
	}
	if err := rules.Validate(); err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return rules, nil
}

// JobsConfig фоновые задачи
type JobsConfig struct {
	ExpireHoldsSchedule string `toml:"expire_holds_schedule"` // cron с секундами
	HoldTTL             string `toml:"hold_ttl"`              // time.ParseDuration
}

// HoldTTLDuration время жизни неподтвержденной брони
func (j JobsConfig) HoldTTLDuration() time.Duration {
	d, err := time.ParseDuration(j.HoldTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// Load читает конфигурацию из TOML файла и применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "decor_rental",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "decor-rental-service",
		},
		CatalogService: CatalogServiceConfig{
			URL:      "http://localhost:8081",
			Timeout:  5,
			CacheTTL: 60,
		},
		Kafka: KafkaConfig{
			Topic: "rental.bookings",
		},
		Rental: RentalConfig{
			PickupWeekday:      "friday",
			ReturnWeekday:      "sunday",
			DefaultRentalDays:  2,
			TaxRatePercent:     20,
			DepositRatePercent: 30,
		},
		Jobs: JobsConfig{
			ExpireHoldsSchedule: "0 */5 * * * *",
			HoldTTL:             "30m",
		},
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if _, err := c.Rental.Rules(); err != nil {
		return err
	}
	if c.Rental.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: rental.advance_booking_days must not be negative", ErrInvalidConfig)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("%w: kafka.topic is required when brokers are set", ErrInvalidConfig)
	}
	return nil
}

// ParseWeekday разбирает день недели ("friday", "Fri", "5")
func ParseWeekday(s string) (time.Weekday, error) {
	return rentalcalc.ParseWeekday(s)
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CATALOG_SERVICE_URL"); v != "" {
		cfg.CatalogService.URL = v
	}
}

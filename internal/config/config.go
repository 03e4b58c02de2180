package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr              string        `mapstructure:"ADDR"`
	DBPath            string        `mapstructure:"DB_PATH"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogJSON           bool          `mapstructure:"LOG_JSON"`
	OpeningBookPath   string        `mapstructure:"OPENING_BOOK_PATH"`
	UseECOBook        bool          `mapstructure:"USE_ECO_BOOK"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	ReportCacheTTL    time.Duration `mapstructure:"REPORT_CACHE_TTL"`
	ReportWorkerCount int           `mapstructure:"REPORT_WORKER_COUNT"`
	ReportQueueSize   int           `mapstructure:"REPORT_QUEUE_SIZE"`
	MaxPlies          int           `mapstructure:"MAX_PLIES"`
}

var defaults = map[string]any{
	"ADDR":                ":8080",
	"DB_PATH":             "file:chessreport.db",
	"LOG_LEVEL":           "INFO",
	"LOG_JSON":            false,
	"OPENING_BOOK_PATH":   "",
	"USE_ECO_BOOK":        true,
	"REDIS_URL":           "",
	"REPORT_CACHE_TTL":    24 * time.Hour,
	"REPORT_WORKER_COUNT": 2,
	"REPORT_QUEUE_SIZE":   64,
	"MAX_PLIES":           1000,
}

// Load reads configuration from a .env file (if present), an optional file
// named by CONFIG_FILE and environment variables, in increasing priority.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("failed to read config file %q, using environment only: %v", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("invalid configuration, using defaults: %v", err)
		return Defaults()
	}
	return cfg
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Addr:              defaults["ADDR"].(string),
		DBPath:            defaults["DB_PATH"].(string),
		LogLevel:          defaults["LOG_LEVEL"].(string),
		UseECOBook:        true,
		ReportCacheTTL:    defaults["REPORT_CACHE_TTL"].(time.Duration),
		ReportWorkerCount: defaults["REPORT_WORKER_COUNT"].(int),
		ReportQueueSize:   defaults["REPORT_QUEUE_SIZE"].(int),
		MaxPlies:          defaults["MAX_PLIES"].(int),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.ReportWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("REPORT_WORKER_COUNT must be at least 1, got %d", c.ReportWorkerCount))
	}
	if c.ReportQueueSize < 1 {
		errs = append(errs, fmt.Errorf("REPORT_QUEUE_SIZE must be at least 1, got %d", c.ReportQueueSize))
	}
	if c.ReportCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("REPORT_CACHE_TTL cannot be negative, got %s", c.ReportCacheTTL))
	}
	if c.MaxPlies < 1 {
		errs = append(errs, fmt.Errorf("MAX_PLIES must be at least 1, got %d", c.MaxPlies))
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		errs = append(errs, fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.RedisURL))
	}

	return errors.Join(errs...)
}

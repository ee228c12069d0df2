package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Event backends the BFF can publish activity events on.
const (
	EventsMemory   = "memory"
	EventsChannels = "channels"
	EventsRedis    = "redis"
	EventsKafka    = "kafka"
	EventsRabbitMQ = "rabbitmq"
)

// Config captures all tunable parameters of the BFF process. Values come from
// an optional YAML file, then from the environment (a .env file included),
// with defaults that let the binary run locally against the API on :5001.
type Config struct {
	AppName         string        `yaml:"app_name"`
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`

	APIBaseURL string        `yaml:"api_base_url"`
	APITimeout time.Duration `yaml:"api_timeout"`

	LogLevel string `yaml:"log_level"`
	TimeZone string `yaml:"time_zone"`

	// SessionDSN selects the PostgreSQL session store; empty keeps sessions in memory.
	SessionDSN string `yaml:"session_dsn"`

	EventsBackend string   `yaml:"events_backend"`
	RedisAddr     string   `yaml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password"`
	KafkaBrokers  []string `yaml:"kafka_brokers"`

	RabbitMQURL      string `yaml:"rabbitmq_url"`
	RabbitMQExchange string `yaml:"rabbitmq_exchange"`

	RecentRidesLimit int `yaml:"recent_rides_limit"`
}

func defaultConfig() Config {
	return Config{
		AppName:          "rideshare-bff",
		HTTPAddr:         ":8080",
		ShutdownTimeout:  15 * time.Second,
		RequestTimeout:   20 * time.Second,
		CORSOrigins:      []string{"*"},
		APIBaseURL:       "http://localhost:5001/api",
		APITimeout:       15 * time.Second,
		LogLevel:         "info",
		TimeZone:         "UTC",
		EventsBackend:    EventsMemory,
		RabbitMQExchange: "rideshare.activity",
		RecentRidesLimit: 5,
	}
}

// Load reads .env if present, then CONFIG_FILE if set, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return Config{}, err
		}
	}
	return FromEnv(cfg)
}

// LoadFile overlays the YAML file at path on base.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv overlays environment variables on base and validates the result.
// Every problem found is reported, not just the first.
func FromEnv(base Config) (Config, error) {
	cfg := base
	var errs []error

	setStringFromEnv(&cfg.AppName, "APP_NAME")
	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.RequestTimeout, "REQUEST_TIMEOUT", &errs)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitAndTrim(origins)
	}

	setStringFromEnv(&cfg.APIBaseURL, "API_BASE_URL")
	setDurationFromEnv(&cfg.APITimeout, "API_TIMEOUT", &errs)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	setStringFromEnv(&cfg.TimeZone, "TIME_ZONE")

	setStringFromEnv(&cfg.SessionDSN, "SESSION_DSN")

	if v := os.Getenv("EVENTS_BACKEND"); v != "" {
		cfg.EventsBackend = strings.ToLower(strings.TrimSpace(v))
	}
	setStringFromEnv(&cfg.RedisAddr, "REDIS_ADDR")
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.RedisPassword = v
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.RabbitMQURL, "RABBITMQ_URL")
	setStringFromEnv(&cfg.RabbitMQExchange, "RABBITMQ_EXCHANGE")

	setIntFromEnv(&cfg.RecentRidesLimit, "RECENT_RIDES_LIMIT", &errs)

	errs = append(errs, cfg.validate()...)
	return cfg, errors.Join(errs...)
}

func (c Config) validate() []error {
	var errs []error
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("API_TIMEOUT must be > 0"))
	}
	if c.RecentRidesLimit <= 0 {
		errs = append(errs, fmt.Errorf("RECENT_RIDES_LIMIT must be > 0"))
	}
	switch c.EventsBackend {
	case EventsMemory, EventsChannels:
	case EventsRedis:
		if c.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("REDIS_ADDR is required for the redis events backend"))
		}
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, fmt.Errorf("KAFKA_BROKERS is required for the kafka events backend"))
		}
	case EventsRabbitMQ:
		if c.RabbitMQURL == "" {
			errs = append(errs, fmt.Errorf("RABBITMQ_URL is required for the rabbitmq events backend"))
		}
		if c.RabbitMQExchange == "" {
			errs = append(errs, fmt.Errorf("RABBITMQ_EXCHANGE must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend))
	}
	return errs
}

// Location resolves TimeZone, falling back to UTC when the zone database
// does not know it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setIntFromEnv(target *int, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"time"

	pkgconfig "github.com/jannathh/Scentify-Project/pkg/config"
)

// Slot backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Sensor sources.
const (
	SensorSimulated = "simulated"
	SensorFirestore = "firestore"
	SensorKafka     = "kafka"
)

const devClientSecret = "scentify-dev-client-secret"

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Persistence slots
	SlotBackend   string `env:"SLOT_BACKEND" envDefault:"memory"`
	SlotTTLHours  int    `env:"SLOT_TTL_HOURS" envDefault:"720"`
	SlotTimeoutMS int    `env:"SLOT_TIMEOUT_MS" envDefault:"2000"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Postgres
	DatabaseURL string `env:"DATABASE_URL"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Scent finder
	SensorSource            string `env:"SENSOR_SOURCE" envDefault:"simulated"`
	SensorTopic             string `env:"SENSOR_TOPIC" envDefault:"scentify.sensor.readings"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	SensorCollection        string `env:"SENSOR_COLLECTION" envDefault:"scentify"`
	SensorDocument          string `env:"SENSOR_DOCUMENT" envDefault:"currentPrediction"`
	SensorSimIntervalMS     int    `env:"SENSOR_SIM_INTERVAL_MS" envDefault:"500"`
	ScentProcessingMS       int    `env:"SCENT_PROCESSING_MS" envDefault:"500"`

	// Checkout
	PaymentDelayMS int `env:"CHECKOUT_PAYMENT_DELAY_MS" envDefault:"2000"`

	// Clients
	ClientSecret         string `env:"CLIENT_SECRET" envDefault:"scentify-dev-client-secret"`
	ClientIdleTTLMinutes int    `env:"CLIENT_IDLE_TTL_MINUTES" envDefault:"60"`

	// Login throttling
	LoginRateLimitRPS   float64 `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"1"`
	LoginRateLimitBurst int     `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"5"`

	// Tracing
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, environ); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP port: %d", c.HTTPPort))
	}

	switch c.SlotBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis slot backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres slot backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SLOT_BACKEND %q", c.SlotBackend))
	}

	switch c.SensorSource {
	case SensorSimulated:
	case SensorFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore sensor source"))
		}
	case SensorKafka:
		if len(c.KafkaBrokers) == 0 || c.SensorTopic == "" {
			errs = append(errs, errors.New("KAFKA_BROKERS and SENSOR_TOPIC are required for the kafka sensor source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SENSOR_SOURCE %q", c.SensorSource))
	}

	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set"))
	}
	if c.SlotTTLHours < 0 {
		errs = append(errs, errors.New("SLOT_TTL_HOURS must not be negative"))
	}
	if c.SlotTimeoutMS <= 0 {
		errs = append(errs, errors.New("SLOT_TIMEOUT_MS must be positive"))
	}
	if c.SensorSimIntervalMS <= 0 {
		errs = append(errs, errors.New("SENSOR_SIM_INTERVAL_MS must be positive"))
	}
	if c.ScentProcessingMS < 0 || c.PaymentDelayMS < 0 {
		errs = append(errs, errors.New("SCENT_PROCESSING_MS and CHECKOUT_PAYMENT_DELAY_MS must not be negative"))
	}
	if c.ClientIdleTTLMinutes <= 0 {
		errs = append(errs, errors.New("CLIENT_IDLE_TTL_MINUTES must be positive"))
	}
	if c.ClientSecret == "" || (c.IsProduction() && c.ClientSecret == devClientSecret) {
		errs = append(errs, errors.New("CLIENT_SECRET must be set in production"))
	}
	if c.LoginRateLimitRPS <= 0 || c.LoginRateLimitBurst < 1 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT_RPS and LOGIN_RATE_LIMIT_BURST must be positive"))
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		errs = append(errs, errors.New("OTEL_SAMPLE_RATE must be between 0.0 and 1.0"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) SlotTTL() time.Duration {
	return time.Duration(c.SlotTTLHours) * time.Hour
}

func (c *Config) SlotTimeout() time.Duration {
	return time.Duration(c.SlotTimeoutMS) * time.Millisecond
}

func (c *Config) SensorSimInterval() time.Duration {
	return time.Duration(c.SensorSimIntervalMS) * time.Millisecond
}

func (c *Config) ScentProcessing() time.Duration {
	return time.Duration(c.ScentProcessingMS) * time.Millisecond
}

func (c *Config) PaymentDelay() time.Duration {
	return time.Duration(c.PaymentDelayMS) * time.Millisecond
}

func (c *Config) ClientIdleTTL() time.Duration {
	return time.Duration(c.ClientIdleTTLMinutes) * time.Minute
}

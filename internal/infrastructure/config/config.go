package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	HTTPPort  int
	GRPCPort  int
	DB        DBConfig
	Kafka     KafkaConfig
	Stripe    StripeConfig
	Services  ServicesConfig
	JWT       JWTConfig
	Telemetry TelemetryConfig
	LogLevel  string
	LogFormat string

	// MigrationsDir is the golang-migrate source URL, e.g. "file://./migrations".
	MigrationsDir string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
}

type StripeConfig struct {
	APIKey string
}

// ServicesConfig holds gRPC addresses of the backend services the settlement
// service queries synchronously.
type ServicesConfig struct {
	ProjectAddr  string
	IdentityAddr string
}

type JWTConfig struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
}

type TelemetryConfig struct {
	OTLPEndpoint  string
	ServiceName   string
	SamplingRatio float64
}

// Validate checks required configuration values.
func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
	if c.Stripe.APIKey == "" {
		panic("STRIPE_API_KEY environment variable is required")
	}
	if c.JWT.Secret == "" && c.JWT.PublicKeyPEM == "" {
		panic("JWT_SECRET or JWT_PUBLIC_KEY environment variable is required")
	}
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8087),
		GRPCPort: getEnvInt("GRPC_PORT", 9087),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "workhub"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "workhub_settlement"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 20)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "settlement-service"),
		},
		Stripe: StripeConfig{
			APIKey: getEnv("STRIPE_API_KEY", ""),
		},
		Services: ServicesConfig{
			ProjectAddr:  getEnv("PROJECT_SERVICE_ADDR", "localhost:9081"),
			IdentityAddr: getEnv("IDENTITY_SERVICE_ADDR", "localhost:9082"),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", ""),
			PublicKeyPEM: getEnv("JWT_PUBLIC_KEY", ""),
			Issuer:       getEnv("JWT_ISSUER", "workhub"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:   "settlement-service",
			SamplingRatio: getEnvFloat("OTEL_SAMPLING_RATIO", 1.0),
		},
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "file://./migrations"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Engine        EngineConfig
	AuditDatabase *DatabaseConfig // Optional: durable audit sink. When nil, audit stays in memory only.
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// EngineConfig holds the decision engine limits. The rate ceilings and token
// lifetimes default to the documented values; overriding them is for test
// and staging environments.
type EngineConfig struct {
	HourlyRateLimit int
	DailyRateLimit  int
	TokenTTL        time.Duration
	RenewalLead     time.Duration
	TokenSigningKey string
	AuditQueryLimit int
	SinkBufferSize  int
	SinkWorkerCount int
	AuditRetention  time.Duration
	CleanupInterval time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL_AUDIT) is set, it takes precedence
// over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Engine: EngineConfig{
			HourlyRateLimit: getEnvAsInt("ENGINE_HOURLY_RATE_LIMIT", 100),
			DailyRateLimit:  getEnvAsInt("ENGINE_DAILY_RATE_LIMIT", 1000),
			TokenTTL:        getEnvAsDuration("ENGINE_TOKEN_TTL", time.Hour),
			RenewalLead:     getEnvAsDuration("ENGINE_RENEWAL_LEAD", 10*time.Minute),
			TokenSigningKey: getEnv("ENGINE_TOKEN_SIGNING_KEY", ""),
			AuditQueryLimit: getEnvAsInt("ENGINE_AUDIT_QUERY_LIMIT", 100),
			SinkBufferSize:  getEnvAsInt("ENGINE_SINK_BUFFER_SIZE", 10000),
			SinkWorkerCount: getEnvAsInt("ENGINE_SINK_WORKER_COUNT", 2),
			AuditRetention:  getEnvAsDuration("ENGINE_AUDIT_RETENTION", 48*time.Hour),
			CleanupInterval: getEnvAsDuration("ENGINE_CLEANUP_INTERVAL", time.Hour),
		},
		AuditDatabase: loadAuditDatabaseConfig(),
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Engine.HourlyRateLimit <= 0 {
		return fmt.Errorf("hourly rate limit must be positive")
	}
	if c.Engine.DailyRateLimit <= 0 {
		return fmt.Errorf("daily rate limit must be positive")
	}
	if c.Engine.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	if c.Engine.RenewalLead <= 0 || c.Engine.RenewalLead >= c.Engine.TokenTTL {
		return fmt.Errorf("renewal lead must be positive and shorter than token TTL")
	}

	if c.IsProduction() && c.Engine.TokenSigningKey == "" {
		return fmt.Errorf("token signing key is required in production")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL_AUDIT>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadAuditDatabaseConfig loads the durable audit sink config from
// DATABASE_URL_AUDIT. Returns nil when not set (audit stays in memory).
func loadAuditDatabaseConfig() *DatabaseConfig {
	dbURL := getEnv("DATABASE_URL_AUDIT", "")
	if dbURL == "" {
		return nil
	}
	return &DatabaseConfig{
		ConnectionString: dbURL,
		MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

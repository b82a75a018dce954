package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Insert strategies for batch writes.
const (
	InsertStrategyAuto      = "auto"
	InsertStrategyReturning = "returning"
	InsertStrategyRange     = "range"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Readings ReadingsConfig `mapstructure:"readings"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Influx   InfluxConfig   `mapstructure:"influx"`
	Keycloak KeycloakConfig `mapstructure:"keycloak"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InsertStrategy  string        `mapstructure:"insert_strategy"`
}

// ReadingsConfig bounds the ingestion and retrieval components.
type ReadingsConfig struct {
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	MaxBatchSize    int           `mapstructure:"max_batch_size"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	QoS      int    `mapstructure:"qos"`
}

type InfluxConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	Org         string `mapstructure:"org"`
	Bucket      string `mapstructure:"bucket"`
	Measurement string `mapstructure:"measurement"`
}

type KeycloakConfig struct {
	URL          string `mapstructure:"url"`
	Realm        string `mapstructure:"realm"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Enabled reports whether write routes should require a bearer token.
func (k KeycloakConfig) Enabled() bool {
	return k.URL != ""
}

// Load initializes configuration from .env, environment variables and config file
func Load(configPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("HOMEGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Load config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"./config"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// every key gets a default so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "homegraph")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "homegraph")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.insert_strategy", InsertStrategyAuto)

	// Readings defaults
	v.SetDefault("readings.default_page_size", 60)
	v.SetDefault("readings.max_page_size", 1000)
	v.SetDefault("readings.max_batch_size", 1000)
	v.SetDefault("readings.query_timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	// MQTT defaults
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "homegraph-hub")
	v.SetDefault("mqtt.topic", "homegraph/devices/+/readings")
	v.SetDefault("mqtt.qos", 1)

	// Influx defaults
	v.SetDefault("influx.enabled", false)
	v.SetDefault("influx.url", "")
	v.SetDefault("influx.token", "")
	v.SetDefault("influx.org", "")
	v.SetDefault("influx.bucket", "")
	v.SetDefault("influx.measurement", "readings")

	// Keycloak defaults
	v.SetDefault("keycloak.url", "")
	v.SetDefault("keycloak.realm", "")
	v.SetDefault("keycloak.client_id", "")
	v.SetDefault("keycloak.client_secret", "")
}

func validateConfig(config *Config) error {
	db := config.Database
	switch db.Driver {
	case DriverPostgres, DriverPgx, DriverMySQL:
		if db.Host == "" {
			return fmt.Errorf("database host is required for driver %s", db.Driver)
		}
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("database path is required for driver sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}

	switch db.InsertStrategy {
	case InsertStrategyAuto, InsertStrategyReturning:
	case InsertStrategyRange:
		if db.Driver == DriverPostgres || db.Driver == DriverPgx {
			return fmt.Errorf("insert strategy range is not available for driver %s", db.Driver)
		}
	default:
		return fmt.Errorf("unsupported insert strategy %q", db.InsertStrategy)
	}
	if db.InsertStrategy == InsertStrategyReturning && db.Driver == DriverMySQL {
		return fmt.Errorf("insert strategy returning is not available for driver mysql")
	}

	r := config.Readings
	if r.DefaultPageSize <= 0 || r.MaxPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if r.DefaultPageSize > r.MaxPageSize {
		return fmt.Errorf("default page size %d exceeds max page size %d", r.DefaultPageSize, r.MaxPageSize)
	}
	if r.MaxBatchSize <= 0 {
		return fmt.Errorf("max batch size must be positive")
	}

	if config.MQTT.Enabled && config.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker is required when mqtt is enabled")
	}
	if config.MQTT.QoS < 0 || config.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	if config.Influx.Enabled && (config.Influx.URL == "" || config.Influx.Org == "" || config.Influx.Bucket == "") {
		return fmt.Errorf("influx url, org and bucket are required when influx is enabled")
	}
	if config.Keycloak.Enabled() && config.Keycloak.Realm == "" {
		return fmt.Errorf("keycloak realm is required when keycloak URL is set")
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("driver default mismatch: %s", cfg.Database.Driver)
	}
	if cfg.Readings.DefaultPageSize != 60 || cfg.Readings.MaxPageSize != 1000 {
		t.Fatalf("page size defaults mismatch: %#v", cfg.Readings)
	}
	if cfg.Readings.QueryTimeout != 10*time.Second {
		t.Fatalf("query timeout default mismatch: %s", cfg.Readings.QueryTimeout)
	}
	if cfg.Keycloak.Enabled() {
		t.Fatalf("keycloak should be disabled without URL")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOMEGRAPH_DATABASE__DRIVER", "sqlite")
	t.Setenv("HOMEGRAPH_DATABASE__PATH", "/tmp/readings.db")
	t.Setenv("HOMEGRAPH_READINGS__MAX_PAGE_SIZE", "200")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.Path != "/tmp/readings.db" {
		t.Fatalf("env override mismatch: %#v", cfg.Database)
	}
	if cfg.Readings.MaxPageSize != 200 {
		t.Fatalf("max page size override mismatch: %d", cfg.Readings.MaxPageSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
database:
  driver: mysql
  host: db.local
  port: 3306
  insert_strategy: range
readings:
  default_page_size: 25
mqtt:
  enabled: true
  broker: tcp://broker:1883
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Database.Driver != DriverMySQL || cfg.Database.Port != 3306 {
		t.Fatalf("database from file mismatch: %#v", cfg.Database)
	}
	if cfg.Readings.DefaultPageSize != 25 {
		t.Fatalf("page size from file mismatch: %d", cfg.Readings.DefaultPageSize)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Topic != "homegraph/devices/+/readings" {
		t.Fatalf("mqtt mismatch: %#v", cfg.MQTT)
	}
}

func TestValidateConfig(t *testing.T) {
	base := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: DriverPostgres, Host: "localhost", InsertStrategy: InsertStrategyAuto},
			Readings: ReadingsConfig{DefaultPageSize: 60, MaxPageSize: 1000, MaxBatchSize: 1000},
			MQTT:     MQTTConfig{QoS: 1},
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"sqlite without path", func(c *Config) { c.Database.Driver = DriverSQLite }, true},
		{"range on postgres", func(c *Config) { c.Database.InsertStrategy = InsertStrategyRange }, true},
		{"range on pgx", func(c *Config) {
			c.Database.Driver = DriverPgx
			c.Database.InsertStrategy = InsertStrategyRange
		}, true},
		{"returning on mysql", func(c *Config) {
			c.Database.Driver = DriverMySQL
			c.Database.InsertStrategy = InsertStrategyReturning
		}, true},
		{"range on sqlite", func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.Database.Path = "x.db"
			c.Database.InsertStrategy = InsertStrategyRange
		}, false},
		{"bad strategy", func(c *Config) { c.Database.InsertStrategy = "guess" }, true},
		{"default above max", func(c *Config) { c.Readings.DefaultPageSize = 2000 }, true},
		{"zero batch", func(c *Config) { c.Readings.MaxBatchSize = 0 }, true},
		{"mqtt without broker", func(c *Config) { c.MQTT.Enabled = true }, true},
		{"influx without bucket", func(c *Config) {
			c.Influx = InfluxConfig{Enabled: true, URL: "http://influx:8086", Org: "home"}
		}, true},
		{"keycloak without realm", func(c *Config) { c.Keycloak.URL = "http://kc" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(&c)
			err := validateConfig(&c)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

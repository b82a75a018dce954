package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/database/dbtest"
	"github.com/homegraph/hub/internal/monitoring"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			Path:           filepath.Join(t.TempDir(), "server.db"),
			InsertStrategy: config.InsertStrategyAuto,
		},
		Readings: config.ReadingsConfig{
			DefaultPageSize: 60,
			MaxPageSize:     1000,
			MaxBatchSize:    1000,
			QueryTimeout:    5 * time.Second,
		},
	}
	s := New(cfg)
	if err := s.initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(s.close)

	dbtest.ApplySchema(t, s.db)
	if _, err := s.db.GetDB().Exec(`INSERT INTO devices (device_name) VALUES ('kitchen'); INSERT INTO sensors (sensor_name) VALUES ('temperature')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestServerHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["database"] != "ok" {
		t.Fatalf("unexpected health: %v", body)
	}
}

func TestServerCountsIngestedBatches(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings/batch",
		strings.NewReader(`{"device_id":1,"values":[{"sensor_id":1,"value":20.5},{"sensor_id":1,"value":21}]}`))
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.monitoring.Snapshot().Counters["readings.device{device_id=1}"] != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("device counter not updated: %v", s.monitoring.Snapshot().Counters)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	var snap monitoring.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Counters["readings.ingested"] != 1 || snap.Counters["readings.stored"] != 2 {
		t.Fatalf("unexpected counters: %v", snap.Counters)
	}
}

func TestServerRejectsBadStrategy(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			Path:           filepath.Join(t.TempDir(), "bad.db"),
			InsertStrategy: "sometimes",
		},
	}
	s := New(cfg)
	err := s.initialize()
	s.close()
	if err == nil {
		t.Fatalf("expected error for unknown insert strategy")
	}
}

// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/api"
	"github.com/homegraph/hub/api/middleware"
	"github.com/homegraph/hub/api/resources"
	"github.com/homegraph/hub/internal/cache"
	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/database"
	"github.com/homegraph/hub/internal/export/influx"
	mqttingest "github.com/homegraph/hub/internal/ingest/mqtt"
	"github.com/homegraph/hub/internal/models"
	"github.com/homegraph/hub/internal/monitoring"
	"github.com/homegraph/hub/internal/repository/sqlstore"
	"github.com/homegraph/hub/internal/service"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	service    *service.Service
	monitoring *monitoring.Service
	cache      *cache.LatestCache
	mirror     *influx.Mirror
	mqtt       *mqttingest.Subscriber
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		srv:        srv,
		monitoring: monitoring.NewService(),
	}
}

// Start opens the store, wires every component and serves until a
// termination signal arrives.
func (s *Server) Start() error {
	if err := s.initialize(); err != nil {
		s.close()
		return err
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

func (s *Server) initialize() error {
	db, err := database.Open(s.config.Database)
	if err != nil {
		return err
	}
	s.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	readings, err := sqlstore.NewReadingRepository(db, s.config.Database.InsertStrategy)
	if err != nil {
		return err
	}
	nuts.L.Infof("[Server] Batch inserts use %s", insertMode(readings.UsesReturning()))

	s.service = service.New(
		readings,
		sqlstore.NewDeviceRepository(db),
		sqlstore.NewSensorRepository(db),
		s.config.Readings,
	)
	if err := s.service.Validate(); err != nil {
		return err
	}

	s.setupSubscribers()

	if s.config.MQTT.Enabled {
		s.mqtt = mqttingest.NewSubscriber(s.config.MQTT, s.service, s.config.Readings.QueryTimeout)
		if err := s.mqtt.Start(); err != nil {
			return err
		}
	}

	s.srv.Handler = s.setupRoutes()
	return nil
}

// setupSubscribers attaches the post-commit consumers of ingested batches.
func (s *Server) setupSubscribers() {
	s.service.OnIngested("monitoring", func(rows []models.Reading) {
		s.monitoring.RecordEvent(service.EventReadingsIngested, nil)
		s.monitoring.RecordCount("readings.stored", int64(len(rows)))
		if len(rows) > 0 {
			s.monitoring.RecordEvent("readings.device", map[string]string{
				"device_id": strconv.FormatInt(rows[0].DeviceID, 10),
			})
		}
	})

	if s.config.Redis.Enabled {
		s.cache = cache.New(s.config.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := s.cache.Ping(ctx); err != nil {
			nuts.L.Warnf("[Server] Redis not reachable yet: %v", err)
		}
		cancel()
		s.service.OnIngested("latest_cache", s.cache.HandleIngested)
		nuts.L.Infof("[Server] Latest-value cache enabled (ttl %s)", s.config.Redis.TTL)
	}

	if s.config.Influx.Enabled {
		s.mirror = influx.New(s.config.Influx)
		s.service.OnIngested("influx_mirror", s.mirror.HandleIngested)
		nuts.L.Infof("[Server] InfluxDB mirror enabled (bucket %s)", s.config.Influx.Bucket)
	}
}

func (s *Server) setupRoutes() http.Handler {
	var latest resources.LatestReader
	if s.cache != nil {
		latest = s.cache
	}

	res := resources.NewResources(s.service, latest)
	res.SetHealthCheck(s.handleHealth())
	res.SetMetrics(s.handleMetrics())

	var auth *middleware.KeycloakMiddleware
	if s.config.Keycloak.Enabled() {
		auth = middleware.NewKeycloakMiddleware(s.config.Keycloak)
		nuts.L.Infof("[Server] Write routes require a token from realm %s", s.config.Keycloak.Realm)
	}

	return api.NewRouter(res, auth).Handler()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if s.mqtt != nil {
		s.mqtt.Stop()
		s.mqtt = nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.close()
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.close()

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) close() {
	if s.mqtt != nil {
		s.mqtt.Stop()
	}
	if s.mirror != nil {
		s.mirror.Close()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			nuts.L.Warnf("[Server] Failed to close redis client: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Failed to close database: %v", err)
		}
	}
}

// handleHealth reports the store as the only hard dependency.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code, store := "ok", http.StatusOK, "ok"
		if err := s.db.Ping(ctx); err != nil {
			nuts.L.Warnf("[Server] Health check failed: %v", err)
			status, code, store = "degraded", http.StatusServiceUnavailable, "unreachable"
		}

		writeJSON(w, code, map[string]string{
			"status":   status,
			"version":  nuts.GetVersion(),
			"database": store,
		})
	}
}

func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.monitoring.Snapshot())
	}
}

func insertMode(returning bool) string {
	if returning {
		return "RETURNING"
	}
	return "id-range read-back"
}

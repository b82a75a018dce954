package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/api/middleware"
	"github.com/homegraph/hub/api/resources"
	_ "github.com/homegraph/hub/docs"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.KeycloakMiddleware
	resources *resources.Resources
}

// NewRouter wires all routes. With a nil auth middleware every route is public.
func NewRouter(res *resources.Resources, auth *middleware.KeycloakMiddleware) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      auth,
		resources: res,
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.router.HandleFunc("/swagger/doc.json", serveSwaggerDoc).Methods(http.MethodGet)

	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	if r.resources.HealthCheck != nil {
		api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	}
	if r.resources.Metrics != nil {
		api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)
	}

	api.HandleFunc("/readings", r.resources.Readings.Recent).Methods(http.MethodGet)
	api.HandleFunc("/devices", r.resources.Devices.ListDevices).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}", r.resources.Devices.GetDevice).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}/readings", r.resources.Devices.GetDeviceReadings).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}/latest", r.resources.Devices.GetLatest).Methods(http.MethodGet)
	api.HandleFunc("/sensors", r.resources.Sensors.ListSensors).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("/readings").Subrouter()
	if r.auth != nil {
		protected.Use(r.auth.Authenticate)
	}
	protected.HandleFunc("", r.resources.Readings.SubmitOne).Methods(http.MethodPost)
	protected.HandleFunc("/batch", r.resources.Readings.SubmitBatch).Methods(http.MethodPost)
}

// Handler wraps the routes with recovery, CORS and access logging.
func (r *Router) Handler() http.Handler {
	var h http.Handler = r.router
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(h)
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return h
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func serveSwaggerDoc(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		nuts.L.Errorf("[API] Failed to read swagger doc: %v", err)
		http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

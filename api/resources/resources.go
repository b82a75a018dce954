// FilePath: api/resources/resources.go
package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
	"github.com/homegraph/hub/internal/service"
)

// LatestReader serves cached per-sensor values of a device.
type LatestReader interface {
	Latest(ctx context.Context, deviceID int64) ([]models.LatestValue, error)
}

// Resources holds all HTTP resource handlers
type Resources struct {
	Readings    *ReadingHandlers
	Devices     *DeviceHandlers
	Sensors     *SensorHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance. latest may be nil when no
// cache is configured.
func NewResources(svc *service.Service, latest LatestReader) *Resources {
	return &Resources{
		Readings: &ReadingHandlers{service: svc},
		Devices:  &DeviceHandlers{service: svc, latest: latest},
		Sensors:  &SensorHandlers{service: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func decodeQuery(dst interface{}, r *http.Request) *errors.APIError {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.NewValidationError("invalid query parameters", err)
	}
	return nil
}

func decodeBody(dst interface{}, r *http.Request) *errors.APIError {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError("invalid request body", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, *errors.APIError) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewFieldError(name, "positive", name+" must be a positive integer")
	}
	return id, nil
}

// toAPIError keeps classified errors and hides everything else behind a
// generic internal error.
func toAPIError(err error, requestID string) *errors.APIError {
	apiErr, ok := errors.AsAPIError(err)
	if !ok {
		apiErr = errors.NewInternalError("internal server error", err)
	}
	return apiErr.WithRequestID(requestID)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", err.Error())
	} else {
		nuts.L.Debugf("[API] %s", err.Error())
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

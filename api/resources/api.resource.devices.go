// FilePath: api/resources/api.resource.devices.go
package resources

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
	"github.com/homegraph/hub/internal/service"
)

// DeviceHandlers encapsulates the device-related HTTP handlers
type DeviceHandlers struct {
	service *service.Service
	latest  LatestReader
}

type deviceReadingsParams struct {
	Page      string `schema:"page"`
	Limit     string `schema:"limit"`
	StartDate string `schema:"startDate"`
	EndDate   string `schema:"endDate"`
	SensorID  string `schema:"sensorId"`
}

// @Summary List devices
// @Tags devices
// @Produce json
// @Success 200 {array} models.Device
// @Failure 500 {object} errors.APIError
// @Router /devices [get]
func (h *DeviceHandlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	devices, err := h.service.ListDevices(r.Context())
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, devices)
}

// @Summary Get a device by ID
// @Tags devices
// @Produce json
// @Param id path int true "Device ID"
// @Success 200 {object} models.Device
// @Failure 404 {object} errors.APIError
// @Router /devices/{id} [get]
func (h *DeviceHandlers) GetDevice(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	device, err := h.service.GetDevice(r.Context(), id)
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, device)
}

// @Summary Readings of a device
// @Description Paginated readings of one device, newest first. The date range is [startDate, endDate).
// @Tags devices
// @Produce json
// @Param id path int true "Device ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 60)"
// @Param startDate query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "Exclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Param sensorId query int false "Sensor ID"
// @Success 200 {object} models.ReadingPage
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /devices/{id}/readings [get]
func (h *DeviceHandlers) GetDeviceReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	var params deviceReadingsParams
	if apiErr := decodeQuery(&params, r); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	query, apiErr := h.buildQuery(id, params)
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	page, err := h.service.ByDevice(r.Context(), query)
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// @Summary Latest cached values of a device
// @Tags devices
// @Produce json
// @Param id path int true "Device ID"
// @Success 200 {array} models.LatestValue
// @Failure 404 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /devices/{id}/latest [get]
func (h *DeviceHandlers) GetLatest(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if h.latest == nil {
		respondWithError(w, errors.NewNotFoundError("latest value cache is not enabled", nil).WithRequestID(requestID))
		return
	}

	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	values, err := h.latest.Latest(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.NewUnavailableError("latest value cache unavailable", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, values)
}

func (h *DeviceHandlers) buildQuery(deviceID int64, params deviceReadingsParams) (models.DeviceReadingsQuery, *errors.APIError) {
	paging := h.service.Pagination()
	query := models.DeviceReadingsQuery{
		ReadingFilter: models.ReadingFilter{DeviceID: deviceID},
		Page:          paging.Page(params.Page),
		Limit:         paging.Limit(params.Limit),
	}

	if params.StartDate != "" {
		start, err := parseDate(params.StartDate)
		if err != nil {
			return query, errors.NewFieldError("startDate", "date", "startDate must be RFC3339 or YYYY-MM-DD")
		}
		query.Start = &start
	}
	if params.EndDate != "" {
		end, err := parseDate(params.EndDate)
		if err != nil {
			return query, errors.NewFieldError("endDate", "date", "endDate must be RFC3339 or YYYY-MM-DD")
		}
		query.End = &end
	}
	if params.SensorID != "" {
		sensorID, err := strconv.ParseInt(strings.TrimSpace(params.SensorID), 10, 64)
		if err != nil || sensorID <= 0 {
			return query, errors.NewFieldError("sensorId", "positive", "sensorId must be a positive integer")
		}
		query.SensorID = &sensorID
	}
	return query, nil
}

// parseDate accepts RFC3339 timestamps and plain dates, which mean UTC midnight.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

// FilePath: api/resources/api.resource.readings.go
package resources

import (
	"net/http"
	"strconv"
	"strings"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
	"github.com/homegraph/hub/internal/service"
)

// ReadingHandlers encapsulates the reading-related HTTP handlers
type ReadingHandlers struct {
	service *service.Service
}

type recentParams struct {
	Count string `schema:"count"`
}

// @Summary Recent readings
// @Description Newest readings across all devices
// @Tags readings
// @Produce json
// @Param count query int true "Number of readings"
// @Success 200 {array} models.Reading
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /readings [get]
func (h *ReadingHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var params recentParams
	if apiErr := decodeQuery(&params, r); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	count, err := strconv.Atoi(strings.TrimSpace(params.Count))
	if err != nil {
		respondWithError(w, errors.NewFieldError("count", "integer", "count must be an integer").WithRequestID(requestID))
		return
	}

	readings, err := h.service.Recent(r.Context(), count)
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// @Summary Submit one reading
// @Description Store a single sensor reading
// @Tags readings
// @Accept json
// @Produce json
// @Param reading body models.SingleReadingRequest true "Reading"
// @Success 201 {object} models.Reading
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /readings [post]
// @Security BearerAuth
func (h *ReadingHandlers) SubmitOne(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req models.SingleReadingRequest
	if apiErr := decodeBody(&req, r); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	reading, err := h.service.SubmitOne(r.Context(), req)
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, reading)
}

// @Summary Submit a batch of readings
// @Description Store all readings of one device atomically
// @Tags readings
// @Accept json
// @Produce json
// @Param batch body models.BatchRequest true "Device and readings"
// @Success 201 {array} models.Reading
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /readings/batch [post]
// @Security BearerAuth
func (h *ReadingHandlers) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req models.BatchRequest
	if apiErr := decodeBody(&req, r); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	readings, err := h.service.SubmitBatch(r.Context(), req)
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, readings)
}

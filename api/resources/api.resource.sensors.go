package resources

import (
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/service"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	service *service.Service
}

// @Summary List sensors
// @Tags sensors
// @Produce json
// @Success 200 {array} models.Sensor
// @Failure 500 {object} errors.APIError
// @Router /sensors [get]
func (h *SensorHandlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sensors, err := h.service.ListSensors(r.Context())
	if err != nil {
		respondWithError(w, toAPIError(err, requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sensors)
}

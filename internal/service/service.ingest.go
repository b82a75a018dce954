package service

import (
	"context"
	"fmt"
	"math"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

// SubmitBatch validates req and writes all of its values atomically for one
// device. It returns the stored rows in identifier order. Validation failures
// never reach the store.
func (s *Service) SubmitBatch(ctx context.Context, req models.BatchRequest) ([]models.Reading, error) {
	deviceID, values, err := s.validateBatch(req)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, deviceID, values)
}

// SubmitOne writes a single reading as a batch of one.
func (s *Service) SubmitOne(ctx context.Context, req models.SingleReadingRequest) (*models.Reading, error) {
	deviceID, err := requirePositive("device_id", req.DeviceID)
	if err != nil {
		return nil, err
	}
	sensorID, err := requirePositive("sensor_id", req.SensorID)
	if err != nil {
		return nil, err
	}
	value, err := requireFinite("value", req.Value)
	if err != nil {
		return nil, err
	}

	rows, err := s.submit(ctx, deviceID, []models.SensorValue{{SensorID: sensorID, Value: value}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NewStorageError("reading was not stored", nil)
	}
	return &rows[0], nil
}

func (s *Service) submit(ctx context.Context, deviceID int64, values []models.SensorValue) ([]models.Reading, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.readings.InsertBatch(ctx, deviceID, values)
	if err != nil {
		nuts.L.Errorf("[ReadingService] Failed to store %d reading(s) for device %d: %v", len(values), deviceID, err)
		return nil, err
	}
	if len(rows) < len(values) {
		nuts.L.Warnf("[ReadingService] Device %d: %d of %d reading(s) applied", deviceID, len(rows), len(values))
	}
	nuts.L.Debugf("[ReadingService] Stored %d reading(s) for device %d", len(rows), deviceID)

	s.emitIngested(rows)
	return rows, nil
}

func (s *Service) validateBatch(req models.BatchRequest) (int64, []models.SensorValue, error) {
	deviceID, err := requirePositive("device_id", req.DeviceID)
	if err != nil {
		return 0, nil, err
	}
	if len(req.Values) == 0 {
		return 0, nil, errors.NewFieldError("values", "non_empty", "at least one reading is required")
	}
	if s.cfg.MaxBatchSize > 0 && len(req.Values) > s.cfg.MaxBatchSize {
		return 0, nil, errors.NewFieldError("values", "max_size",
			fmt.Sprintf("at most %d readings are accepted per batch", s.cfg.MaxBatchSize))
	}

	values := make([]models.SensorValue, len(req.Values))
	for i, in := range req.Values {
		sensorID, err := requirePositive(fmt.Sprintf("values[%d].sensor_id", i), in.SensorID)
		if err != nil {
			return 0, nil, err
		}
		value, err := requireFinite(fmt.Sprintf("values[%d].value", i), in.Value)
		if err != nil {
			return 0, nil, err
		}
		values[i] = models.SensorValue{SensorID: sensorID, Value: value}
	}
	return deviceID, values, nil
}

func requirePositive(field string, v *int64) (int64, error) {
	if v == nil {
		return 0, errors.NewFieldError(field, "required", field+" is required")
	}
	if *v <= 0 {
		return 0, errors.NewFieldError(field, "positive", field+" must be a positive integer")
	}
	return *v, nil
}

func requireFinite(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, errors.NewFieldError(field, "required", field+" is required")
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, errors.NewFieldError(field, "finite", field+" must be a finite number")
	}
	return *v, nil
}

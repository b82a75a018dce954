package service

import (
	"context"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

func (s *Service) ListDevices(ctx context.Context) ([]*models.Device, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.devices.List(ctx)
}

func (s *Service) GetDevice(ctx context.Context, id int64) (*models.Device, error) {
	if id <= 0 {
		return nil, errors.NewFieldError("id", "positive", "device id must be a positive integer")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.devices.Get(ctx, id)
}

func (s *Service) ListSensors(ctx context.Context) ([]*models.Sensor, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.sensors.List(ctx)
}

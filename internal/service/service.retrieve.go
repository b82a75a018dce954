package service

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

// Recent returns at most count readings across all devices, newest first.
// count is clamped to the maximum page size.
func (s *Service) Recent(ctx context.Context, count int) ([]models.Reading, error) {
	if count <= 0 {
		return nil, errors.NewFieldError("count", "positive", "count must be a positive integer")
	}
	if s.paging.MaxLimit > 0 && count > s.paging.MaxLimit {
		count = s.paging.MaxLimit
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.readings.Recent(ctx, count)
	if err != nil {
		nuts.L.Errorf("[ReadingService] Failed to get %d recent readings: %v", count, err)
		return nil, err
	}
	return rows, nil
}

// ByDevice returns one page of a device's readings plus the total match
// count. Page and limit are normalized first, so out-of-range values
// never fail.
func (s *Service) ByDevice(ctx context.Context, q models.DeviceReadingsQuery) (*models.ReadingPage, error) {
	if q.DeviceID <= 0 {
		return nil, errors.NewFieldError("device_id", "positive", "device_id must be a positive integer")
	}
	if q.SensorID != nil && *q.SensorID <= 0 {
		return nil, errors.NewFieldError("sensorId", "positive", "sensorId must be a positive integer")
	}

	page := s.paging.NormalizePage(q.Page)
	limit := s.paging.NormalizeLimit(q.Limit)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, data, err := s.readings.ListByDevice(ctx, q.ReadingFilter, limit, Offset(page, limit))
	if err != nil {
		nuts.L.Errorf("[ReadingService] Failed to get readings of device %d (page %d, limit %d): %v", q.DeviceID, page, limit, err)
		return nil, err
	}
	if data == nil {
		data = []models.DeviceReading{}
	}

	return &models.ReadingPage{
		Data:        data,
		Total:       total,
		TotalPages:  TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

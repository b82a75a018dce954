package service

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/repository"
)

// Service contains all repositories and service-wide dependencies
type Service struct {
	readings repository.ReadingRepository
	devices  repository.DeviceRepository
	sensors  repository.SensorRepository
	cfg      config.ReadingsConfig
	paging   LenientPagination
	events   *nuts.EventEmitter
}

// New creates a new service instance
func New(
	readings repository.ReadingRepository,
	devices repository.DeviceRepository,
	sensors repository.SensorRepository,
	cfg config.ReadingsConfig,
) *Service {
	return &Service{
		readings: readings,
		devices:  devices,
		sensors:  sensors,
		cfg:      cfg,
		paging:   NewLenientPagination(cfg.DefaultPageSize, cfg.MaxPageSize),
		events:   nuts.NewEventEmitter(),
	}
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.readings == nil {
		return ErrMissingRepository("readings")
	}
	if s.devices == nil {
		return ErrMissingRepository("devices")
	}
	if s.sensors == nil {
		return ErrMissingRepository("sensors")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// Pagination returns the policy used to coerce raw page and limit input.
func (s *Service) Pagination() LenientPagination {
	return s.paging
}

// withTimeout bounds one store call. A zero timeout leaves ctx unchanged.
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.QueryTimeout)
}

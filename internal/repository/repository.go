// FilePath: internal/repository/repository.go
package repository

import (
	"context"

	"github.com/homegraph/hub/internal/models"
)

// ReadingRepository defines the interface for sensor reading storage.
// Every method checks out exactly one connection and returns it on all paths.
type ReadingRepository interface {
	// InsertBatch writes all values for deviceID in one transaction and
	// returns the stored rows in id order. Nothing is written on error.
	InsertBatch(ctx context.Context, deviceID int64, values []models.SensorValue) ([]models.Reading, error)
	// Recent returns at most count readings, newest first.
	Recent(ctx context.Context, count int) ([]models.Reading, error)
	// ListByDevice counts all matches of filter, then fetches one page of them.
	ListByDevice(ctx context.Context, filter models.ReadingFilter, limit, offset int) (int64, []models.DeviceReading, error)
}

// DeviceRepository defines read access to devices
type DeviceRepository interface {
	List(ctx context.Context) ([]*models.Device, error)
	Get(ctx context.Context, id int64) (*models.Device, error)
}

// SensorRepository defines read access to sensors
type SensorRepository interface {
	List(ctx context.Context) ([]*models.Sensor, error)
}

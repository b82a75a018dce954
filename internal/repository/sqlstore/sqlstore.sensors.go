package sqlstore

import (
	"context"

	"github.com/homegraph/hub/internal/database"
	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

type SensorRepo struct {
	SQLBaseRepo
}

func NewSensorRepository(db database.DB) *SensorRepo {
	return &SensorRepo{SQLBaseRepo{db: db}}
}

func (r *SensorRepo) List(ctx context.Context) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT sensor_id, sensor_name FROM sensors ORDER BY sensor_id`
	if err := r.db.GetDB().SelectContext(ctx, &sensors, query); err != nil {
		return nil, errors.NewStorageError("failed to list sensors", err)
	}
	return sensors, nil
}

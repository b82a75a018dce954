package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/homegraph/hub/internal/database"
	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

type DeviceRepo struct {
	SQLBaseRepo
}

func NewDeviceRepository(db database.DB) *DeviceRepo {
	return &DeviceRepo{SQLBaseRepo{db: db}}
}

func (r *DeviceRepo) List(ctx context.Context) ([]*models.Device, error) {
	devices := []*models.Device{}
	query := `SELECT device_id, device_name, location FROM devices ORDER BY device_id`
	if err := r.db.GetDB().SelectContext(ctx, &devices, query); err != nil {
		return nil, errors.NewStorageError("failed to list devices", err)
	}
	return devices, nil
}

func (r *DeviceRepo) Get(ctx context.Context, id int64) (*models.Device, error) {
	var device models.Device
	query := r.rebind(`SELECT device_id, device_name, location FROM devices WHERE device_id = ?`)
	if err := r.db.GetDB().GetContext(ctx, &device, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("device %d not found", id), nil)
		}
		return nil, errors.NewStorageError("failed to get device", err)
	}
	return &device, nil
}

package service

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/database/dbtest"
	"github.com/homegraph/hub/internal/models"
	"github.com/homegraph/hub/internal/repository/sqlstore"
)

func newStoreService(t *testing.T, readings int) *Service {
	t.Helper()
	db := dbtest.OpenSeeded(t, 1, 1)
	repo, err := sqlstore.NewReadingRepository(db, config.InsertStrategyAuto)
	if err != nil {
		t.Fatalf("NewReadingRepository: %v", err)
	}
	svc := New(repo, sqlstore.NewDeviceRepository(db), sqlstore.NewSensorRepository(db), testConfig())

	values := make([]models.ReadingInput, readings)
	for i := range values {
		values[i] = in(1, float64(i))
	}
	if _, err := svc.SubmitBatch(context.Background(), models.BatchRequest{DeviceID: i64(1), Values: values}); err != nil {
		t.Fatalf("SubmitBatch: %v", err)
	}
	return svc
}

func TestByDeviceHugePageIsEmpty(t *testing.T) {
	svc := newStoreService(t, 5)

	page, err := svc.ByDevice(context.Background(), models.DeviceReadingsQuery{
		ReadingFilter: models.ReadingFilter{DeviceID: 1},
		Page:          math.MaxInt/2 + 1,
		Limit:         4,
	})
	if err != nil {
		t.Fatalf("ByDevice: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 2 || len(page.Data) != 0 {
		t.Fatalf("expected total 5, 2 pages and no data, got %d %d %d", page.Total, page.TotalPages, len(page.Data))
	}
}

func TestByDeviceRepeatsWithoutWrites(t *testing.T) {
	svc := newStoreService(t, 7)
	q := models.DeviceReadingsQuery{
		ReadingFilter: models.ReadingFilter{DeviceID: 1},
		Page:          2,
		Limit:         3,
	}

	first, err := svc.ByDevice(context.Background(), q)
	if err != nil {
		t.Fatalf("ByDevice: %v", err)
	}
	second, err := svc.ByDevice(context.Background(), q)
	if err != nil {
		t.Fatalf("ByDevice: %v", err)
	}
	if len(first.Data) != 3 {
		t.Fatalf("expected a full page, got %+v", first)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated query differs:\n%+v\n%+v", first, second)
	}
}

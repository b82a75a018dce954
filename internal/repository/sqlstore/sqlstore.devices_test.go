package sqlstore

import (
	"context"
	"testing"

	"github.com/homegraph/hub/internal/database/dbtest"
	"github.com/homegraph/hub/internal/errors"
)

func TestDeviceRepo(t *testing.T) {
	db := dbtest.Open(t)
	kitchen := dbtest.AddDevice(t, db, "kitchen", "ground floor")
	attic := dbtest.AddDevice(t, db, "attic", "")
	repo := NewDeviceRepository(db)

	devices, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(devices) != 2 || devices[0].ID != kitchen || devices[1].ID != attic {
		t.Fatalf("unexpected devices: %+v", devices)
	}
	if devices[0].Location == nil || *devices[0].Location != "ground floor" {
		t.Fatalf("expected location, got %v", devices[0].Location)
	}
	if devices[1].Location != nil {
		t.Fatalf("expected nil location, got %q", *devices[1].Location)
	}

	got, err := repo.Get(context.Background(), attic)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "attic" {
		t.Fatalf("expected attic, got %q", got.Name)
	}

	if _, err := repo.Get(context.Background(), 404); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	dbtest.AssertReleased(t, db)
}

func TestSensorRepo(t *testing.T) {
	db := dbtest.OpenSeeded(t, 0, 3)
	repo := NewSensorRepository(db)

	sensors, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sensors) != 3 || sensors[2].Name != "sensor-3" {
		t.Fatalf("unexpected sensors: %+v", sensors)
	}
}

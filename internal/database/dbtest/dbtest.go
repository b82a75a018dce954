// Package dbtest opens throwaway sqlite stores for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/database"
)

const schema = `
CREATE TABLE devices (
	device_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	device_name TEXT NOT NULL,
	location    TEXT
);
CREATE TABLE sensors (
	sensor_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	sensor_name TEXT NOT NULL
);
CREATE TABLE readings (
	reading_id INTEGER PRIMARY KEY AUTOINCREMENT,
	device_id  INTEGER NOT NULL REFERENCES devices(device_id),
	sensor_id  INTEGER NOT NULL REFERENCES sensors(sensor_id),
	value      REAL NOT NULL,
	timestamp  DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
);
CREATE INDEX idx_readings_device_timestamp ON readings(device_id, timestamp DESC);
`

// Open returns an empty store with the readings schema, closed on cleanup.
func Open(t testing.TB) database.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "readings.db"),
	})
	if err != nil {
		t.Fatalf("dbtest: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ApplySchema(t, db)
	return db
}

// ApplySchema creates the devices, sensors and readings tables in db.
func ApplySchema(t testing.TB, db database.DB) {
	t.Helper()
	if _, err := db.GetDB().Exec(schema); err != nil {
		t.Fatalf("dbtest: schema: %v", err)
	}
}

// OpenSeeded returns a store with devices 1..devices and sensors 1..sensors.
// Sensor n is named "sensor-n", device n "device-n".
func OpenSeeded(t testing.TB, devices, sensors int) database.DB {
	t.Helper()
	db := Open(t)
	for i := 1; i <= devices; i++ {
		AddDevice(t, db, deviceName(i), "")
	}
	for i := 1; i <= sensors; i++ {
		AddSensor(t, db, sensorName(i))
	}
	return db
}

// AddDevice inserts a device; an empty location is stored as NULL.
func AddDevice(t testing.TB, db database.DB, name, location string) int64 {
	t.Helper()
	var loc any
	if location != "" {
		loc = location
	}
	res, err := db.GetDB().Exec(`INSERT INTO devices (device_name, location) VALUES (?, ?)`, name, loc)
	if err != nil {
		t.Fatalf("dbtest: add device: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// AddSensor inserts a sensor.
func AddSensor(t testing.TB, db database.DB, name string) int64 {
	t.Helper()
	res, err := db.GetDB().Exec(`INSERT INTO sensors (sensor_name) VALUES (?)`, name)
	if err != nil {
		t.Fatalf("dbtest: add sensor: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// AddReading inserts a reading with an explicit timestamp, stored in the
// same text form as the column default.
func AddReading(t testing.TB, db database.DB, deviceID, sensorID int64, value float64, ts time.Time) int64 {
	t.Helper()
	res, err := db.GetDB().Exec(
		`INSERT INTO readings (device_id, sensor_id, value, timestamp) VALUES (?, ?, ?, ?)`,
		deviceID, sensorID, value, db.Dialect().TimeArg(ts),
	)
	if err != nil {
		t.Fatalf("dbtest: add reading: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// CountReadings returns the number of rows in readings.
func CountReadings(t testing.TB, db database.DB) int64 {
	t.Helper()
	var n int64
	if err := db.GetDB().GetContext(context.Background(), &n, `SELECT COUNT(*) FROM readings`); err != nil {
		t.Fatalf("dbtest: count readings: %v", err)
	}
	return n
}

// AssertReleased fails when a connection is still checked out of the pool.
func AssertReleased(t testing.TB, db database.DB) {
	t.Helper()
	if inUse := db.GetDB().Stats().InUse; inUse != 0 {
		t.Fatalf("dbtest: %d connection(s) not released", inUse)
	}
}

func deviceName(i int) string {
	return "device-" + strconv.Itoa(i)
}

func sensorName(i int) string {
	return "sensor-" + strconv.Itoa(i)
}

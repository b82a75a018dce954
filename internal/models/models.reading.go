// FilePath: internal/models/models.reading.go
package models

import "time"

// Reading is one persisted sensor value. ID and Timestamp are assigned by the store.
type Reading struct {
	ID        int64     `json:"reading_id" db:"reading_id"`
	DeviceID  int64     `json:"device_id" db:"device_id"`
	SensorID  int64     `json:"sensor_id" db:"sensor_id"`
	Value     float64   `json:"value" db:"value"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// DeviceReading is a reading joined with its sensor's display name.
type DeviceReading struct {
	ID         int64     `json:"reading_id" db:"reading_id"`
	Value      float64   `json:"value" db:"value"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	SensorName string    `json:"sensor_name" db:"sensor_name"`
}

// SensorValue is a validated (sensor, value) pair ready for insertion.
type SensorValue struct {
	SensorID int64
	Value    float64
}

// ReadingInput is a raw (sensor, value) pair as received from a caller.
// Pointers distinguish a missing field from a zero value.
type ReadingInput struct {
	SensorID *int64   `json:"sensor_id"`
	Value    *float64 `json:"value"`
}

// BatchRequest is one device plus an ordered list of readings to write atomically.
type BatchRequest struct {
	DeviceID *int64         `json:"device_id"`
	Values   []ReadingInput `json:"values"`
}

// SingleReadingRequest is the body of a one-reading write.
type SingleReadingRequest struct {
	DeviceID *int64   `json:"device_id"`
	SensorID *int64   `json:"sensor_id"`
	Value    *float64 `json:"value"`
}

// LatestValue is the most recent cached value of one sensor on a device.
type LatestValue struct {
	ReadingID int64     `json:"reading_id"`
	SensorID  int64     `json:"sensor_id"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

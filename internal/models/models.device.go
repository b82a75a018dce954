package models

// Device hosts one or more sensors. Read-only here.
type Device struct {
	ID       int64   `json:"device_id" db:"device_id"`
	Name     string  `json:"device_name" db:"device_name"`
	Location *string `json:"location" db:"location"`
}

// Sensor is referenced by readings for its display name.
type Sensor struct {
	ID   int64  `json:"sensor_id" db:"sensor_id"`
	Name string `json:"sensor_name" db:"sensor_name"`
}

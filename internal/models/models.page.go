package models

import "time"

// ReadingFilter selects readings of one device. Nil fields are not filtered on.
// The time range is half-open: Start inclusive, End exclusive.
type ReadingFilter struct {
	DeviceID int64
	SensorID *int64
	Start    *time.Time
	End      *time.Time
}

// DeviceReadingsQuery is a filtered, paginated request for one device.
// Page and Limit are normalized by the pagination policy before use.
type DeviceReadingsQuery struct {
	ReadingFilter
	Page  int
	Limit int
}

// ReadingPage is one page of a device's readings, newest first.
type ReadingPage struct {
	Data        []DeviceReading `json:"data"`
	Total       int64           `json:"total"`
	TotalPages  int64           `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}

package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homegraph/hub/internal/models"
)

func TestLatestFieldsKeepsNewestPerSensor(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	fields, err := LatestFields([]models.Reading{
		{ID: 7, DeviceID: 1, SensorID: 2, Value: 20, Timestamp: ts},
		{ID: 9, DeviceID: 1, SensorID: 2, Value: 22, Timestamp: ts.Add(time.Minute)},
		{ID: 8, DeviceID: 1, SensorID: 3, Value: 55, Timestamp: ts},
		{ID: 10, DeviceID: 4, SensorID: 2, Value: -1, Timestamp: ts},
	})
	if err != nil {
		t.Fatalf("LatestFields: %v", err)
	}
	if len(fields) != 2 || len(fields[1]) != 2 || len(fields[4]) != 1 {
		t.Fatalf("unexpected grouping: %v", fields)
	}

	var v models.LatestValue
	if err := json.Unmarshal([]byte(fields[1]["2"].(string)), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.ReadingID != 9 || v.Value != 22 || !v.Timestamp.Equal(ts.Add(time.Minute)) {
		t.Fatalf("expected newest reading 9, got %+v", v)
	}
}

func TestDecodeLatest(t *testing.T) {
	values := DecodeLatest(map[string]string{
		"3": `{"reading_id":8,"sensor_id":3,"value":55,"timestamp":"2024-03-01T08:00:00Z"}`,
		"2": `{"reading_id":9,"sensor_id":2,"value":22,"timestamp":"2024-03-01T08:01:00Z"}`,
		"x": `not json`,
	})
	if len(values) != 2 || values[0].SensorID != 2 || values[1].SensorID != 3 {
		t.Fatalf("unexpected values: %+v", values)
	}
	if got := DecodeLatest(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestDeviceKey(t *testing.T) {
	if got := DeviceKey(42); got != "device:last:42" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestStoreReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewWithClient(client, time.Hour)
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Store(ctx, []models.Reading{{ID: 1, DeviceID: 1, SensorID: 1, Value: 1}}); err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if err := c.Store(ctx, nil); err != nil {
		t.Fatalf("empty store should be a no-op, got %v", err)
	}
	// The subscriber swallows the failure.
	c.HandleIngested([]models.Reading{{ID: 1, DeviceID: 1, SensorID: 1, Value: 1}})
}

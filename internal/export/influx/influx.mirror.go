// FilePath: internal/export/influx/influx.mirror.go
package influx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/models"
)

// Mirror copies committed readings into an InfluxDB bucket.
type Mirror struct {
	client      influxdb2.Client
	writer      api.WriteAPIBlocking
	measurement string
}

func New(cfg config.InfluxConfig) *Mirror {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Mirror{
		client:      client,
		writer:      client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		measurement: cfg.Measurement,
	}
}

// Ping checks the server is up.
func (m *Mirror) Ping(ctx context.Context) error {
	ok, err := m.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("influxdb not ready")
	}
	return nil
}

func (m *Mirror) Close() {
	m.client.Close()
}

// Write sends one point per reading in a single request.
func (m *Mirror) Write(ctx context.Context, rows []models.Reading) error {
	if len(rows) == 0 {
		return nil
	}
	if err := m.writer.WritePoint(ctx, Points(m.measurement, rows)...); err != nil {
		return fmt.Errorf("write %d point(s): %w", len(rows), err)
	}
	return nil
}

// HandleIngested is the post-commit subscriber. Failures are logged only.
func (m *Mirror) HandleIngested(rows []models.Reading) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Write(ctx, rows); err != nil {
		nuts.L.Warnf("[InfluxMirror] Failed to mirror readings: %v", err)
	}
}

// Points maps readings to points tagged by device and sensor, stamped with
// the store-assigned reading time.
func Points(measurement string, rows []models.Reading) []*write.Point {
	points := make([]*write.Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, influxdb2.NewPoint(
			measurement,
			map[string]string{
				"device_id": strconv.FormatInt(row.DeviceID, 10),
				"sensor_id": strconv.FormatInt(row.SensorID, 10),
			},
			map[string]interface{}{
				"value":      row.Value,
				"reading_id": row.ID,
			},
			row.Timestamp,
		))
	}
	return points
}

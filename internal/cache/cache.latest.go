// FilePath: internal/cache/cache.latest.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/models"
)

const keyPrefix = "device:last:"

// LatestCache keeps the most recent value of every sensor per device in a
// redis hash keyed by device, one field per sensor.
type LatestCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func New(cfg config.RedisConfig) *LatestCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.TTL)
}

func NewWithClient(client redis.UniversalClient, ttl time.Duration) *LatestCache {
	return &LatestCache{client: client, ttl: ttl}
}

func DeviceKey(deviceID int64) string {
	return keyPrefix + strconv.FormatInt(deviceID, 10)
}

func (c *LatestCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LatestCache) Close() error {
	return c.client.Close()
}

// Store writes rows into the per-device hashes. Within rows the highest
// reading id wins for each sensor.
func (c *LatestCache) Store(ctx context.Context, rows []models.Reading) error {
	if len(rows) == 0 {
		return nil
	}
	fields, err := LatestFields(rows)
	if err != nil {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for deviceID, values := range fields {
			key := DeviceKey(deviceID)
			pipe.HSet(ctx, key, values)
			if c.ttl > 0 {
				pipe.Expire(ctx, key, c.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache latest readings: %w", err)
	}
	return nil
}

// Latest returns the cached values of deviceID ordered by sensor id.
// An unknown device yields an empty slice.
func (c *LatestCache) Latest(ctx context.Context, deviceID int64) ([]models.LatestValue, error) {
	raw, err := c.client.HGetAll(ctx, DeviceKey(deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read latest readings of device %d: %w", deviceID, err)
	}
	return DecodeLatest(raw), nil
}

// HandleIngested is the post-commit subscriber. Failures are logged only.
func (c *LatestCache) HandleIngested(rows []models.Reading) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Store(ctx, rows); err != nil {
		nuts.L.Warnf("[LatestCache] Failed to cache %d reading(s): %v", len(rows), err)
	}
}

// LatestFields groups rows by device into hash fields keyed by sensor id.
func LatestFields(rows []models.Reading) (map[int64]map[string]interface{}, error) {
	newest := make(map[int64]map[int64]models.Reading)
	for _, row := range rows {
		bySensor, ok := newest[row.DeviceID]
		if !ok {
			bySensor = make(map[int64]models.Reading)
			newest[row.DeviceID] = bySensor
		}
		if cur, ok := bySensor[row.SensorID]; !ok || row.ID > cur.ID {
			bySensor[row.SensorID] = row
		}
	}

	out := make(map[int64]map[string]interface{}, len(newest))
	for deviceID, bySensor := range newest {
		fields := make(map[string]interface{}, len(bySensor))
		for sensorID, row := range bySensor {
			b, err := json.Marshal(models.LatestValue{
				ReadingID: row.ID,
				SensorID:  row.SensorID,
				Value:     row.Value,
				Timestamp: row.Timestamp,
			})
			if err != nil {
				return nil, fmt.Errorf("encode reading %d: %w", row.ID, err)
			}
			fields[strconv.FormatInt(sensorID, 10)] = string(b)
		}
		out[deviceID] = fields
	}
	return out, nil
}

// DecodeLatest skips fields that do not hold a valid value.
func DecodeLatest(raw map[string]string) []models.LatestValue {
	values := make([]models.LatestValue, 0, len(raw))
	for field, s := range raw {
		var v models.LatestValue
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			nuts.L.Warnf("[LatestCache] Dropping unreadable field %s: %v", field, err)
			continue
		}
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i].SensorID < values[j].SensorID })
	return values
}

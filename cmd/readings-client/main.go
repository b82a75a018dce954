// FilePath: cmd/readings-client/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/homegraph/hub/internal/client"
	"github.com/homegraph/hub/internal/models"
)

const usage = `usage: readings-client [-url URL] [-token TOKEN] <command> [flags]

commands:
  submit -device ID sensor:value [sensor:value ...]
  recent -count N
  device -id ID [-page N] [-limit N] [-start DATE] [-end DATE] [-sensor ID]
`

func main() {
	global := flag.NewFlagSet("readings-client", flag.ExitOnError)
	baseURL := global.String("url", envOr("HUB_URL", "http://localhost:3000/api/v1"), "API base URL")
	token := global.String("token", os.Getenv("HUB_TOKEN"), "bearer token for write routes")
	timeout := global.Duration("timeout", 10*time.Second, "request timeout")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}

	c := client.New(*baseURL, *token, *timeout)
	ctx := context.Background()

	var (
		out any
		err error
	)
	switch args[0] {
	case "submit":
		out, err = runSubmit(ctx, c, args[1:])
	case "recent":
		out, err = runRecent(ctx, c, args[1:])
	case "device":
		out, err = runDevice(ctx, c, args[1:])
	default:
		global.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func runSubmit(ctx context.Context, c *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	device := fs.Int64("device", 0, "device id")
	fs.Parse(args)

	values, err := parsePairs(fs.Args())
	if err != nil {
		return nil, err
	}
	return c.SubmitBatch(ctx, models.BatchRequest{DeviceID: device, Values: values})
}

func runRecent(ctx context.Context, c *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	count := fs.Int("count", 10, "number of readings")
	fs.Parse(args)
	return c.Recent(ctx, *count)
}

func runDevice(ctx context.Context, c *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("device", flag.ExitOnError)
	id := fs.Int64("id", 0, "device id")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	start := fs.String("start", "", "inclusive start (RFC3339 or YYYY-MM-DD)")
	end := fs.String("end", "", "exclusive end (RFC3339 or YYYY-MM-DD)")
	sensor := fs.Int64("sensor", 0, "sensor id")
	fs.Parse(args)

	return c.DeviceReadings(ctx, *id, client.DeviceReadingsParams{
		Page:      *page,
		Limit:     *limit,
		StartDate: *start,
		EndDate:   *end,
		SensorID:  *sensor,
	})
}

// parsePairs reads "sensor:value" arguments in order.
func parsePairs(args []string) ([]models.ReadingInput, error) {
	values := make([]models.ReadingInput, 0, len(args))
	for _, arg := range args {
		sensorPart, valuePart, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("expected sensor:value, got %q", arg)
		}
		sensorID, err := strconv.ParseInt(sensorPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sensor id %q", sensorPart)
		}
		value, err := strconv.ParseFloat(valuePart, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", valuePart)
		}
		values = append(values, models.ReadingInput{SensorID: &sensorID, Value: &value})
	}
	return values, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

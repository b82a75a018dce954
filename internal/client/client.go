// Package client is an HTTP client for the readings API.
package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

type Client struct {
	http *resty.Client
}

// DeviceReadingsParams mirrors the query string of the device readings route.
// Empty fields are omitted.
type DeviceReadingsParams struct {
	Page      int
	Limit     int
	StartDate string
	EndDate   string
	SensorID  int64
}

// New creates a client for baseURL, e.g. http://localhost:3000/api/v1.
// An empty token sends no Authorization header.
func New(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

func (c *Client) SubmitBatch(ctx context.Context, req models.BatchRequest) ([]models.Reading, error) {
	var rows []models.Reading
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&rows).
		SetError(&errors.APIError{}).
		Post("/readings/batch")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Recent(ctx context.Context, count int) ([]models.Reading, error) {
	var rows []models.Reading
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("count", strconv.Itoa(count)).
		SetResult(&rows).
		SetError(&errors.APIError{}).
		Get("/readings")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) DeviceReadings(ctx context.Context, deviceID int64, params DeviceReadingsParams) (*models.ReadingPage, error) {
	query := map[string]string{}
	if params.Page > 0 {
		query["page"] = strconv.Itoa(params.Page)
	}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}
	if params.StartDate != "" {
		query["startDate"] = params.StartDate
	}
	if params.EndDate != "" {
		query["endDate"] = params.EndDate
	}
	if params.SensorID > 0 {
		query["sensorId"] = strconv.FormatInt(params.SensorID, 10)
	}

	var page models.ReadingPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(deviceID, 10)).
		SetQueryParams(query).
		SetResult(&page).
		SetError(&errors.APIError{}).
		Get("/devices/{id}/readings")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// check turns transport failures and non-2xx responses into errors. Server
// errors come back as the decoded *errors.APIError.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	if apiErr, ok := resp.Error().(*errors.APIError); ok && apiErr.Type != "" {
		return apiErr
	}
	return fmt.Errorf("unexpected status %s", resp.Status())
}

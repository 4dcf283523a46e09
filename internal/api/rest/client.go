package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/example/chime/internal/domain/alarm"
)

// DefaultRequestTimeout bounds each client call.
const DefaultRequestTimeout = 5 * time.Second

// Client talks to a running engine daemon over its JSON API.
type Client struct {
	// baseURL is the daemon's address, e.g. "http://127.0.0.1:8080".
	baseURL string
	// httpClient performs the requests.
	httpClient *http.Client
	// timeout bounds each call.
	timeout time.Duration
}

// ClientOption customizes the client.
type ClientOption func(*Client)

// WithRequestTimeout overrides the per-call timeout.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a client for the daemon at the given address.
func NewClient(address string, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}

	if parsed.Scheme == "" {
		parsed.Scheme = "http"
		parsed.Host = parsed.Path
		parsed.Path = ""
	}

	c := &Client{
		baseURL:    parsed.String(),
		httpClient: &http.Client{},
		timeout:    DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Health checks the daemon is reachable and returns its version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}

	if err := c.call(ctx, http.MethodGet, "/v1/healthz", nil, &resp); err != nil {
		return "", err
	}

	return resp.Version, nil
}

// List fetches every stored alarm.
func (c *Client) List(ctx context.Context) ([]*alarm.Record, error) {
	var resp listResponse
	if err := c.call(ctx, http.MethodGet, "/v1/alarms", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Alarms, nil
}

// Save creates or updates an alarm and returns the confirmation text.
func (c *Client) Save(ctx context.Context, rec *alarm.Record, edit bool) (string, error) {
	var resp saveResponse
	err := c.call(ctx, http.MethodPut, "/v1/alarms", saveRequest{Alarm: rec, Edit: edit}, &resp)
	if err != nil {
		return "", err
	}

	return resp.Message, nil
}

// Delete removes the listed alarms.
func (c *Client) Delete(ctx context.Context, ids []string) error {
	return c.call(ctx, http.MethodPost, "/v1/alarms/delete", deleteRequest{IDs: ids}, nil)
}

// Toggle flips an alarm's active state and reports the new one.
func (c *Client) Toggle(ctx context.Context, alarmID string) (bool, error) {
	var resp toggleResponse
	err := c.call(ctx, http.MethodPost, "/v1/alarms/"+url.PathEscape(alarmID)+"/toggle", nil, &resp)
	if err != nil {
		return false, err
	}

	return resp.Active, nil
}

// Dismiss stops a ringing alarm.
func (c *Client) Dismiss(ctx context.Context, alarmID string) error {
	return c.call(ctx, http.MethodPost, "/v1/alarms/"+url.PathEscape(alarmID)+"/dismiss", nil, nil)
}

// Snooze books a snooze trigger. Zero minutes means the daemon default.
func (c *Client) Snooze(ctx context.Context, alarmID string, minutes int) error {
	return c.call(ctx, http.MethodPost,
		"/v1/alarms/"+url.PathEscape(alarmID)+"/snooze", snoozeRequest{Minutes: minutes}, nil)
}

// StartTimer begins a countdown and returns its end instant.
func (c *Client) StartTimer(ctx context.Context, d time.Duration) (time.Time, error) {
	var resp timerResponse
	err := c.call(ctx, http.MethodPost, "/v1/timer",
		timerRequest{Seconds: int(d / time.Second)}, &resp)
	if err != nil {
		return time.Time{}, err
	}

	if resp.EndsAt == nil {
		return time.Time{}, fmt.Errorf("server response missing end instant")
	}

	return *resp.EndsAt, nil
}

// TimerRemaining reports the countdown's remaining duration.
func (c *Client) TimerRemaining(ctx context.Context) (time.Duration, error) {
	var resp timerResponse
	if err := c.call(ctx, http.MethodGet, "/v1/timer", nil, &resp); err != nil {
		return 0, err
	}

	return time.Duration(resp.RemainingSeconds) * time.Second, nil
}

// ClearTimer stops the countdown.
func (c *Client) ClearTimer(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/v1/timer", nil, nil)
}

// call performs one bounded JSON round trip. A non-2xx status becomes an
// error carrying the server's description.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var failure errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, failure.Error)
		}

		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

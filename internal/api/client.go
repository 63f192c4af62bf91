package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tridigitals/ispmanagement-sub005/internal/errors"
)

// DefaultTimeout is the per-request timeout when none is configured.
const DefaultTimeout = 8 * time.Second

// Client talks to the ISP management REST API over HTTP.
// It implements Service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the management API at baseURL.
// token is sent as a bearer token on every request; it may be empty for
// unauthenticated deployments (e.g. the local mock server).
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListDevices returns all devices known to the registry.
func (c *Client) ListDevices(ctx context.Context) ([]DeviceSummary, error) {
	var devices []DeviceSummary
	if err := c.getJSON(ctx, "/api/devices", &devices); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to list devices",
			"Check the api.url setting and that the management API is running")
	}
	return devices, nil
}

// FetchCounters returns current byte counters for the named interfaces on
// one device. Unknown interface names are omitted from the result, not
// reported as errors.
func (c *Client) FetchCounters(ctx context.Context, deviceID string, ifaceNames []string) ([]InterfaceCounters, error) {
	path := fmt.Sprintf("/api/devices/%s/counters?interfaces=%s",
		url.PathEscape(deviceID),
		url.QueryEscape(strings.Join(ifaceNames, ",")))

	var counters []InterfaceCounters
	if err := c.getJSON(ctx, path, &counters); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Failed to fetch counters for device %s", deviceID), "")
	}
	return counters, nil
}

// ListInterfaces returns the interfaces a device exposes.
func (c *Client) ListInterfaces(ctx context.Context, deviceID string) ([]InterfaceInfo, error) {
	path := fmt.Sprintf("/api/devices/%s/interfaces", url.PathEscape(deviceID))

	var ifaces []InterfaceInfo
	if err := c.getJSON(ctx, path, &ifaces); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Failed to list interfaces for device %s", deviceID),
			"The device may be offline or removed from the registry")
	}
	return ifaces, nil
}

// settingPayload is the wire shape of a settings-store entry.
type settingPayload struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// Get reads one key from the settings store. A key that has never been
// written yields found=false and no error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	path := "/api/settings/" + url.PathEscape(key)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, errors.WrapWithCode(err, errors.ErrStore,
			"Failed to read from settings store", "")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, errors.New(errors.ErrStore,
			fmt.Sprintf("Settings store returned HTTP %d for key %q", resp.StatusCode, key), "")
	}

	var payload settingPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Settings store returned malformed JSON for key %q", key), "")
	}
	return payload.Value, true, nil
}

// Set writes one key to the settings store.
func (c *Client) Set(ctx context.Context, key, value, description string) error {
	path := "/api/settings/" + url.PathEscape(key)

	body, err := json.Marshal(settingPayload{Key: key, Value: value, Description: description})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPut, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Failed to write to settings store", "")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // Drain for connection reuse

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.New(errors.ErrStore,
			fmt.Sprintf("Settings store returned HTTP %d for key %q", resp.StatusCode, key), "")
	}
	return nil
}

// newRequest builds a request with the base URL and auth header applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// getJSON performs a GET and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

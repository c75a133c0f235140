package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finlow/switchbridge/internal/infrastructure/config"
	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

const requestTimeout = 15 * time.Second

// Client talks to the vendor cloud API on behalf of all devices.
//
// Thread Safety:
//   - All methods are safe for concurrent use; the underlying
//     http.Client handles connection pooling.
type Client struct {
	baseURL string
	token   string
	secret  string
	http    *http.Client
	logger  *logging.Logger
}

// New creates a cloud API client from the configured credentials.
//
// The client is usable immediately; there is no connect step. Callers
// that may run without cloud credentials should check Available before
// issuing requests.
func New(creds config.Credentials, logger *logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(creds.BaseURL, "/"),
		token:   creds.Token,
		secret:  creds.Secret,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger.With("component", "openapi"),
	}
}

// Available reports whether credentials are configured.
func (c *Client) Available() bool {
	return c.token != "" && c.secret != ""
}

// DeviceStatus fetches the current status of a device.
//
// Parameters:
//   - ctx: Cancellation context
//   - deviceID: Vendor device identifier
//
// Returns:
//   - *DeviceStatus: Decoded status body
//   - int: Vendor status code from the response envelope
//   - error: ErrMissingCredentials, ErrRequestFailed, or ErrBadResponse
func (c *Client) DeviceStatus(ctx context.Context, deviceID string) (*DeviceStatus, int, error) {
	if !c.Available() {
		return nil, 0, ErrMissingCredentials
	}

	url := fmt.Sprintf("%s/devices/%s/status", c.baseURL, deviceID)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	var status DeviceStatus
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &status); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}

	c.logger.Debug("device status fetched",
		"device", deviceID,
		"status_code", resp.StatusCode)

	return &status, resp.StatusCode, nil
}

// SendCommand posts a command to a device.
//
// Returns the vendor status code from the response envelope. The caller
// interprets the code; a non-success code is not an error here.
func (c *Client) SendCommand(ctx context.Context, deviceID string, cmd Command) (int, error) {
	if !c.Available() {
		return 0, ErrMissingCredentials
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return 0, fmt.Errorf("openapi: encode command: %w", err)
	}

	url := fmt.Sprintf("%s/devices/%s/commands", c.baseURL, deviceID)
	resp, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("command sent",
		"device", deviceID,
		"command", cmd.Command,
		"parameter", cmd.Parameter,
		"status_code", resp.StatusCode)

	return resp.StatusCode, nil
}

// do issues a signed request and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	auth := signRequest(c.token, c.secret)
	req.Header.Set("Authorization", auth.Authorization)
	req.Header.Set("sign", auth.Sign)
	req.Header.Set("nonce", auth.Nonce)
	req.Header.Set("t", auth.Timestamp)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return &resp, nil
}

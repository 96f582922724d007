package webappclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/gateway"
	"github.com/jakechorley/consult-hub/pkg/core/model"
)

const (
	cacheBustParam = "_t"
	// The macro parses postData.contents itself
	writeContentType = "text/plain;charset=utf-8"
	maxPayloadBytes  = 10 << 20
)

// Client talks to the spreadsheet macro web app
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock overrides the clock used for cache-busting parameters
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client for the web app deployed at endpoint.
// The default HTTP client follows redirects, which the macro host always issues.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse web app url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("web app url must be http or https, got %q", endpoint)
	}

	c := &Client{
		endpoint:   u,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchAll reads every request from the remote store, bypassing intermediate caches
func (c *Client) FetchAll(ctx context.Context) ([]model.ConsultationRequest, error) {
	u := *c.endpoint
	q := u.Query()
	q.Set(cacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", gateway.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, fmt.Errorf("%w: status %d", gateway.ErrRemoteUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", gateway.ErrRemoteUnavailable, err)
	}

	records, skipped, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrRemoteUnavailable, err)
	}
	if skipped > 0 {
		c.logger.Warn("Skipped malformed rows in remote payload", zap.Int("skipped", skipped))
	}

	c.logger.Debug("Fetched requests from web app", zap.Int("count", len(records)))
	return records, nil
}

type writeBody struct {
	Action gateway.Action            `json:"action"`
	Data   model.ConsultationRequest `json:"data"`
}

// Upsert sends an ADD or UPDATE to the web app.
// The response is drained and ignored: the macro's reply says nothing reliable about
// whether the row was written, so true only means the request went out.
func (c *Client) Upsert(ctx context.Context, action gateway.Action, request model.ConsultationRequest) bool {
	body, err := json.Marshal(writeBody{Action: action, Data: request})
	if err != nil {
		c.logger.Error("Failed to encode write", zap.String("action", string(action)), zap.String("id", request.ID), zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create write request", zap.String("action", string(action)), zap.String("id", request.ID), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", writeContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send write", zap.String("action", string(action)), zap.String("id", request.ID), zap.Error(err))
		return false
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
	resp.Body.Close()

	c.logger.Debug("Write dispatched",
		zap.String("action", string(action)),
		zap.String("id", request.ID),
		zap.Int("http_status", resp.StatusCode))
	return true
}

var _ gateway.Gateway = (*Client)(nil)

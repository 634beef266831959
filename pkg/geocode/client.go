package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/metrics"
)

const (
	defaultBaseURL           = "https://nominatim.openstreetmap.org"
	defaultUserAgent         = "ecosort-backend/1.0"
	errorBodyReadLimit int64 = 1024
)

// Client wraps the Nominatim search API used to turn free-text
// addresses into coordinates.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	metrics    *metrics.AdapterMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured geocoding base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithUserAgent overrides the User-Agent sent with each request.
// Nominatim's usage policy requires an identifying agent string.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(agent)
		if trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithMetrics attaches adapter call metrics.
func WithMetrics(m *metrics.AdapterMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the geocoding client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// Coordinates is the latitude/longitude pair for a resolved address.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Resolve geocodes a free-text address. It returns (nil, nil) when the
// provider has no candidates for the query, so callers can persist a
// profile without coordinates rather than fail the request.
func (c *Client) Resolve(ctx context.Context, address string) (*Coordinates, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "geocoding client not configured")
	}
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	start := time.Now()
	coords, err := c.resolve(ctx, trimmed)
	c.metrics.ObserveDuration("geocode", time.Since(start))
	if err != nil {
		c.metrics.IncFailure("geocode")
		return nil, err
	}
	c.metrics.IncSuccess("geocode")
	return coords, nil
}

func (c *Client) resolve(ctx context.Context, trimmed string) (*Coordinates, error) {
	query := url.Values{}
	query.Set("q", trimmed)
	query.Set("format", "json")
	query.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(c.baseURL, "/"), query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build geocode request")
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var candidates []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse geocode latitude")
	}
	lng, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse geocode longitude")
	}

	return &Coordinates{Latitude: lat, Longitude: lng}, nil
}

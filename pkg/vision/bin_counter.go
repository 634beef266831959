package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/metrics"
)

const errorBodyReadLimit int64 = 1024

// BinCounter calls the hosted bin-detection model. Given the URL of a
// front-view photo it returns how many waste bins the model sees.
type BinCounter struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	metrics    *metrics.AdapterMetrics
}

// BinCounterOption configures optional BinCounter behavior.
type BinCounterOption func(*BinCounter)

// WithBinCounterHTTPClient overrides the default HTTP client.
func WithBinCounterHTTPClient(client *http.Client) BinCounterOption {
	return func(c *BinCounter) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBinCounterAPIKey sets the key sent with each request.
func WithBinCounterAPIKey(key string) BinCounterOption {
	return func(c *BinCounter) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithBinCounterMetrics attaches adapter call metrics.
func WithBinCounterMetrics(m *metrics.AdapterMetrics) BinCounterOption {
	return func(c *BinCounter) {
		c.metrics = m
	}
}

// NewBinCounter builds the bin-detection client for the given endpoint.
func NewBinCounter(endpoint string, timeout time.Duration, opts ...BinCounterOption) (*BinCounter, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("bin counter endpoint is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &BinCounter{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Count asks the detection model how many bins appear in the image.
// Any transport failure, non-200 status, or empty model output surfaces
// as a dependency error so callers can refuse the upload.
func (c *BinCounter) Count(ctx context.Context, imageURL string) (int, error) {
	if c == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "bin counter client not configured")
	}
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "image URL is required")
	}

	start := time.Now()
	count, err := c.count(ctx, trimmed)
	c.metrics.ObserveDuration("bin_counter", time.Since(start))
	if err != nil {
		c.metrics.IncFailure("bin_counter")
		return 0, err
	}
	c.metrics.IncSuccess("bin_counter")
	return count, nil
}

func (c *BinCounter) count(ctx context.Context, trimmed string) (int, error) {
	payload, err := json.Marshal(map[string]string{"image_url": trimmed})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal bin count request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build bin count request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute bin count request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "bin count request failed")
	}

	var apiResp struct {
		Count *int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode bin count response")
	}

	if apiResp.Count == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "bin counter returned no count")
	}
	if *apiResp.Count < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "bin counter returned a negative count")
	}

	return *apiResp.Count, nil
}

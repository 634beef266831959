package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/metrics"
)

// Classifier calls the hosted waste-classification model. Given the URL
// of a top-view photo it returns the distinct waste labels detected in
// the image, filtered by a minimum confidence threshold.
type Classifier struct {
	httpClient    *http.Client
	endpoint      string
	apiKey        string
	minConfidence float64
	metrics       *metrics.AdapterMetrics
}

// ClassifierOption configures optional Classifier behavior.
type ClassifierOption func(*Classifier)

// WithClassifierHTTPClient overrides the default HTTP client.
func WithClassifierHTTPClient(client *http.Client) ClassifierOption {
	return func(c *Classifier) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClassifierAPIKey sets the key sent with each request.
func WithClassifierAPIKey(key string) ClassifierOption {
	return func(c *Classifier) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithMinConfidence sets the confidence floor below which detections
// are discarded.
func WithMinConfidence(min float64) ClassifierOption {
	return func(c *Classifier) {
		if min > 0 {
			c.minConfidence = min
		}
	}
}

// WithClassifierMetrics attaches adapter call metrics.
func WithClassifierMetrics(m *metrics.AdapterMetrics) ClassifierOption {
	return func(c *Classifier) {
		c.metrics = m
	}
}

// NewClassifier builds the classification client for the given endpoint.
func NewClassifier(endpoint string, timeout time.Duration, opts ...ClassifierOption) (*Classifier, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("classifier endpoint is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Classifier{
		endpoint:      trimmed,
		httpClient:    &http.Client{Timeout: timeout},
		minConfidence: 0.4,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Classify returns the sorted, deduplicated label set detected in the
// image. An empty set is a dependency failure: the model saw nothing it
// could name, so the caller cannot validate the bin.
func (c *Classifier) Classify(ctx context.Context, imageURL string) ([]string, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "classifier client not configured")
	}
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image URL is required")
	}

	start := time.Now()
	labels, err := c.classify(ctx, trimmed)
	c.metrics.ObserveDuration("classifier", time.Since(start))
	if err != nil {
		c.metrics.IncFailure("classifier")
		return nil, err
	}
	c.metrics.IncSuccess("classifier")
	return labels, nil
}

func (c *Classifier) classify(ctx context.Context, trimmed string) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"image_url": trimmed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal classify request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build classify request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute classify request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "classify request failed")
	}

	var apiResp struct {
		Predictions []struct {
			Label      string  `json:"label"`
			Confidence float64 `json:"confidence"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode classify response")
	}

	seen := make(map[string]struct{}, len(apiResp.Predictions))
	labels := make([]string, 0, len(apiResp.Predictions))
	for _, p := range apiResp.Predictions {
		label := strings.ToLower(strings.TrimSpace(p.Label))
		if label == "" || p.Confidence < c.minConfidence {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "classifier returned no confident labels")
	}

	sort.Strings(labels)
	return labels, nil
}

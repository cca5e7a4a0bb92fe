// Package inference is the client of the standalone prediction service
// that accepts a JSON payload on POST /predict.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/monitor"
)

// PredictPath is the prediction endpoint
const PredictPath = "/predict"

// StatusError is a non-2xx answer; Body is the raw response text
type StatusError struct {
	StatusCode int
	Body       string
}

// Error renders "Error <status>: <text>"
func (e *StatusError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Body)
}

// Client posts prediction requests
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	log      *logger.Logger
	recorder *monitor.Recorder
}

// New creates a client for baseURL. A zero timeout leaves only the
// caller's context as deadline.
func New(baseURL string, timeout time.Duration, log *logger.Logger, recorder *monitor.Recorder) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("inference: invalid base URL %q", baseURL)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: timeout},
		log:      log.WithComponent("inference"),
		recorder: recorder,
	}, nil
}

type predictRequest struct {
	Data json.RawMessage `json:"data"`
}

// Predict sends {"data": data} and returns the decoded JSON response
func (c *Client) Predict(ctx context.Context, data json.RawMessage) (result any, err error) {
	start := time.Now()
	defer func() {
		c.recorder.ObserveRequest(http.MethodPost, PredictPath, err, time.Since(start))
		if err != nil {
			c.log.ErrorWithFields("prediction failed", []logger.Field{logger.Error(err)})
		}
	}()

	if !json.Valid(data) {
		return nil, fmt.Errorf("inference: payload is not valid JSON")
	}
	body, err := json.Marshal(predictRequest{Data: data})
	if err != nil {
		return nil, fmt.Errorf("inference: encoding request: %w", err)
	}

	endpoint := c.baseURL.JoinPath(PredictPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("inference: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("inference: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("inference: decoding response: %w", err)
	}
	return result, nil
}

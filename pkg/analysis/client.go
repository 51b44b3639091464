package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"session-insight-be/internal/pkg/apperror"
)

const (
	analyzePath    = "/api/analyze"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client calls the external analysis service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:5002"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + analyzePath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analyze posts text to the service. No retries are attempted.
func (c *Client) Analyze(ctx context.Context, text string) (*Result, error) {
	jsonData, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, apperror.Upstream(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperror.Upstream(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Upstream(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.Upstream(fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.Upstream(fmt.Errorf("status %d", resp.StatusCode))
	}

	var result Result
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, apperror.Upstream(fmt.Errorf("decode response: %w", err))
	}
	if result.TopPattern == "" {
		return nil, apperror.Upstream(fmt.Errorf("response has no topPattern"))
	}

	return &result, nil
}

package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

// ErrInvalidJSON is returned when an upstream answers 2xx with a body that is not JSON
var ErrInvalidJSON = errors.New("upstream returned invalid JSON")

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

// UpstreamClient issues outbound requests to downloader APIs and file hosts
type UpstreamClient struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewUpstreamClient creates a new upstream client
func NewUpstreamClient(config *domain.UpstreamConfig, logger *zap.Logger) *UpstreamClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = domain.DefaultUserAgent
	}

	return &UpstreamClient{
		httpClient:   &http.Client{Timeout: config.Timeout},
		userAgent:    userAgent,
		maxBodyBytes: config.MaxBodyBytes,
		logger:       logger,
	}
}

// WithTimeout returns a copy of the client using a different request timeout.
// Zero disables the client timeout and leaves deadlines to the context.
func (c *UpstreamClient) WithTimeout(timeout time.Duration) *UpstreamClient {
	clone := *c
	clone.httpClient = &http.Client{
		Timeout:   timeout,
		Transport: c.httpClient.Transport,
	}
	return &clone
}

// NewRequest creates an outbound request carrying the browser-like User-Agent
func (c *UpstreamClient) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// Do sends a request
func (c *UpstreamClient) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// GetJSON fetches url and parses the body as JSON
func (c *UpstreamClient) GetJSON(ctx context.Context, url string) (gjson.Result, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("request %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Upstream responded",
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &StatusError{URL: req.URL.Host + req.URL.Path, StatusCode: resp.StatusCode}
	}

	body, err := c.readBody(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.ParseBytes(body), nil
}

// Open issues a GET and returns the response for streaming. The caller closes the body.
func (c *UpstreamClient) Open(ctx context.Context, url string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Host, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: req.URL.Host + req.URL.Path, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// readBody reads the whole body, bounded by maxBodyBytes when set
func (c *UpstreamClient) readBody(r io.Reader) ([]byte, error) {
	if c.maxBodyBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
	}
	return body, nil
}

// Package backend provides a JSON-over-HTTP client for the wellness backend.
// It performs transport only: status interpretation belongs to the caller.
package backend

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
)

// MaxResponseSize bounds how much of a response body is read.
const MaxResponseSize = 1 << 20

// Response is a received backend response. Any status code is returned as a Response;
// only transport failures produce an error from Do.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client issues JSON requests against a base URL.
type Client struct {
	http           *http.Client
	baseURL        string
	requestTimeout time.Duration
}

// New creates a Client from cfg. A nil httpClient uses a client without its own
// timeout; deadlines come from the request context.
func New(cfg *Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:           httpClient,
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		requestTimeout: cfg.RequestTimeoutDuration(),
	}
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestTimeout returns the configured default timeout for non-classification calls.
func (c *Client) RequestTimeout() time.Duration {
	return c.requestTimeout
}

// Do sends a request to path (relative to the base URL). A non-nil body is encoded as JSON.
// An empty token omits the Authorization header. Cancelling ctx aborts the in-flight request.
func (c *Client) Do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	token string,
) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// Envelope is the backend's wrapper for list and create responses.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// DecodeData decodes a {"data": ...} envelope into T.
func DecodeData[T any](body []byte) (T, error) {
	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("decode envelope: %w", err)
	}
	return env.Data, nil
}

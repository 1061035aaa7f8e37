// Low-level HTTP client for the MyFoil REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"golang.org/x/time/rate"
)

// Client issues REST calls against the MyFoil server. It owns base URL
// joining, the client-side rate limit, optional replayed auth headers, and
// envelope decoding. All higher-level services share one Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	headers    map[string]string
	cookie     string
}

// ClientOpts configures a Client. Zero values fall back to sane defaults.
type ClientOpts struct {
	BaseURL           string
	HTTPClient        *http.Client
	RequestsPerSecond float64
	// Headers replayed on every request, typically parsed from a browser
	// cURL export for proxied servers.
	Headers *shared.CurlHeaders
}

// NewClient creates a Client for the given server.
func NewClient(opts ClientOpts) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8465"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 2),
	}
	if opts.Headers != nil {
		c.headers = opts.Headers.Headers
		c.cookie = opts.Headers.Cookie
	}
	return c
}

// Response is a raw API response with status and body.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// envelope is the server's optional response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// DecodeEnvelope decodes a response body into T, unwrapping the
// {code, success, data} envelope when present and accepting the raw
// payload otherwise. Decoding happens once, here, so callers never look at
// response shapes themselves.
func DecodeEnvelope[T any](body []byte) (T, error) {
	var out T

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out); err == nil {
			return out, nil
		}
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
	}
	return out, nil
}

// decodeInto is DecodeEnvelope plus the transport-status check shared by
// every typed endpoint wrapper.
func decodeInto[T any](resp *Response) (T, error) {
	var out T
	if !resp.OK() {
		return out, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return DecodeEnvelope[T](resp.Body)
}

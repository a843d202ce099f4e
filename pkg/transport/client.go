package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/gatelink-protocol/gatelink-go/pkg/version"
)

// DefaultTimeout bounds a single request/response exchange. Gateways answer
// login phases quickly; anything slower than this is a dead device.
const DefaultTimeout = 15 * time.Second

// MaxResponseSize caps how much of a response body is read. Gateway login
// responses are small XML documents.
const MaxResponseSize = 1 << 20

// Config configures an HTTPClient.
type Config struct {
	// BaseURL is the gateway root, e.g. "http://192.168.8.1".
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the underlying client. When nil a client with
	// a fresh cookie jar is created; the jar carries the gateway session
	// cookie across phases.
	HTTPClient *http.Client
}

// HTTPClient talks to a single gateway over HTTP with a shared cookie jar.
// It is safe for concurrent use, though a login attempt itself is strictly
// sequential.
type HTTPClient struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClient creates a transport for the gateway at config.BaseURL.
func NewHTTPClient(config Config) (*HTTPClient, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", config.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", config.BaseURL)
	}

	client := config.HTTPClient
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		base:    base,
		client:  client,
		timeout: timeout,
	}, nil
}

// Do issues a single request and reads the full response.
func (c *HTTPClient) Do(ctx context.Context, method, path string, header http.Header, body []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base.JoinPath(strings.TrimPrefix(path, "/"))

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	// Copy headers without canonicalization: the firmware expects the
	// verification token header name byte for byte.
	for name, values := range header {
		req.Header[name] = values
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.UserAgent())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}

// Package http is the HTTP shim: it performs one request per call through a
// platform request doer and hands the response body back as a lazy
// stream.Source. Transport and Install route go-git's smart-HTTP traffic
// through the shim.
//
// Request bodies are always collected into memory before sending; streaming
// uploads are not supported.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/stream"
)

// Doer performs a single HTTP round trip. *net/http.Client satisfies it.
type Doer interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

// Request describes one HTTP call.
type Request struct {
	// URL is the absolute request URL.
	URL string

	// Method defaults to GET.
	Method string

	// Headers are sent as given, one value per name.
	Headers map[string]string

	// Body is an optional chunk source. It is drained completely before the
	// request is sent.
	Body stream.Source
}

// Response is the outcome of a call.
type Response struct {
	// URL is the final URL after any redirects the doer followed.
	URL string

	Method        string
	StatusCode    int
	StatusMessage string

	// Headers keeps names as the doer returned them; repeated values are
	// joined with ", ".
	Headers map[string]string

	// Body yields the response bytes. Callers must drain or Close it.
	Body stream.Source
}

// Client is the HTTP shim.
type Client struct {
	doer      Doer
	logger    *slog.Logger
	buffered  bool
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithDoer sets the platform request doer. Defaults to a plain *http.Client
// without timeouts.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithLogger traces requests at debug level.
// If logger is nil, tracing is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBufferedResponses reads each response body fully before Request
// returns and exposes it as a single chunk.
func WithBufferedResponses() Option {
	return func(c *Client) {
		c.buffered = true
	}
}

// WithUserAgent sets the User-Agent sent when a request does not carry one.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates an HTTP shim.
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &nethttp.Client{}
	}
	return c
}

// Request performs exactly one network call. Redirects, retries and
// timeouts are whatever the doer does natively.
func (c *Client) Request(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = nethttp.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := stream.Collect(ctx, req.Body)
		if err != nil {
			return nil, fmt.Errorf("collect request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	hreq, err := nethttp.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for name, value := range req.Headers {
		hreq.Header.Set(name, value)
	}
	if c.userAgent != "" && hreq.Header.Get("User-Agent") == "" {
		hreq.Header.Set("User-Agent", c.userAgent)
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "http request", "method", method, "url", req.URL)
	}

	resp, err := c.doer.Do(hreq)
	if err != nil {
		if c.logger != nil {
			c.logger.DebugContext(ctx, "http request failed", "method", method, "url", req.URL, "error", err)
		}
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	out := &Response{
		URL:           req.URL,
		Method:        method,
		StatusCode:    resp.StatusCode,
		StatusMessage: statusMessage(resp),
		Headers:       flattenHeaders(resp.Header),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		out.URL = resp.Request.URL.String()
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "http response", "method", method, "url", out.URL, "status", resp.StatusCode)
	}

	switch {
	case resp.Body == nil || resp.Body == nethttp.NoBody:
		out.Body = stream.FromChunks()
	case c.buffered:
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		out.Body = stream.FromBytes(data)
	default:
		out.Body = stream.FromReader(resp.Body, 0)
	}
	return out, nil
}

// statusMessage returns the reason phrase of resp, e.g. "Not Found".
func statusMessage(resp *nethttp.Response) string {
	msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if msg == "" {
		return nethttp.StatusText(resp.StatusCode)
	}
	return msg
}

func flattenHeaders(h nethttp.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[name] = strings.Join(values, ", ")
	}
	return out
}

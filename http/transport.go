package http

import (
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	gitclient "github.com/go-git/go-git/v5/plumbing/transport/client"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/stream"
)

// Transport is an http.RoundTripper that sends every request through a
// Client.
type Transport struct {
	client *Client
}

var _ nethttp.RoundTripper = (*Transport)(nil)

// NewTransport wraps c as a RoundTripper. c's doer must not itself use the
// returned Transport.
func NewTransport(c *Client) *Transport {
	return &Transport{client: c}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	ctx := req.Context()

	r := Request{
		URL:     req.URL.String(),
		Method:  req.Method,
		Headers: make(map[string]string, len(req.Header)),
	}
	for name, values := range req.Header {
		r.Headers[name] = strings.Join(values, ", ")
	}
	if req.Body != nil && req.Body != nethttp.NoBody {
		r.Body = stream.FromReader(req.Body, 0)
	}

	resp, err := t.client.Request(ctx, r)
	if err != nil {
		return nil, err
	}

	header := make(nethttp.Header, len(resp.Headers))
	for name, value := range resp.Headers {
		header.Set(name, value)
	}
	return &nethttp.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, resp.StatusMessage),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          stream.NewReader(ctx, resp.Body),
		ContentLength: -1,
		Request:       effectiveRequest(req, resp.URL),
	}, nil
}

// effectiveRequest returns req, or a clone of it pointing at final when the
// doer followed redirects. go-git reads the response's request URL to move
// its endpoint after a redirected info/refs.
func effectiveRequest(req *nethttp.Request, final string) *nethttp.Request {
	if final == "" || final == req.URL.String() {
		return req
	}
	u, err := url.Parse(final)
	if err != nil {
		return req
	}
	out := req.Clone(req.Context())
	out.URL = u
	out.Host = u.Host
	return out
}

// Install registers c as go-git's transport for the http and https schemes.
// The registry is process-wide, so the last Install wins.
func Install(c *Client) {
	transport := githttp.NewClient(&nethttp.Client{Transport: NewTransport(c)})
	gitclient.InstallProtocol("http", transport)
	gitclient.InstallProtocol("https", transport)
}

package auth

import (
	"fmt"
	"net/url"
	"path"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// BasicProvider sends HTTP basic credentials over the smart-HTTP transport.
type BasicProvider struct {
	auth *http.BasicAuth

	// AllowedHosts restricts credentials to hosts matching one of these
	// path.Match patterns, e.g. "*.github.com". Empty allows every host.
	AllowedHosts []string

	// AllowInsecure permits sending credentials over plain http.
	AllowInsecure bool
}

var _ Provider = (*BasicProvider)(nil)

// NewBasicProvider creates a provider for username and password. A password
// given without a username is sent as the username, which is how most hosts
// accept bare tokens.
func NewBasicProvider(username, password string) *BasicProvider {
	if username == "" && password != "" {
		username, password = password, ""
	}
	return &BasicProvider{auth: &http.BasicAuth{Username: username, Password: password}}
}

// NewTokenProvider creates a provider for an access token.
func NewTokenProvider(token string) *BasicProvider {
	return &BasicProvider{auth: &http.BasicAuth{Username: "token", Password: token}}
}

// WithAllowedHosts sets AllowedHosts and returns p.
func (p *BasicProvider) WithAllowedHosts(hosts ...string) *BasicProvider {
	p.AllowedHosts = hosts
	return p
}

// Method implements Provider. Local remotes (file:// and bare paths) never
// get credentials.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *BasicProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch ep.Protocol {
	case "https":
	case "http":
		if !p.AllowInsecure {
			return nil, fmt.Errorf("refusing to send credentials over http to %s", ep.Host)
		}
	case "file":
		return nil, nil
	default:
		return nil, fmt.Errorf("basic auth does not support %s:// remotes", ep.Protocol)
	}

	if len(p.AllowedHosts) > 0 && !p.hostAllowed(ep.Host) {
		return nil, nil
	}
	return p.auth, nil
}

func (p *BasicProvider) hostAllowed(host string) bool {
	for _, pattern := range p.AllowedHosts {
		if ok, _ := path.Match(pattern, host); ok {
			return true
		}
	}
	return false
}

// Redact strips userinfo from raw so it can be logged.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}

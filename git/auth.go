package git

import (
	"github.com/input-output-hk/catalyst-forge-libs/gitshim/git/internal/auth"
)

// NewBasicAuth returns an AuthProvider that sends username and password to
// https remotes. When allowedHosts is non-empty, only hosts matching one of
// the glob patterns receive credentials.
//
//nolint:ireturn // AuthProvider is the option type.
func NewBasicAuth(username, password string, allowedHosts ...string) AuthProvider {
	return auth.NewBasicProvider(username, password).WithAllowedHosts(allowedHosts...)
}

// NewTokenAuth returns an AuthProvider for a personal access token.
//
//nolint:ireturn // AuthProvider is the option type.
func NewTokenAuth(token string, allowedHosts ...string) AuthProvider {
	return auth.NewTokenProvider(token).WithAllowedHosts(allowedHosts...)
}

// Package auth resolves go-git credentials per remote URL.
package auth

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Provider returns the transport.AuthMethod for a remote URL. A nil method
// with a nil error means the remote is reached anonymously.
type Provider interface {
	Method(remoteURL string) (transport.AuthMethod, error)
}

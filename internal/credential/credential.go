// Package credential holds the provider access key shared by all request
// handlers. The key is fixed at process start and only ever read.
package credential

import (
	"errors"
	"strings"
)

// ErrMissing is returned when no provider key is configured.
var ErrMissing = errors.New("OPENAI_API_KEY is not set")

// Remediation is the client-facing text for ErrMissing.
const Remediation = "The server is missing OPENAI_API_KEY. Add it to the server environment (or a .env file next to the server) and restart the server."

// Source resolves the provider key for one request.
type Source interface {
	APIKey() (string, error)
}

// Static is a Source backed by a value read once from configuration.
type Static string

func (s Static) APIKey() (string, error) {
	key := strings.TrimSpace(string(s))
	if key == "" {
		return "", ErrMissing
	}
	return key, nil
}

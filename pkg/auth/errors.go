package auth

import (
	"errors"
	"fmt"
)

// ErrNoRequestToken is returned when an access token is requested before a
// request token was obtained.
var ErrNoRequestToken = errors.New("no request token: obtain a request token first")

// Handshake phases.
const (
	PhaseRequestToken = "request token"
	PhaseAccessToken  = "access token"
)

// HandshakeError reports a token endpoint response that could not be used.
type HandshakeError struct {
	Phase  string
	Status int
	Body   string
	// Reason is set when the status was fine but the body was not.
	Reason string
}

// Error implements the error interface.
func (e *HandshakeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s response: %s (body: %q)", e.Phase, e.Reason, e.Body)
	}
	return fmt.Sprintf("invalid %s response: %s", e.Phase, e.Body)
}

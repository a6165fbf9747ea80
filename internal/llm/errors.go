package llm

import (
	"errors"
	"fmt"
)

// ErrAuthenticationMissing is returned by client constructors when no
// credential was passed and none could be resolved. Supply a credential and
// construct the client again.
var ErrAuthenticationMissing = errors.New("authentication missing")

// errNoTransport is returned by client constructors given a nil transport.
var errNoTransport = errors.New("transport is required")

// TransportError wraps a failure returned by a transport with the provider and
// model in use. It is never retried; the underlying error is kept intact for
// errors.Is and errors.As.
type TransportError struct {
	Provider Provider
	Model    string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsTransportError reports whether err wraps a TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

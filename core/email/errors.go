package email

import (
	"errors"
	"fmt"
	"strconv"
)

// Error variables define email operation failures that can be wrapped with
// detailed context using errors.Join() for comprehensive error reporting.
var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrInvalidConfig     = errors.New("invalid email configuration")
	ErrInvalidParams     = errors.New("invalid email parameters")
)

// Failure kinds carried by *Error. Transport kinds also match ErrFailedToSendEmail.
var (
	ErrTemplate         = errors.New("template error")
	ErrAuthentication   = fmt.Errorf("%w: authentication failed", ErrFailedToSendEmail)
	ErrConnection       = fmt.Errorf("%w: connection failed", ErrFailedToSendEmail)
	ErrProtocol         = fmt.Errorf("%w: smtp protocol error", ErrFailedToSendEmail)
	ErrTLS              = fmt.Errorf("%w: tls handshake failed", ErrFailedToSendEmail)
	ErrUnknownTransport = fmt.Errorf("%w: unexpected transport error", ErrFailedToSendEmail)
)

// Error is a classified email failure. Server and Port are set for failures that
// happened while talking to a mail server.
type Error struct {
	Kind    error
	Message string
	Server  string
	Port    int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ContextField is a single key/value pair of error context.
type ContextField struct {
	Key   string
	Value string
}

// Context returns the server context of the failure, empty when there is none.
func (e *Error) Context() []ContextField {
	if e.Server == "" {
		return nil
	}
	return []ContextField{
		{Key: "server", Value: e.Server},
		{Key: "port", Value: strconv.Itoa(e.Port)},
	}
}

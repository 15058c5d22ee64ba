package email

import "context"

// Sender submits a rendered message. Implementations classify failures as *Error.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// InsecureSender is implemented by senders that may transmit credentials in clear text.
// Callers must obtain an explicit risk acknowledgment before sending when Insecure reports true.
type InsecureSender interface {
	Sender
	Insecure() bool
}

// IsInsecure reports whether s transmits credentials unencrypted.
func IsInsecure(s Sender) bool {
	is, ok := s.(InsecureSender)
	return ok && is.Insecure()
}

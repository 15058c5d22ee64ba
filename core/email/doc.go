// Package email defines the rendered message, its addressing envelope, the Sender
// contract and the classified failures shared by every delivery backend.
//
// Messages are composed with gomail so that display names, Reply-To and Cc headers
// are encoded correctly:
//
//	env := email.Envelope{
//		FromName:  "Jane Doe",
//		FromEmail: "jane@example.com",
//		To:        "copyright@github.com",
//	}
//	raw, err := email.Encode(env, email.Message{Subject: "DMCA Takedown Notice from Jane Doe", Body: body})
//
// # Error Handling
//
// Every failure returned by a Sender is an *Error whose Kind is one of the package
// sentinels, so callers can branch with errors.Is:
//
//	switch {
//	case errors.Is(err, email.ErrAuthentication):
//	case errors.Is(err, email.ErrConnection):
//	case errors.Is(err, email.ErrTLS):
//	case errors.Is(err, email.ErrProtocol):
//	case errors.Is(err, email.ErrInvalidConfig):
//	}
//
// Transport kinds also match ErrFailedToSendEmail. *Error.Context returns the
// server and port involved, when there was one.
//
// # Development Mode
//
// DevSender writes each message as an .eml file with a JSON metadata sidecar
// instead of delivering it:
//
//	sender := email.NewDevSender("./outbox", env)
//	err := sender.Send(ctx, msg)
//
//	// Files created:
//	// ./outbox/2024_01_15_143052_dmca_takedown_notice_from_jane_doe.eml
//	// ./outbox/2024_01_15_143052_dmca_takedown_notice_from_jane_doe.json
package email

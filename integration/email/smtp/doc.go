// Package smtp implements email.Sender on top of net/smtp.
//
// Three connection security modes are supported: SSL (implicit TLS from the
// first byte), STARTTLS (plaintext connect upgraded before authentication) and
// NONE (no encryption). Every failure is returned as an *email.Error whose Kind
// tells the stage that failed:
//
//	email.ErrConnection        dial failed or the server greeting was negative
//	email.ErrTLS               handshake failed or STARTTLS is unavailable
//	email.ErrAuthentication    the server rejected the credentials
//	email.ErrProtocol          any other SMTP-level refusal
//	email.ErrUnknownTransport  composition or cancellation failures
//
// Basic usage:
//
//	client, err := smtp.New(cfg, smtp.WithLogger(log))
//	if err != nil {
//		return err // wraps email.ErrInvalidConfig
//	}
//	if err := client.Send(ctx, msg); err != nil {
//		var mailErr *email.Error
//		if errors.As(err, &mailErr) {
//			// mailErr.Context() carries server and port
//		}
//	}
//
// Config is loadable from the environment with core/config: SMTP_SERVER,
// SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_CONNECTION_SECURITY and
// SMTP_TIMEOUT, plus the envelope variables of email.Envelope.
package smtp

package email

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/dmitrymomot/takedown/core/validator"
)

// Message is a rendered email: a single-line subject and a plain-text body.
type Message struct {
	Subject string
	Body    string
}

// Validate checks that the message can be submitted.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("%w: subject must be a single line", ErrInvalidParams)
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// Envelope holds the addressing shared by every message of a run.
type Envelope struct {
	FromName  string `env:"FROM_NAME,required" validate:"required" sanitize:"single_line"`
	FromEmail string `env:"FROM_EMAIL,required" validate:"required;email"`
	ReplyTo   string `env:"REPLY_TO" validate:"email"`
	CC        string `env:"CC_EMAIL" validate:"email"`
	To        string `env:"TO_EMAIL" envDefault:"copyright@github.com" validate:"required;email"`
}

// Validate checks the addresses of the envelope.
func (e Envelope) Validate() error {
	if err := validator.ValidateStruct(&e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Recipients returns the SMTP envelope recipients: To followed by the optional CC.
func (e Envelope) Recipients() []string {
	if e.CC == "" {
		return []string{e.To}
	}
	return []string{e.To, e.CC}
}

// Compose builds the MIME message for msg addressed per env.
func Compose(env Envelope, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", env.FromEmail, env.FromName)
	m.SetHeader("To", env.To)
	m.SetHeader("Subject", msg.Subject)
	if env.ReplyTo != "" {
		m.SetHeader("Reply-To", env.ReplyTo)
	}
	if env.CC != "" {
		m.SetHeader("Cc", env.CC)
	}
	m.SetBody("text/plain", msg.Body)
	return m
}

// Encode serializes the composed message to its RFC 5322 wire form.
func Encode(env Envelope, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Compose(env, msg).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package smtp

import (
	"time"

	"github.com/dmitrymomot/takedown/core/email"
)

// Connection security modes.
const (
	SecuritySSL      = "SSL"      // implicit TLS from connect, typically port 465
	SecuritySTARTTLS = "STARTTLS" // plaintext connect upgraded to TLS, typically port 587
	SecurityNone     = "NONE"     // no encryption, typically port 25
)

// Config holds SMTP server configuration.
type Config struct {
	Server             string        `env:"SMTP_SERVER,required"`
	Port               int           `env:"SMTP_PORT" envDefault:"465"`
	Username           string        `env:"SMTP_USERNAME,required"`
	Password           string        `env:"SMTP_PASSWORD,required"`
	ConnectionSecurity string        `env:"SMTP_CONNECTION_SECURITY" envDefault:"SSL"`
	Timeout            time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
	Envelope           email.Envelope
}

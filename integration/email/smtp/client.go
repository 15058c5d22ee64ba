package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/dmitrymomot/takedown/core/email"
	"github.com/dmitrymomot/takedown/core/logger"
	"github.com/dmitrymomot/takedown/core/validator"
)

const localName = "localhost"

// Client implements email.Sender over SMTP with one of three connection security
// modes. Each Send opens its own session; nothing is retried.
type Client struct {
	config    Config
	tlsConfig *tls.Config
	dialer    *net.Dialer
	log       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTLSConfig overrides the TLS settings used for SSL and STARTTLS.
// ServerName defaults to the configured server when left empty.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = cfg.Clone()
	}
}

// WithLogger sets the logger used for connection progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates an SMTP-backed sender.
// Configuration problems, including an unknown security mode, fail with
// email.ErrInvalidConfig before any connection is attempted.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	c := &Client{
		config: cfg,
		dialer: &net.Dialer{Timeout: cfg.Timeout},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.tlsConfig == nil {
		c.tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if c.tlsConfig.ServerName == "" {
		c.tlsConfig.ServerName = cfg.Server
	}

	return c, nil
}

// MustNewClient creates an SMTP client that panics on invalid config.
func MustNewClient(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

func validateConfig(cfg Config) error {
	type checked struct {
		Server   string `validate:"required"`
		Port     int    `validate:"min:1;max:65535"`
		Username string `validate:"required"`
		Password string `validate:"required"`
		Security string `validate:"in:SSL,STARTTLS,NONE"`
		Envelope email.Envelope
	}

	v := checked{
		Server:   cfg.Server,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Security: cfg.ConnectionSecurity,
		Envelope: cfg.Envelope,
	}
	if err := validator.ValidateStruct(&v); err != nil {
		return fmt.Errorf("%w: %v", email.ErrInvalidConfig, err)
	}
	return nil
}

// Insecure reports whether credentials and content travel unencrypted.
func (c *Client) Insecure() bool {
	return c.config.ConnectionSecurity == SecurityNone
}

// Send submits msg to the configured recipients.
func (c *Client) Send(ctx context.Context, msg email.Message) error {
	if err := ctx.Err(); err != nil {
		return c.fail(email.ErrUnknownTransport, "send cancelled", err)
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	data, err := email.Encode(c.config.Envelope, msg)
	if err != nil {
		return c.fail(email.ErrUnknownTransport, "error composing email", err)
	}

	addr := net.JoinHostPort(c.config.Server, strconv.Itoa(c.config.Port))
	start := time.Now()
	c.log.InfoContext(ctx, "connecting to smtp server",
		logger.Server(c.config.Server),
		logger.Port(c.config.Port),
		logger.Mode(c.config.ConnectionSecurity),
	)

	var client *smtp.Client
	switch c.config.ConnectionSecurity {
	case SecuritySSL:
		client, err = c.connectSSL(ctx, addr)
	case SecuritySTARTTLS:
		client, err = c.connectSTARTTLS(ctx, addr)
	case SecurityNone:
		c.log.WarnContext(ctx, "using plain smtp connection, credentials will be sent in clear text")
		client, err = c.connectPlain(ctx, addr)
	default:
		return fmt.Errorf("%w: unknown connection security %q", email.ErrInvalidConfig, c.config.ConnectionSecurity)
	}
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := c.authenticate(client); err != nil {
		return err
	}
	if err := c.submit(client, data); err != nil {
		return err
	}

	c.log.InfoContext(ctx, "email sent", logger.Elapsed(start))
	return nil
}

// connectSSL opens an implicit-TLS session.
func (c *Client) connectSSL(ctx context.Context, addr string) (*smtp.Client, error) {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := tls.Client(conn, c.tlsConfig)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, c.tlsFailure(err)
	}

	return c.open(tlsConn)
}

// connectSTARTTLS opens a plaintext session, announces itself, upgrades to TLS
// and announces itself again.
func (c *Client) connectSTARTTLS(ctx context.Context, addr string) (*smtp.Client, error) {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return nil, err
	}

	client, err := c.open(conn)
	if err != nil {
		return nil, err
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, c.tlsFailure(errors.New("server does not advertise STARTTLS"))
	}
	// StartTLS re-sends EHLO over the encrypted channel, which is where the
	// handshake actually happens.
	if err := client.StartTLS(c.tlsConfig); err != nil {
		_ = client.Close()
		return nil, c.tlsFailure(err)
	}

	return client, nil
}

// connectPlain opens an unencrypted session.
func (c *Client) connectPlain(ctx context.Context, addr string) (*smtp.Client, error) {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return c.open(conn)
}

func (c *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, c.fail(email.ErrConnection, "connection to SMTP server failed (check SMTP_SERVER and SMTP_PORT)", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}

// open reads the server greeting and sends EHLO. A missing or negative greeting
// is a connection failure; a rejected EHLO is a protocol failure.
func (c *Client) open(conn net.Conn) (*smtp.Client, error) {
	client, err := smtp.NewClient(conn, c.config.Server)
	if err != nil {
		_ = conn.Close()
		return nil, c.fail(email.ErrConnection, "connection to SMTP server failed (check SMTP_SERVER and SMTP_PORT)", err)
	}
	if err := client.Hello(localName); err != nil {
		_ = client.Close()
		return nil, c.fail(email.ErrProtocol, "SMTP error", err)
	}
	return client, nil
}

func (c *Client) authenticate(client *smtp.Client) error {
	ok, advertised := client.Extension("AUTH")
	if !ok {
		return c.fail(email.ErrProtocol, "SMTP error", errors.New("SMTP AUTH extension not supported by server"))
	}

	auth := c.selectAuth(advertised)
	if auth == nil {
		return c.fail(email.ErrProtocol, "SMTP error", fmt.Errorf("no supported authentication mechanism in %q", advertised))
	}

	if err := client.Auth(auth); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) {
			return c.fail(email.ErrAuthentication, "authentication failed (check SMTP_USERNAME and SMTP_PASSWORD)", err)
		}
		return c.fail(email.ErrProtocol, "SMTP error", err)
	}
	return nil
}

func (c *Client) submit(client *smtp.Client, data []byte) error {
	env := c.config.Envelope

	if err := client.Mail(env.FromEmail); err != nil {
		return c.fail(email.ErrProtocol, "SMTP error: sender refused", err)
	}
	for _, rcpt := range env.Recipients() {
		if err := client.Rcpt(rcpt); err != nil {
			return c.fail(email.ErrProtocol, fmt.Sprintf("SMTP error: recipient %s refused", rcpt), err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return c.fail(email.ErrProtocol, "SMTP error", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return c.fail(email.ErrProtocol, "SMTP error: failed to write message", err)
	}
	if err := w.Close(); err != nil {
		return c.fail(email.ErrProtocol, "SMTP error: message rejected", err)
	}

	// The message is accepted once DATA completes; some servers drop the
	// connection instead of answering QUIT.
	_ = client.Quit()
	return nil
}

func (c *Client) tlsFailure(err error) error {
	return c.fail(email.ErrTLS,
		"SSL/TLS error; SMTP_CONNECTION_SECURITY may not match what the server supports", err)
}

func (c *Client) fail(kind error, msg string, err error) error {
	return &email.Error{
		Kind:    kind,
		Message: msg,
		Server:  c.config.Server,
		Port:    c.config.Port,
		Err:     err,
	}
}

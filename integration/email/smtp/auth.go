package smtp

import (
	"errors"
	"fmt"
	"net/smtp"
	"slices"
	"strings"
)

// plainAuth is RFC 4616 PLAIN without net/smtp's refusal to run over an
// unencrypted connection. It is only selected in SecurityNone mode, after the
// operator has acknowledged the risk.
type plainAuth struct {
	username, password string
}

func (a *plainAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "PLAIN", []byte("\x00" + a.username + "\x00" + a.password), nil
}

func (a *plainAuth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		return nil, errors.New("unexpected server challenge")
	}
	return nil, nil
}

// loginAuth implements the LOGIN mechanism still required by some providers.
type loginAuth struct {
	username, password string
}

func (a *loginAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(string(fromServer))) {
	case "username:":
		return []byte(a.username), nil
	case "password:":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected LOGIN challenge %q", fromServer)
	}
}

// selectAuth picks a mechanism from the server's AUTH advertisement, preferring
// PLAIN, then LOGIN, then CRAM-MD5. It returns nil when none is offered.
func (c *Client) selectAuth(advertised string) smtp.Auth {
	mechs := strings.Fields(strings.ToUpper(advertised))
	cfg := c.config

	switch {
	case slices.Contains(mechs, "PLAIN"):
		if c.Insecure() {
			return &plainAuth{username: cfg.Username, password: cfg.Password}
		}
		return smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Server)
	case slices.Contains(mechs, "LOGIN"):
		return &loginAuth{username: cfg.Username, password: cfg.Password}
	case slices.Contains(mechs, "CRAM-MD5"):
		return smtp.CRAMMD5Auth(cfg.Username, cfg.Password)
	default:
		return nil
	}
}

package smtp_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeServer is a minimal scripted SMTP server for exercising the client.
type fakeServer struct {
	ln net.Listener

	greeting    string
	extensions  []string
	authReply   string
	rcptReply   string
	implicitTLS bool
	tlsConfig   *tls.Config

	mu       sync.Mutex
	auths    []string
	mailFrom string
	rcpts    []string
	data     string
	tlsUsed  bool
}

type fakeOption func(*fakeServer)

func withGreeting(s string) fakeOption      { return func(f *fakeServer) { f.greeting = s } }
func withExtensions(e ...string) fakeOption { return func(f *fakeServer) { f.extensions = e } }
func withAuthReply(s string) fakeOption     { return func(f *fakeServer) { f.authReply = s } }
func withRcptReply(s string) fakeOption     { return func(f *fakeServer) { f.rcptReply = s } }

func withTLS(cfg *tls.Config, implicit bool) fakeOption {
	return func(f *fakeServer) {
		f.tlsConfig = cfg
		f.implicitTLS = implicit
	}
}

func startFakeServer(t *testing.T, opts ...fakeOption) *fakeServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	f := &fakeServer{
		ln:         ln,
		greeting:   "220 fake.local ESMTP ready",
		extensions: []string{"AUTH PLAIN LOGIN"},
		authReply:  "235 2.7.0 Authentication successful",
		rcptReply:  "250 2.1.5 OK",
	}
	for _, opt := range opts {
		opt(f)
	}

	t.Cleanup(func() { _ = ln.Close() })
	go f.serve()
	return f
}

func (f *fakeServer) port() int {
	return f.ln.Addr().(*net.TCPAddr).Port
}

func (f *fakeServer) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeServer) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	if f.implicitTLS {
		conn = tls.Server(conn, f.tlsConfig)
		f.mu.Lock()
		f.tlsUsed = true
		f.mu.Unlock()
	}

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("%s", f.greeting)
	if !strings.HasPrefix(f.greeting, "220") {
		return
	}

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb, _, _ := strings.Cut(line, " ")

		switch strings.ToUpper(verb) {
		case "EHLO":
			f.writeEHLO(tp)
		case "HELO":
			_ = tp.PrintfLine("250 fake.local")
		case "STARTTLS":
			if f.tlsConfig == nil {
				_ = tp.PrintfLine("454 4.7.0 TLS not available")
				continue
			}
			_ = tp.PrintfLine("220 2.0.0 Ready to start TLS")
			conn = tls.Server(conn, f.tlsConfig)
			tp = textproto.NewConn(conn)
			f.mu.Lock()
			f.tlsUsed = true
			f.mu.Unlock()
		case "AUTH":
			f.handleAuth(tp, line)
		case "MAIL":
			f.mu.Lock()
			f.mailFrom = line
			f.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.0 OK")
		case "RCPT":
			f.mu.Lock()
			f.rcpts = append(f.rcpts, line)
			f.mu.Unlock()
			_ = tp.PrintfLine("%s", f.rcptReply)
		case "DATA":
			_ = tp.PrintfLine("354 Start mail input; end with <CRLF>.<CRLF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			f.mu.Lock()
			f.data = strings.Join(lines, "\n")
			f.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 OK queued")
		case "QUIT":
			_ = tp.PrintfLine("221 2.0.0 Bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.2 Command not recognized")
		}
	}
}

func (f *fakeServer) writeEHLO(tp *textproto.Conn) {
	if len(f.extensions) == 0 {
		_ = tp.PrintfLine("250 fake.local")
		return
	}
	_ = tp.PrintfLine("250-fake.local")
	for i, ext := range f.extensions {
		sep := "-"
		if i == len(f.extensions)-1 {
			sep = " "
		}
		_ = tp.PrintfLine("250%s%s", sep, ext)
	}
}

func (f *fakeServer) handleAuth(tp *textproto.Conn, line string) {
	f.mu.Lock()
	f.auths = append(f.auths, line)
	f.mu.Unlock()

	if strings.EqualFold(strings.TrimSpace(line), "AUTH LOGIN") {
		_ = tp.PrintfLine("334 VXNlcm5hbWU6")
		user, err := tp.ReadLine()
		if err != nil {
			return
		}
		_ = tp.PrintfLine("334 UGFzc3dvcmQ6")
		pass, err := tp.ReadLine()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.auths = append(f.auths, user, pass)
		f.mu.Unlock()
	}
	_ = tp.PrintfLine("%s", f.authReply)
}

func (f *fakeServer) snapshot() (auths []string, mailFrom string, rcpts []string, data string, tlsUsed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auths...), f.mailFrom, append([]string(nil), f.rcpts...), f.data, f.tlsUsed
}

// testCertificate returns a self-signed certificate for 127.0.0.1 and a pool trusting it.
func testCertificate(t *testing.T) (*tls.Config, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "fake smtp"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	serverCfg := &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}},
		MinVersion:   tls.VersionTLS12,
	}
	return serverCfg, pool
}

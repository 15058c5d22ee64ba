package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/takedown/core/sanitizer"
)

// DevSender implements Sender for dry runs.
// It saves each composed message as an .eml file plus JSON metadata to a directory
// instead of contacting a mail server.
type DevSender struct {
	dir      string
	envelope Envelope
	now      func() time.Time
}

// NewDevSender creates a sender that saves messages to dir.
// The directory will be created if it doesn't exist.
func NewDevSender(dir string, env Envelope) *DevSender {
	return &DevSender{dir: dir, envelope: env, now: time.Now}
}

// emailMetadata contains the message data saved to JSON (excluding the MIME content).
type emailMetadata struct {
	Timestamp string   `json:"timestamp"`
	From      string   `json:"from"`
	To        []string `json:"to"`
	ReplyTo   string   `json:"reply_to,omitempty"`
	Subject   string   `json:"subject"`
	File      string   `json:"file"`
}

// Send writes the message and its metadata to the configured directory.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: ErrUnknownTransport, Message: "send cancelled", Err: err}
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return &Error{Kind: ErrUnknownTransport, Message: "failed to create directory", Err: err}
	}

	data, err := Encode(d.envelope, msg)
	if err != nil {
		return &Error{Kind: ErrUnknownTransport, Message: "failed to compose message", Err: err}
	}

	// Timestamp prefix keeps files in submission order.
	now := d.now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(msg.Subject))

	emlPath, err := d.writeNew(base, data)
	if err != nil {
		return &Error{Kind: ErrUnknownTransport, Message: "failed to write message file", Err: err}
	}
	base = strings.TrimSuffix(emlPath, ".eml")

	metadata := emailMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      fmt.Sprintf("%s <%s>", d.envelope.FromName, d.envelope.FromEmail),
		To:        d.envelope.Recipients(),
		ReplyTo:   d.envelope.ReplyTo,
		Subject:   msg.Subject,
		File:      filepath.Base(emlPath),
	}

	jsonData, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return &Error{Kind: ErrUnknownTransport, Message: "failed to marshal metadata", Err: err}
	}

	if err := os.WriteFile(base+".json", jsonData, 0o644); err != nil {
		return &Error{Kind: ErrUnknownTransport, Message: "failed to write metadata file", Err: err}
	}

	return nil
}

// writeNew writes data to a new .eml file named after base and returns its path.
// Existing files are never overwritten: a taken name gets a _2, _3, ... suffix.
func (d *DevSender) writeNew(base string, data []byte) (string, error) {
	for n := 1; ; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		path := filepath.Join(d.dir, name+".eml")

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", err
		}
		return path, f.Close()
	}
}

// sanitizeFilename converts a subject into a safe filename stem.
func sanitizeFilename(s string) string {
	if name := sanitizer.Filename(s); name != "" {
		return name
	}
	return "email"
}

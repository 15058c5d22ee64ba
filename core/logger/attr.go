package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit nil checks,
// following the principle of making zero values useful.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Identifiers
// ============================================================================

// CorrelationID creates an attribute for correlation IDs.
func CorrelationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("correlation_id", id)
}

// File creates an attribute for the request document being processed.
func File(path string) slog.Attr {
	if path == "" {
		return slog.Attr{}
	}
	return slog.String("file", path)
}

// ============================================================================
// Mail Transport
// ============================================================================

// Server creates an attribute for the mail server host.
func Server(host string) slog.Attr {
	return slog.String("server", host)
}

// Port creates an attribute for the mail server port.
func Port(port int) slog.Attr {
	return slog.Int("port", port)
}

// Mode creates an attribute for the connection security mode.
func Mode(mode string) slog.Attr {
	return slog.String("mode", mode)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Status creates an attribute for a processing outcome status.
func Status(status string) slog.Attr {
	return slog.String("status", status)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

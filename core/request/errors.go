package request

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig is matched by every error returned from Parse and Load.
var ErrConfig = errors.New("configuration error")

// Failure kinds. Each one also matches ErrConfig.
var (
	ErrNotFound = fmt.Errorf("%w: not found", ErrConfig)
	ErrFormat   = fmt.Errorf("%w: malformed document", ErrConfig)
	ErrSchema   = fmt.Errorf("%w: schema violation", ErrConfig)
)

// ConfigError is a classified failure to turn raw input into a Record.
type ConfigError struct {
	Kind   error    // ErrNotFound, ErrFormat, ErrSchema or ErrConfig
	Path   string   // source file, empty when parsing raw bytes
	Fields []string // offending fields for ErrSchema, in schema order
	Err    error
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return "config file not found: " + e.Path
	case ErrFormat:
		if e.Err == nil {
			return "config file must be JSON format: " + e.Path
		}
		return fmt.Sprintf("invalid JSON format in config file: %v", e.Err)
	case ErrSchema:
		return fmt.Sprintf("config validation failed for %s: %v", strings.Join(e.Fields, ", "), e.Err)
	default:
		return fmt.Sprintf("error loading config file: %v", e.Err)
	}
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

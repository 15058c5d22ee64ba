package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownSanitizer is returned for a tag naming an unregistered sanitizer.
var ErrUnknownSanitizer = errors.New("sanitizer: unknown sanitizer")

var (
	registryMu sync.RWMutex
	registry   = map[string]func(string) string{
		"trim":        Trim,
		"no_control":  RemoveControlChars,
		"single_line": SingleLine,
	}
)

// RegisterSanitizer adds a custom sanitizer function to the registry.
func RegisterSanitizer(name string, fn func(string) string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// SanitizeStruct rewrites tagged string fields of the struct v points to.
// Tags list sanitizers separated by commas and applied left to right:
//
//	Name string   `sanitize:"single_line"`
//	URLs []string `sanitize:"trim,no_control"`
//	Note string   `sanitize:"no_control,max:500"`
//
// String slices apply the tag to every element. Nested structs are always
// visited; "-" skips a field.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.New("sanitizer: must pass a pointer to struct")
	}
	return sanitizeStructRecursive(rv.Elem())
}

func sanitizeStructRecursive(rv reflect.Value) error {
	rt := rv.Type()

	for i := range rt.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "-" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if tag == "" {
				continue
			}
			sanitized, err := applySanitizers(field.String(), tag)
			if err != nil {
				return fmt.Errorf("%s: %w", rt.Field(i).Name, err)
			}
			field.SetString(sanitized)

		case reflect.Struct:
			if err := sanitizeStructRecursive(field); err != nil {
				return err
			}

		case reflect.Slice:
			if tag == "" || field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := range field.Len() {
				elem := field.Index(j)
				sanitized, err := applySanitizers(elem.String(), tag)
				if err != nil {
					return fmt.Errorf("%s[%d]: %w", rt.Field(i).Name, j, err)
				}
				elem.SetString(sanitized)
			}
		}
	}

	return nil
}

func applySanitizers(value, tag string) (string, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := value
	for name := range strings.SplitSeq(tag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if limit, ok := strings.CutPrefix(name, "max:"); ok {
			n, err := strconv.Atoi(limit)
			if err != nil || n <= 0 {
				return "", fmt.Errorf("sanitizer: invalid max length %q", limit)
			}
			result = MaxLength(result, n)
			continue
		}

		fn, ok := registry[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownSanitizer, name)
		}
		result = fn(result)
	}

	return result, nil
}

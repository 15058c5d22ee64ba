package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
)

// Rule pairs a deferred check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Required fails for blank strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// InList fails unless value is one of the allowed literals. Matching is exact:
// "yes" is not "Yes".
func InList(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
		},
	}
}

// ValidEmail fails for values that are not a bare RFC 5322 address.
// Empty values pass; combine with Required when the address is mandatory.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value && strings.Contains(value, ".")
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// NoBlankItems fails when any element of the list is blank.
func NoBlankItems(field string, values []string) Rule {
	return Rule{
		Check: func() bool {
			for _, v := range values {
				if strings.TrimSpace(v) == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must not contain empty items"},
	}
}

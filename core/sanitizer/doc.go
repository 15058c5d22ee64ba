// Package sanitizer cleans untrusted text before it reaches an email.
//
// String helpers such as RemoveControlChars, SingleLine and Filename can be used
// directly. SanitizeStruct applies them declaratively through struct tags:
//
//	type Request struct {
//		Description string   `json:"description" sanitize:"no_control"`
//		URLs        []string `json:"urls" sanitize:"trim,no_control"`
//	}
//
//	if err := sanitizer.SanitizeStruct(&req); err != nil {
//		return err
//	}
//
// Registered sanitizers: trim, no_control and single_line. "max:N" truncates
// to N runes.
// Custom sanitizers are added with RegisterSanitizer. A tag naming an unknown
// sanitizer fails with ErrUnknownSanitizer.
package sanitizer

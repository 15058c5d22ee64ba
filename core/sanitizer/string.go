package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Trim removes leading and trailing whitespace from the string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToSnakeCase lowercases s and collapses every run of non-alphanumeric
// characters into a single underscore.
func ToSnakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	prevUnderscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteRune('_')
			prevUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}

// MaxLength truncates s to at most maxLen runes.
func MaxLength(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// RemoveExtraWhitespace collapses whitespace runs into one space and trims the ends.
func RemoveExtraWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// RemoveControlChars drops control characters other than newline, carriage
// return and tab.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine joins a multi-line string into one line, for values that end up in
// mail headers.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return RemoveExtraWhitespace(RemoveControlChars(s))
}

const maxFilenameLength = 100

// Filename turns free text into a lowercase, ASCII-safe file name stem.
// Letters outside ASCII are dropped. The result may be empty.
func Filename(s string) string {
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return ' '
		}
		return r
	}, s)
	return strings.Trim(MaxLength(ToSnakeCase(s), maxFilenameLength), "_")
}

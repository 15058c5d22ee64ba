package notice

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrymomot/takedown/core/email"
	"github.com/dmitrymomot/takedown/core/request"
)

//go:embed notice.tmpl
var defaultTemplate string

// segment is either literal text or a named placeholder.
type segment struct {
	text        string
	placeholder bool
}

// Template is a parsed notice template. Placeholders are written {name};
// {{ and }} produce literal braces.
type Template struct {
	segments []segment
}

// Default returns the built-in GitHub DMCA notice template.
func Default() *Template {
	return MustParse(defaultTemplate)
}

// MustParse is like Parse but panics on a malformed template.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadFile parses the template stored at path.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, templateError(fmt.Sprintf("failed to read template %s", path), err)
	}
	return Parse(string(data))
}

// Parse tokenizes text. Unbalanced braces and placeholders carrying a format
// specification or conversion are rejected.
func Parse(text string) (*Template, error) {
	var (
		segments []segment
		lit      strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(text[i+1:], "{}")
			if end < 0 || text[i+1+end] != '}' {
				return nil, templateError("single '{' encountered in format string", nil)
			}
			name := text[i+1 : i+1+end]
			if strings.ContainsAny(name, ":!") {
				return nil, templateError(fmt.Sprintf("unsupported format specification in placeholder '%s'", name), nil)
			}
			flush()
			segments = append(segments, segment{text: name, placeholder: true})
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, templateError("single '}' encountered in format string", nil)
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return &Template{segments: segments}, nil
}

// Placeholders lists the distinct placeholder names in order of first use.
func (t *Template) Placeholders() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, s := range t.segments {
		if !s.placeholder {
			continue
		}
		if _, ok := seen[s.text]; ok {
			continue
		}
		seen[s.text] = struct{}{}
		names = append(names, s.text)
	}
	return names
}

// Execute substitutes vars into the template.
func (t *Template) Execute(vars map[string]string) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if !s.placeholder {
			b.WriteString(s.text)
			continue
		}
		v, ok := vars[s.text]
		if !ok {
			return "", templateError(fmt.Sprintf("missing template variable: '%s'", s.text), nil)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Render produces the notice email for rec.
func (t *Template) Render(rec request.Record) (email.Message, error) {
	text, err := t.Execute(Vars(rec))
	if err != nil {
		return email.Message{}, err
	}
	msg, err := Split(text)
	if err != nil {
		return email.Message{}, err
	}
	if err := msg.Validate(); err != nil {
		return email.Message{}, templateError("rendered template is not a sendable message", err)
	}
	return msg, nil
}

// Vars maps every request field to its template placeholder name.
// infringing_urls becomes one "- <url>" line per entry, in input order.
func Vars(rec request.Record) map[string]string {
	urls := make([]string, len(rec.InfringingURLs))
	for i, u := range rec.InfringingURLs {
		urls[i] = "- " + u
	}

	return map[string]string{
		"from":                           rec.From,
		"copyright_holder_or_authorized": rec.CopyrightHolderOrAuthorized,
		"is_revised":                     rec.IsRevised,
		"content_source":                 rec.ContentSource,
		"ownership":                      rec.Ownership,
		"work_description":               rec.WorkDescription,
		"infringing_urls":                strings.Join(urls, "\n"),
		"access_control":                 rec.AccessControl,
		"forks_information":              rec.ForksInformation,
		"open_source":                    rec.OpenSource,
		"solution":                       rec.Solution,
		"contact":                        rec.Contact,
		"legal_name":                     rec.LegalName,
		"contact_email":                  rec.ContactEmail,
		"phone":                          rec.Phone,
	}
}

// Split recovers subject and body from rendered template text by position:
// line 1 (zero-based) with every "Subject:" removed and whitespace trimmed is the
// subject, and lines 3 onward are the body. Line 0 and line 2 are dropped.
func Split(rendered string) (email.Message, error) {
	lines := strings.Split(rendered, "\n")
	if len(lines) < 2 {
		return email.Message{}, templateError("rendered template has no subject line", nil)
	}

	msg := email.Message{
		Subject: strings.TrimSpace(strings.ReplaceAll(lines[1], "Subject:", "")),
	}
	if len(lines) > 3 {
		msg.Body = strings.Join(lines[3:], "\n")
	}
	return msg, nil
}

func templateError(msg string, err error) error {
	return &email.Error{Kind: email.ErrTemplate, Message: msg, Err: err}
}

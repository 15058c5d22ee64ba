package batch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned when an outcome carries a status Stats does not know.
var ErrInvalidStatus = errors.New("invalid outcome status")

// Status is the terminal state of one request.
type Status string

// Outcome statuses.
const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// Outcome records how processing of one request file ended.
type Outcome struct {
	Name   string // base name of the request file
	Status Status
	Detail string // human-readable reason, set for failures and declines
	Err    error  // cause of a FAILED outcome
}

// Stats counts outcomes by status.
type Stats struct {
	Total      int
	Successful int
	Failed     int
	Skipped    int
}

// Add records o. Total always equals the sum of the per-status counters.
func (s *Stats) Add(o Outcome) error {
	switch o.Status {
	case StatusSuccess:
		s.Successful++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, o.Status)
	}
	s.Total++
	return nil
}

// Result is what a batch run returns: aggregate counts and per-request outcomes
// in input order.
type Result struct {
	Stats    Stats
	Outcomes []Outcome
}

// ExitCode is 0 when no request failed and 1 otherwise. Skipped requests are
// not failures.
func (r Result) ExitCode() int {
	if r.Stats.Failed == 0 {
		return 0
	}
	return 1
}

const summaryRuleWidth = 60

// FormatSummary renders the end-of-run summary block.
func FormatSummary(s Stats) string {
	rule := strings.Repeat("=", summaryRuleWidth)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(rule + "\n")
	b.WriteString("DMCA REQUEST PROCESSING SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total requests:  %d\n", s.Total)
	fmt.Fprintf(&b, "Successful:     %d\n", s.Successful)
	fmt.Fprintf(&b, "Failed:         %d\n", s.Failed)
	fmt.Fprintf(&b, "Skipped:        %d\n", s.Skipped)
	b.WriteString(rule + "\n")
	return b.String()
}

// FormatStatus renders the line printed after each request. Non-failed
// outcomes with a detail get a second, indented line.
func FormatStatus(o Outcome) string {
	line := fmt.Sprintf("[%s] %s\n", o.Status, o.Name)
	if o.Detail != "" && o.Status != StatusFailed {
		line += fmt.Sprintf("  → %s\n", o.Detail)
	}
	return line
}

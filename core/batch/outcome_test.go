package batch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/takedown/core/batch"
)

func TestStats_Add(t *testing.T) {
	t.Parallel()

	var s batch.Stats
	for _, st := range []batch.Status{batch.StatusSuccess, batch.StatusFailed, batch.StatusSkipped, batch.StatusSkipped} {
		assert.NoError(t, s.Add(batch.Outcome{Status: st}))
	}
	assert.Equal(t, batch.Stats{Total: 4, Successful: 1, Failed: 1, Skipped: 2}, s)

	err := s.Add(batch.Outcome{Status: "PENDING"})
	assert.ErrorIs(t, err, batch.ErrInvalidStatus)
	assert.Equal(t, 4, s.Total)
}

func TestResult_ExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, batch.Result{Stats: batch.Stats{Total: 3, Successful: 1, Skipped: 2}}.ExitCode())
	assert.Equal(t, 1, batch.Result{Stats: batch.Stats{Total: 3, Successful: 2, Failed: 1}}.ExitCode())
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	rule := "============================================================"
	want := "\n" + rule + "\n" +
		"DMCA REQUEST PROCESSING SUMMARY\n" +
		rule + "\n" +
		"Total requests:  2\n" +
		"Successful:     1\n" +
		"Failed:         0\n" +
		"Skipped:        1\n" +
		rule + "\n"

	assert.Equal(t, want, batch.FormatSummary(batch.Stats{Total: 2, Successful: 1, Skipped: 1}))
}

func TestFormatStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome batch.Outcome
		want    string
	}{
		{"success", batch.Outcome{Name: "a.json", Status: batch.StatusSuccess}, "[SUCCESS] a.json\n"},
		{"skipped with detail", batch.Outcome{Name: "b.json", Status: batch.StatusSkipped, Detail: "cancelled by user"}, "[SKIPPED] b.json\n  → cancelled by user\n"},
		{"failed hides detail", batch.Outcome{Name: "c.json", Status: batch.StatusFailed, Detail: "Configuration error: x"}, "[FAILED] c.json\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, batch.FormatStatus(tt.outcome))
		})
	}
}

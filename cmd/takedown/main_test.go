package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSenderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FROM_NAME", "Jane Doe")
	t.Setenv("FROM_EMAIL", "jane@example.com")
	t.Setenv("TO_EMAIL", "copyright@example.com")
	t.Setenv("LOG_LEVEL", "error")
}

func writeRequest(t *testing.T, dir, name, from string) string {
	t.Helper()
	doc := map[string]any{
		"from":                           from,
		"copyright_holder_or_authorized": "Yes",
		"is_revised":                     "No",
		"content_source":                 "Both",
		"ownership":                      "I wrote it.",
		"work_description":               "A library.",
		"infringing_urls":                []string{"https://github.com/x/y", "https://www.npmjs.com/package/z"},
		"access_control":                 "No",
		"forks_information":              "None.",
		"open_source":                    "No",
		"solution":                       "Remove it.",
		"contact":                        "None.",
		"legal_name":                     from,
		"contact_email":                  "jane@example.com",
		"phone":                          "+1 555 0100",
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	return code, out.String(), errOut.String()
}

func TestRun_SaveDir(t *testing.T) {
	setSenderEnv(t)
	dir := t.TempDir()
	saveDir := filepath.Join(dir, "out")
	a := writeRequest(t, dir, "a.json", "Alice")
	b := writeRequest(t, dir, "b.json", "Bob")

	code, out, _ := runCLI(t, "y\nn\n", "--save-dir", saveDir, a, b)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "FROM: Jane Doe <jane@example.com>")
	assert.Contains(t, out, "TO: copyright@example.com")
	assert.Contains(t, out, "[SUCCESS] a.json")
	assert.Contains(t, out, "[SKIPPED] b.json")
	assert.Contains(t, out, "Total requests:  2\nSuccessful:     1\nFailed:         0\nSkipped:        1\n")

	emls, err := filepath.Glob(filepath.Join(saveDir, "*.eml"))
	require.NoError(t, err)
	require.Len(t, emls, 1)
	data, err := os.ReadFile(emls[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Subject: DMCA Takedown Notice from Alice")
}

func TestRun_YesFlag(t *testing.T) {
	setSenderEnv(t)
	dir := t.TempDir()
	a := writeRequest(t, dir, "a.json", "Alice")

	code, out, _ := runCLI(t, "", "--yes", "--save-dir", filepath.Join(dir, "out"), a)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "[SUCCESS] a.json")
	assert.NotContains(t, out, "Send this email?")
}

func TestRun_YesFlagKeepsEveryMessage(t *testing.T) {
	setSenderEnv(t)
	dir := t.TempDir()
	saveDir := filepath.Join(dir, "out")
	a := writeRequest(t, dir, "a.json", "Alice")
	b := writeRequest(t, dir, "b.json", "Alice")

	code, _, _ := runCLI(t, "", "--yes", "--save-dir", saveDir, a, b)
	require.Equal(t, 0, code)

	emls, err := filepath.Glob(filepath.Join(saveDir, "*.eml"))
	require.NoError(t, err)
	assert.Len(t, emls, 2)
}

func TestRun_Interrupted(t *testing.T) {
	setSenderEnv(t)
	dir := t.TempDir()
	a := writeRequest(t, dir, "a.json", "Alice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := run(ctx, []string{"--yes", "--save-dir", filepath.Join(dir, "out"), a},
		Streams{In: strings.NewReader(""), Out: &out, Err: &errOut})

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "ERROR: interrupted: context canceled")
	assert.Contains(t, out.String(), "Total requests:  0")
	assert.NotContains(t, out.String(), "Processing config file")
}

func TestRun_FailedRequestSetsExitCode(t *testing.T) {
	setSenderEnv(t)
	dir := t.TempDir()
	good := writeRequest(t, dir, "good.json", "Alice")

	code, out, errOut := runCLI(t, "", "--yes", "--save-dir", filepath.Join(dir, "out"), good, filepath.Join(dir, "missing.json"))

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[FAILED] missing.json")
	assert.Contains(t, out, "Failed:         1")
	assert.Contains(t, errOut, "ERROR: Configuration error: config file not found")
}

func TestRun_SetupErrors(t *testing.T) {
	t.Run("no request files", func(t *testing.T) {
		setSenderEnv(t)
		code, _, errOut := runCLI(t, "")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "ERROR:")
	})

	t.Run("missing sender identity", func(t *testing.T) {
		setSenderEnv(t)
		t.Setenv("FROM_EMAIL", "")
		os.Unsetenv("FROM_EMAIL")
		code, out, errOut := runCLI(t, "", "--save-dir", t.TempDir(), "req.json")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "FROM_EMAIL")
		assert.NotContains(t, out, "Processing config file")
	})

	t.Run("unknown connection security", func(t *testing.T) {
		setSenderEnv(t)
		t.Setenv("SMTP_SERVER", "smtp.example.com")
		t.Setenv("SMTP_USERNAME", "user")
		t.Setenv("SMTP_PASSWORD", "secret")
		t.Setenv("SMTP_CONNECTION_SECURITY", "SSLv3")
		code, out, errOut := runCLI(t, "", "req.json")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "invalid email configuration")
		assert.NotContains(t, out, "Processing config file")
	})

	t.Run("bad log format", func(t *testing.T) {
		setSenderEnv(t)
		t.Setenv("LOG_FORMAT", "xml")
		code, _, errOut := runCLI(t, "", "--save-dir", t.TempDir(), "req.json")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "LOG_FORMAT")
	})

	t.Run("template file override", func(t *testing.T) {
		setSenderEnv(t)
		t.Setenv("EMAIL_TEMPLATE_FILE", filepath.Join(t.TempDir(), "absent.tmpl"))
		code, _, errOut := runCLI(t, "", "--save-dir", t.TempDir(), "req.json")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "ERROR:")
	})
}

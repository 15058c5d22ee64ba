package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/takedown/core/email"
)

func testEnvelope() email.Envelope {
	return email.Envelope{
		FromName:  "Jane Doe",
		FromEmail: "jane@example.com",
		To:        "copyright@github.com",
	}
}

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     email.Message
		wantErr bool
	}{
		{name: "valid", msg: email.Message{Subject: "Notice", Body: "hello"}},
		{name: "empty subject", msg: email.Message{Subject: " ", Body: "hello"}, wantErr: true},
		{name: "multi-line subject", msg: email.Message{Subject: "a\nb", Body: "hello"}, wantErr: true},
		{name: "empty body", msg: email.Message{Subject: "Notice", Body: "\n\n"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvelope_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testEnvelope().Validate())

	tests := []struct {
		name   string
		mutate func(*email.Envelope)
		field  string
	}{
		{"missing from name", func(e *email.Envelope) { e.FromName = "" }, "FromName"},
		{"bad from email", func(e *email.Envelope) { e.FromEmail = "jane@" }, "FromEmail"},
		{"bad reply-to", func(e *email.Envelope) { e.ReplyTo = "replies" }, "ReplyTo"},
		{"bad cc", func(e *email.Envelope) { e.CC = "a b@example.com" }, "CC"},
		{"missing to", func(e *email.Envelope) { e.To = "" }, "To"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := testEnvelope()
			tt.mutate(&env)

			err := env.Validate()
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestEnvelope_Recipients(t *testing.T) {
	t.Parallel()

	env := testEnvelope()
	assert.Equal(t, []string{"copyright@github.com"}, env.Recipients())

	env.CC = "legal@example.com"
	assert.Equal(t, []string{"copyright@github.com", "legal@example.com"}, env.Recipients())
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("required headers only", func(t *testing.T) {
		t.Parallel()

		raw, err := email.Encode(testEnvelope(), email.Message{Subject: "DMCA Takedown Notice from Jane Doe", Body: "hello"})
		require.NoError(t, err)

		s := string(raw)
		assert.Contains(t, s, "From: \"Jane Doe\" <jane@example.com>\r\n")
		assert.Contains(t, s, "To: copyright@github.com\r\n")
		assert.Contains(t, s, "Subject: DMCA Takedown Notice from Jane Doe\r\n")
		assert.Contains(t, s, "Content-Type: text/plain; charset=UTF-8")
		assert.NotContains(t, s, "Reply-To:")
		assert.NotContains(t, s, "Cc:")
		assert.Contains(t, s, "hello")
	})

	t.Run("optional headers", func(t *testing.T) {
		t.Parallel()

		env := testEnvelope()
		env.ReplyTo = "replies@example.com"
		env.CC = "legal@example.com"

		raw, err := email.Encode(env, email.Message{Subject: "Notice", Body: "hello"})
		require.NoError(t, err)

		s := string(raw)
		assert.Contains(t, s, "Reply-To: replies@example.com\r\n")
		assert.Contains(t, s, "Cc: legal@example.com\r\n")
	})
}

func TestCompose(t *testing.T) {
	t.Parallel()

	env := testEnvelope()
	env.CC = "legal@example.com"

	m := email.Compose(env, email.Message{Subject: "Notice", Body: "hello"})
	assert.Equal(t, []string{"copyright@github.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"legal@example.com"}, m.GetHeader("Cc"))
	assert.Equal(t, []string{"Notice"}, m.GetHeader("Subject"))
	assert.Empty(t, m.GetHeader("Reply-To"))
}

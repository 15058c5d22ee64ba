package confirm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/takedown/core/email"
)

// Prompts shown by the gate.
const (
	SendPrompt     = "Send this email? (y/n): "
	InsecurePrompt = "This is not secure. Continue anyway? (y/n): "
)

const previewRuleWidth = 70

// Preview renders the block shown to the operator before sending: header lines
// and the body, each section closed by a fixed-width rule.
func Preview(env email.Envelope, msg email.Message) string {
	rule := strings.Repeat("=", previewRuleWidth)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "FROM: %s <%s>\n", env.FromName, env.FromEmail)
	fmt.Fprintf(&b, "TO: %s\n", env.To)
	if env.CC != "" {
		fmt.Fprintf(&b, "CC: %s\n", env.CC)
	}
	fmt.Fprintf(&b, "SUBJECT: %s\n", msg.Subject)
	b.WriteString(rule + "\n\n")
	b.WriteString(msg.Body)
	b.WriteString("\n" + rule + "\n")
	return b.String()
}

// Gate is the operator checkpoint between rendering and transport.
type Gate struct {
	prompter Prompter
	risk     Prompter
	out      io.Writer
	envelope email.Envelope
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithRiskPrompter answers the insecure-transport question with p instead of
// the send prompter, so auto-approving sends never auto-approves the risk.
func WithRiskPrompter(p Prompter) GateOption {
	return func(g *Gate) {
		g.risk = p
	}
}

// NewGate creates a gate that writes previews to out and asks p for decisions.
func NewGate(p Prompter, out io.Writer, env email.Envelope, opts ...GateOption) *Gate {
	g := &Gate{prompter: p, risk: p, out: out, envelope: env}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Review shows the preview of msg and asks whether to send it.
func (g *Gate) Review(ctx context.Context, msg email.Message) (bool, error) {
	fmt.Fprintln(g.out, Preview(g.envelope, msg))
	return g.prompter.Confirm(ctx, SendPrompt)
}

// AcknowledgeInsecure warns that credentials will travel in clear text and asks
// for an explicit go-ahead. With skip set the warning is still shown but the
// question is not asked and the answer is yes.
func (g *Gate) AcknowledgeInsecure(ctx context.Context, skip bool) (bool, error) {
	fmt.Fprintln(g.out, "WARNING: Using plain SMTP connection. Credentials will be sent in clear text!")
	if skip {
		return true, nil
	}
	return g.risk.Confirm(ctx, InsecurePrompt)
}

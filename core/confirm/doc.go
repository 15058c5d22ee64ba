// Package confirm implements the operator checkpoint of the sending pipeline.
//
// A Gate prints a preview of the rendered message and asks a Prompter for a yes/no
// decision. Prompters are pluggable: Console reads a terminal, Always answers with a
// fixed decision for non-interactive runs and Scripted replays canned answers.
//
// The insecure-transport question can be routed to its own Prompter with
// WithRiskPrompter, so that auto-approving sends still leaves the risk decision
// to the operator.
//
// Answers are case-insensitive; y/yes confirm, n/no decline and anything else is
// asked again.
package confirm

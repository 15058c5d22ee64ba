package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// ErrNoInput is returned when the operator input ends before an answer is given.
var ErrNoInput = errors.New("no operator input")

// Prompter asks a yes/no question and blocks until it has an answer.
type Prompter interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f PrompterFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// ParseAnswer classifies an operator answer case-insensitively.
// ok is false for anything other than y, yes, n or no.
func ParseAnswer(s string) (yes, ok bool) {
	// Casers are stateful, so one is built per call.
	switch cases.Fold().String(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// Console prompts on a terminal-like stream and re-asks until the answer is
// recognised. There is no retry limit.
//
// Lines are read by a background goroutine so a cancelled context interrupts a
// prompt that is waiting for input. At most one line is read ahead.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewConsole creates a console prompter reading answers from in and writing prompts to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, lines: make(chan readResult)}
}

// Confirm writes prompt and reads lines until one is a yes or no answer.
// It returns ctx.Err() as soon as ctx is done, even while waiting for input.
func (c *Console) Confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		c.once.Do(func() { go c.readLines() })

		fmt.Fprint(c.out, prompt)

		var r readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return false, ctx.Err()
		case res, ok := <-c.lines:
			if !ok {
				res.err = io.EOF
			}
			r = res
		}

		if r.line != "" {
			if yes, ok := ParseAnswer(r.line); ok {
				return yes, nil
			}
		}
		if r.err != nil {
			if errors.Is(r.err, io.EOF) {
				fmt.Fprintln(c.out)
				return false, ErrNoInput
			}
			return false, r.err
		}
		fmt.Fprintln(c.out, "Please answer 'y' or 'n'.")
	}
}

// readLines feeds c.lines until the input fails, then closes it.
func (c *Console) readLines() {
	defer close(c.lines)
	for {
		line, err := c.in.ReadString('\n')
		c.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Always answers every prompt with the same decision. Always(true) is used for
// non-interactive runs.
type Always bool

// Confirm returns the fixed decision.
func (a Always) Confirm(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(a), nil
}

// Scripted replays raw answers in order, re-asking on unrecognised ones like
// Console does. It records every prompt it was shown.
type Scripted struct {
	answers []string
	Prompts []string
}

// NewScripted creates a prompter that replays answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Confirm consumes answers until a yes or no is found.
func (s *Scripted) Confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		s.Prompts = append(s.Prompts, prompt)
		if len(s.answers) == 0 {
			return false, ErrNoInput
		}
		answer := s.answers[0]
		s.answers = s.answers[1:]
		if yes, ok := ParseAnswer(answer); ok {
			return yes, nil
		}
	}
}

// Remaining reports how many scripted answers were not consumed.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

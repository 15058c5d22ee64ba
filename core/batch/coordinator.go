package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/takedown/core/email"
	"github.com/dmitrymomot/takedown/core/logger"
	"github.com/dmitrymomot/takedown/core/request"
)

// Declines are not failures; these are the details recorded for them.
const (
	DetailDeclined         = "cancelled by user"
	DetailInsecureDeclined = "cancelled by user due to security concerns"
)

// Loader reads and validates one request file.
type Loader func(path string) (request.Record, error)

// Renderer turns a validated request into an email message.
type Renderer interface {
	Render(rec request.Record) (email.Message, error)
}

// Reviewer is the operator checkpoint. *confirm.Gate implements it.
type Reviewer interface {
	Review(ctx context.Context, msg email.Message) (bool, error)
	AcknowledgeInsecure(ctx context.Context, skip bool) (bool, error)
}

// Coordinator runs request files one at a time through
// load, render, review and send, turning every failure into an Outcome.
//
// Example:
//
//	c := batch.New(notice.Default(), gate, client,
//	    batch.WithLogger(log),
//	    batch.WithAllowInsecure(allow),
//	)
//	res := c.Run(ctx, paths)
//	fmt.Println(batch.FormatSummary(res.Stats))
//	os.Exit(res.ExitCode())
type Coordinator struct {
	load          Loader
	renderer      Renderer
	reviewer      Reviewer
	sender        email.Sender
	out           io.Writer
	errOut        io.Writer
	logger        *slog.Logger
	allowInsecure bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLoader replaces request.Load as the request file loader.
func WithLoader(l Loader) Option {
	return func(c *Coordinator) {
		c.load = l
	}
}

// WithOutput sets where progress lines and error reports are written.
// Defaults are os.Stdout and os.Stderr.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *Coordinator) {
		c.out = out
		c.errOut = errOut
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithAllowInsecure skips the question before sending over an unencrypted
// transport. The warning is still shown.
func WithAllowInsecure(allow bool) Option {
	return func(c *Coordinator) {
		c.allowInsecure = allow
	}
}

// New creates a Coordinator.
func New(renderer Renderer, reviewer Reviewer, sender email.Sender, opts ...Option) *Coordinator {
	c := &Coordinator{
		load:     request.Load,
		renderer: renderer,
		reviewer: reviewer,
		sender:   sender,
		out:      os.Stdout,
		errOut:   os.Stderr,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes paths in order. A failed request never stops the batch; a
// cancelled ctx does, and the remaining paths are left out of the result.
func (c *Coordinator) Run(ctx context.Context, paths []string) Result {
	start := time.Now()
	res := Result{Outcomes: make([]Outcome, 0, len(paths))}

	c.logger.InfoContext(ctx, "batch started", logger.Count("requests", len(paths)))

	for i, path := range paths {
		if ctx.Err() != nil {
			c.logger.WarnContext(ctx, "batch interrupted",
				logger.Count("remaining", len(paths)-i),
				logger.Error(ctx.Err()),
			)
			break
		}
		o := c.Process(ctx, path)
		if err := res.Stats.Add(o); err != nil {
			// Process only produces known statuses.
			panic(err)
		}
		res.Outcomes = append(res.Outcomes, o)
		fmt.Fprint(c.out, FormatStatus(o))
	}

	c.logger.InfoContext(ctx, "batch finished",
		logger.Group("stats",
			logger.Count("total", res.Stats.Total),
			logger.Count("successful", res.Stats.Successful),
			logger.Count("failed", res.Stats.Failed),
			logger.Count("skipped", res.Stats.Skipped),
		),
		logger.Elapsed(start),
	)
	return res
}

// Process runs a single request file through the pipeline.
func (c *Coordinator) Process(ctx context.Context, path string) Outcome {
	name := filepath.Base(path)
	log := c.logger.With(logger.File(path))

	if err := ctx.Err(); err != nil {
		return c.failed(ctx, log, name, err)
	}

	fmt.Fprintf(c.out, "\nProcessing config file: %s\n", path)

	rec, err := c.load(path)
	if err != nil {
		return c.failed(ctx, log, name, err)
	}

	msg, err := c.renderer.Render(rec)
	if err != nil {
		return c.failed(ctx, log, name, err)
	}

	ok, err := c.reviewer.Review(ctx, msg)
	if err != nil {
		return c.failed(ctx, log, name, err)
	}
	if !ok {
		fmt.Fprintln(c.out, "Email sending cancelled by user.")
		return c.skipped(ctx, log, name, DetailDeclined)
	}

	if email.IsInsecure(c.sender) {
		ok, err := c.reviewer.AcknowledgeInsecure(ctx, c.allowInsecure)
		if err != nil {
			return c.failed(ctx, log, name, err)
		}
		if !ok {
			fmt.Fprintln(c.out, "Email sending cancelled by user due to security concerns.")
			return c.skipped(ctx, log, name, DetailInsecureDeclined)
		}
	}

	if err := c.sender.Send(ctx, msg); err != nil {
		return c.failed(ctx, log, name, err)
	}

	fmt.Fprintf(c.out, "Successfully sent DMCA takedown request for %s\n", name)
	log.InfoContext(ctx, "request processed", logger.Status(string(StatusSuccess)))
	return Outcome{Name: name, Status: StatusSuccess}
}

func (c *Coordinator) skipped(ctx context.Context, log *slog.Logger, name, detail string) Outcome {
	log.InfoContext(ctx, "request processed",
		logger.Status(string(StatusSkipped)),
		slog.String("reason", detail),
	)
	return Outcome{Name: name, Status: StatusSkipped, Detail: detail}
}

// failed reports err on the error stream and converts it into a FAILED outcome.
func (c *Coordinator) failed(ctx context.Context, log *slog.Logger, name string, err error) Outcome {
	detail := describe(err)

	fmt.Fprintf(c.errOut, "ERROR: %s\n", detail)
	var mailErr *email.Error
	if errors.As(err, &mailErr) {
		if fields := mailErr.Context(); len(fields) > 0 {
			fmt.Fprintln(c.errOut, "Context:")
			for _, f := range fields {
				fmt.Fprintf(c.errOut, "  %s: %s\n", f.Key, f.Value)
			}
		}
	}

	log.ErrorContext(ctx, "request failed",
		logger.Status(string(StatusFailed)),
		logger.Error(err),
	)
	return Outcome{Name: name, Status: StatusFailed, Detail: detail, Err: err}
}

// describe prefixes err with the family it belongs to.
func describe(err error) string {
	var mailErr *email.Error
	switch {
	case errors.Is(err, request.ErrConfig):
		return "Configuration error: " + err.Error()
	case errors.As(err, &mailErr),
		errors.Is(err, email.ErrFailedToSendEmail),
		errors.Is(err, email.ErrInvalidParams),
		errors.Is(err, email.ErrInvalidConfig):
		return "Email error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

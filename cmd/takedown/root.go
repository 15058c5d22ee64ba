package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/takedown/core/batch"
	"github.com/dmitrymomot/takedown/core/config"
	"github.com/dmitrymomot/takedown/core/confirm"
	"github.com/dmitrymomot/takedown/core/email"
	"github.com/dmitrymomot/takedown/core/logger"
	"github.com/dmitrymomot/takedown/core/notice"
	"github.com/dmitrymomot/takedown/core/sanitizer"
	"github.com/dmitrymomot/takedown/integration/email/smtp"
)

// Streams are the console endpoints of a run.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// appConfig is the environment configuration shared by every delivery mode.
// SMTP settings are loaded separately, only when mail is actually sent.
type appConfig struct {
	Envelope     email.Envelope
	TemplateFile string `env:"EMAIL_TEMPLATE_FILE"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
}

type flags struct {
	yes           bool
	allowInsecure bool
	saveDir       string
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, streams Streams) int {
	code := 0
	root := newRootCommand(streams, &code)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(streams.Err, "ERROR: %v\n", err)
		return 1
	}
	return code
}

func newRootCommand(streams Streams, code *int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "takedown REQUEST.json [REQUEST.json...]",
		Short: "Send DMCA takedown notices described by JSON request files",
		Long: `Process DMCA takedown request files and send one notice email per file.

Each request is validated, rendered and previewed, and is only sent after
confirmation. SMTP settings and sender identity come from the environment
or a .env file in the working directory.`,
		Example: `  takedown requests/my_request.json
  takedown requests/request1.json requests/request2.json
  takedown --save-dir out/ requests/*.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := execute(cmd.Context(), args, f, streams)
			if err != nil {
				return err
			}
			fmt.Fprint(streams.Out, batch.FormatSummary(res.Stats))
			if err := cmd.Context().Err(); err != nil {
				return fmt.Errorf("interrupted: %w", err)
			}
			*code = res.ExitCode()
			return nil
		},
	}

	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Send without asking for confirmation of each email")
	cmd.Flags().BoolVar(&f.allowInsecure, "allow-insecure", false, "Do not ask before sending over an unencrypted SMTP connection")
	cmd.Flags().StringVar(&f.saveDir, "save-dir", "", "Write messages as .eml files to this directory instead of sending them")

	return cmd
}

// execute wires configuration, logging, rendering, confirmation and delivery
// and runs the batch. Errors returned here happen before any request is read.
func execute(ctx context.Context, paths []string, f flags, streams Streams) (batch.Result, error) {
	var cfg appConfig
	if err := config.Parse(&cfg); err != nil {
		return batch.Result{}, err
	}
	if err := sanitizer.SanitizeStruct(&cfg); err != nil {
		return batch.Result{}, err
	}

	log, err := newLogger(cfg, streams.Err)
	if err != nil {
		return batch.Result{}, err
	}

	tmpl := notice.Default()
	if cfg.TemplateFile != "" {
		if tmpl, err = notice.LoadFile(cfg.TemplateFile); err != nil {
			return batch.Result{}, err
		}
	}

	sender, err := newSender(f, cfg.Envelope, log)
	if err != nil {
		return batch.Result{}, err
	}

	console := confirm.NewConsole(streams.In, streams.Out)
	var prompter confirm.Prompter = console
	if f.yes {
		prompter = confirm.Always(true)
	}
	gate := confirm.NewGate(prompter, streams.Out, cfg.Envelope, confirm.WithRiskPrompter(console))

	coord := batch.New(tmpl, gate, sender,
		batch.WithOutput(streams.Out, streams.Err),
		batch.WithLogger(log),
		batch.WithAllowInsecure(f.allowInsecure),
	)
	return coord.Run(ctx, paths), nil
}

func newLogger(cfg appConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithOutput(w),
		logger.WithAttr(
			logger.Component("takedown"),
			logger.CorrelationID(uuid.NewString()),
		),
	}
	switch cfg.LogFormat {
	case "text":
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	default:
		return nil, fmt.Errorf("%w: LOG_FORMAT must be text or json, got %q", config.ErrParsing, cfg.LogFormat)
	}
	return logger.New(opts...), nil
}

func newSender(f flags, env email.Envelope, log *slog.Logger) (email.Sender, error) {
	if f.saveDir != "" {
		if err := env.Validate(); err != nil {
			return nil, err
		}
		log.Info("saving messages instead of sending", slog.String("dir", f.saveDir))
		return email.NewDevSender(f.saveDir, env), nil
	}

	var smtpCfg smtp.Config
	if err := config.Parse(&smtpCfg); err != nil {
		return nil, err
	}
	// The envelope was already loaded and sanitized with the application config.
	smtpCfg.Envelope = env
	return smtp.New(smtpCfg, smtp.WithLogger(log.With(logger.Component("smtp"))))
}

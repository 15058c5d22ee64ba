// Package logger provides structured logging utilities built on Go's standard slog package:
// a small factory and attribute helpers for the values this tool logs.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(logger.CorrelationID(runID)),
//	)
//
//	log.Info("connecting to smtp server",
//		logger.Server("mail.example.com"),
//		logger.Port(465),
//		logger.Mode("SSL"),
//	)
//
// Helpers taking errors or identifiers return an empty slog.Attr for nil or empty
// input, which slog omits from the output.
package logger

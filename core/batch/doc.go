// Package batch sequences DMCA request files through loading, rendering,
// operator review and delivery.
//
// Requests are processed strictly one after another. Every error raised while
// handling a request is reported on the error stream and recorded as a FAILED
// Outcome; the batch always continues with the next file. An operator decline
// at either confirmation point is a SKIPPED outcome, not an error.
//
//	res := batch.New(tmpl, gate, sender).Run(ctx, paths)
//	fmt.Println(batch.FormatSummary(res.Stats))
//	os.Exit(res.ExitCode())
package batch

// Package notice renders takedown requests into the fixed legal-notice email.
//
// A template is plain text with {name} placeholders, one per request field
// (the json key of the field). Its layout is positional: the first line is blank,
// the second is "Subject: ..." and the third is blank; everything after that is
// the body.
//
//	msg, err := notice.Default().Render(rec)
//	// msg.Subject == "DMCA Takedown Notice from Jane Doe"
//
// Rendering failures are *email.Error values of kind email.ErrTemplate.
package notice

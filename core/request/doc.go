// Package request turns takedown request documents into validated Records.
//
// A request document is a JSON object with a fixed set of keys. Validation is strict:
// every key must be present and non-blank, infringing_urls must be a non-empty list of
// strings, the Yes/No fields and content_source must hold one of their literals exactly,
// and unknown keys are rejected rather than ignored.
//
//	rec, err := request.Load("requests/acme.json")
//	if err != nil {
//		switch {
//		case errors.Is(err, request.ErrNotFound):
//		case errors.Is(err, request.ErrFormat):
//		case errors.Is(err, request.ErrSchema):
//			var cerr *request.ConfigError
//			errors.As(err, &cerr)
//			fmt.Println(cerr.Fields)
//		}
//	}
package request

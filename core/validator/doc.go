// Package validator provides struct tag-based validation with a pluggable rule registry.
//
// Rules are declared in a `validate` tag, separated by semicolons, with comma-separated
// parameters after a colon:
//
//	type Request struct {
//		Source string   `json:"content_source" validate:"required;in:GitHub,npm.js,Both"`
//		URLs   []string `json:"infringing_urls" validate:"required;no_blank_items"`
//		Port   int      `validate:"min:1;max:65535"`
//	}
//
//	if err := validator.ValidateStruct(&req); err != nil {
//		var verrs validator.ValidationErrors
//		if errors.As(err, &verrs) {
//			fmt.Println(verrs.Fields()) // [content_source]
//		}
//	}
//
// Fields are reported by their json name when the struct declares one, so error
// messages refer to keys as they appear in the input document. A failed "required"
// rule suppresses the remaining rules of that field.
//
// Built-in rules: required, in, email, min, max, no_blank_items.
// Custom rules can be added with RegisterValidator.
package validator

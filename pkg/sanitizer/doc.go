// Package sanitizer normalizes user-supplied text before it is stored.
//
// Validation decides whether input is acceptable; sanitizing runs after it
// and only cleans accepted values: markup is stripped, control characters
// dropped and whitespace collapsed. Transforms are plain func(string) string
// values combined with Compose:
//
//	clean := sanitizer.Compose(sanitizer.StripHTML, sanitizer.SingleLine)
//	title = clean(title)
package sanitizer

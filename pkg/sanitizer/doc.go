// Package sanitizer cleans untrusted request input before it reaches a model.
//
// Document strips keys that MongoDB would read as operators or nested paths
// ("$gt", "a.b") from a decoded JSON body and escapes HTML in every string:
//
//	body = sanitizer.Document(body, nil)
//
// String helpers are plain func(string) string values and can be chained
// with Apply and Compose:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.EscapeHTML)
//	safe := clean("  <b>hi</b> ") // "&lt;b&gt;hi&lt;/b&gt;"
package sanitizer

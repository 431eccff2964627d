package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	scriptTagRegex = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	jsEventRegex   = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*("[^"]*"|'[^']*')`)
	jsProtoRegex   = regexp.MustCompile(`(?i)javascript\s*:`)
	dotRegex       = regexp.MustCompile(`\.+`)
)

// EscapeHTML escapes HTML special characters to prevent XSS attacks.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// StripScriptTags removes all <script> tags and their content.
func StripScriptTags(s string) string {
	return scriptTagRegex.ReplaceAllString(s, "")
}

// RemoveJavaScriptEvents removes on* event handlers and javascript: URLs.
func RemoveJavaScriptEvents(s string) string {
	return jsProtoRegex.ReplaceAllString(jsEventRegex.ReplaceAllString(s, ""), "")
}

// RemoveControlChars removes control characters except common whitespace.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// PreventXSS strips scripts and event handlers, then escapes the rest.
var PreventXSS = Compose(
	RemoveControlChars,
	StripScriptTags,
	RemoveJavaScriptEvents,
	EscapeHTML,
)

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail lowercases and trims an address and collapses repeated dots
// in the local part. Invalid formats are returned trimmed and lowercased.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}
	local = strings.Trim(dotRegex.ReplaceAllString(local, "."), ".")
	return local + "@" + domain
}

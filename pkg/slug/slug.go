package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type config struct {
	separator string
	maxLength int
}

// Option configures Make.
type Option func(*config)

// Separator replaces the default "-".
func Separator(s string) Option {
	return func(c *config) { c.separator = s }
}

// MaxLength truncates the slug to n runes. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// letters without a canonical decomposition, plus the symbols spelled out
var replacer = strings.NewReplacer(
	"&", " and ",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
)

// fold strips combining marks: "é" becomes "e". Transformers keep state, so
// every call builds its own chain.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Make turns s into a lowercase URL segment made of ASCII letters, digits
// and single separators: "The Forest Hiker" becomes "the-forest-hiker".
func Make(s string, opts ...Option) string {
	cfg := config{separator: "-"}
	for _, opt := range opts {
		opt(&cfg)
	}

	s = fold(replacer.Replace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	count := 0
	for _, r := range strings.ToLower(s) {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			if cfg.maxLength > 0 && count+len(cfg.separator)+1 > cfg.maxLength {
				break
			}
			b.WriteString(cfg.separator)
			count += len(cfg.separator)
			pendingSep = false
		}
		if cfg.maxLength > 0 && count >= cfg.maxLength {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

// Valid reports whether s is already a slug produced with the default options.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}

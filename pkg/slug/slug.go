package slug

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

// MaxLength truncates the slug, before any suffix, to n runes.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator replaces the default "-".
func Separator(s string) Option {
	return func(c *config) {
		if s != "" {
			c.separator = s
		}
	}
}

// WithSuffix appends a random lowercase alphanumeric suffix of length n.
func WithSuffix(n int) Option {
	return func(c *config) {
		c.suffixLength = n
	}
}

// letters that do not decompose under NFD.
var replacer = strings.NewReplacer("đ", "d", "Đ", "d", "ø", "o", "Ø", "o", "ł", "l", "Ł", "l", "ß", "ss", "æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe")

// Make lowercases s, strips diacritics (Vietnamese tones included) and joins
// the remaining ASCII letters and digits with the separator.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-"}
	for _, opt := range opts {
		opt(cfg)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, replacer.Replace(s))
	if err != nil {
		plain = s
	}

	words := strings.FieldsFunc(strings.ToLower(plain), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	out := strings.Join(words, cfg.separator)

	if cfg.maxLength > 0 && len(out) > cfg.maxLength {
		out = strings.TrimRight(out[:cfg.maxLength], cfg.separator)
	}
	if cfg.suffixLength > 0 {
		if out != "" {
			out += cfg.separator
		}
		out += suffix(cfg.suffixLength)
	}
	return out
}

func suffix(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

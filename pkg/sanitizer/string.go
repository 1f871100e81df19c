package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	spaces     = regexp.MustCompile(`[^\S\n]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	whitespace = regexp.MustCompile(`\s+`)
	dots       = regexp.MustCompile(`\.{2,}`)
)

// Line cleans a single-line field such as a name or a title.
var Line = Compose(StripHTML, RemoveControlChars, SingleLine)

// Text cleans free text such as a message or a review comment. Line breaks
// survive; runs of more than one blank line are collapsed.
var Text = Compose(StripHTML, RemoveControlChars, normalizeLines)

// StripHTML removes tags and unescapes entities.
func StripHTML(s string) string {
	return html.UnescapeString(htmlTag.ReplaceAllString(s, ""))
}

// RemoveControlChars drops control characters except newlines and tabs.
// Carriage returns are dropped so CRLF input becomes LF.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine joins lines and collapses whitespace to single spaces.
func SingleLine(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func normalizeLines(s string) string {
	lines := strings.Split(spaces.ReplaceAllString(s, " "), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// Email lowercases and trims an address and collapses repeated dots in its
// local part. Strings without exactly one @ are only trimmed and lowercased.
func Email(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}
	local = strings.Trim(dots.ReplaceAllString(local, "."), ".")
	return local + "@" + domain
}

// Phone keeps the digits of a phone number and a leading plus sign.
func Phone(phone string) string {
	phone = strings.TrimSpace(phone)
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if strings.HasPrefix(phone, "+") && digits != "" {
		return "+" + digits
	}
	return digits
}

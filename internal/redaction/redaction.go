// Package redaction scrubs secrets out of note text before it is stored.
package redaction

import (
	"bufio"
	"errors"
	"os"
	"regexp"
	"strings"
)

// Replacement is substituted for every redacted span.
const Replacement = "[REDACTED]"

// builtin matches credentials that commonly get pasted into notes.
var builtin = []*regexp.Regexp{
	regexp.MustCompile(`(?i)sk_(?:live|test)_[a-zA-Z0-9]+`),    // Stripe keys
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]+`),               // GitHub tokens
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),                     // AWS access key IDs
	regexp.MustCompile(`xox[bpas]-[a-zA-Z0-9-]+`),              // Slack tokens
	regexp.MustCompile(`-----BEGIN (?:RSA )?PRIVATE KEY-----`), // Private keys
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+`), // JWTs
	regexp.MustCompile(`(?i)(?:password|secret|api[_-]?key)\s*[:=]\s*["']?.+`),
}

var taggedRe = regexp.MustCompile(`(?s)<redacted>.*?</redacted>`)

// Redactor applies the built-in patterns plus any user-supplied ones.
type Redactor struct {
	extra []*regexp.Regexp
}

// New returns a Redactor that also applies extra.
func New(extra []*regexp.Regexp) *Redactor {
	return &Redactor{extra: extra}
}

// Redact returns text with secrets replaced. Explicit <redacted>…</redacted>
// spans go first, then stray tags are dropped, then the pattern lists run.
func (r *Redactor) Redact(text string) string {
	text = taggedRe.ReplaceAllString(text, Replacement)
	text = strings.ReplaceAll(text, "<redacted>", "")
	text = strings.ReplaceAll(text, "</redacted>", "")

	for _, re := range builtin {
		text = re.ReplaceAllString(text, Replacement)
	}
	for _, re := range r.extra {
		text = re.ReplaceAllString(text, Replacement)
	}
	return text
}

// LoadPatterns compiles each non-blank, non-comment line of path as a
// regular expression. A missing file yields no patterns and no error.
func LoadPatterns(path string) ([]*regexp.Regexp, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []*regexp.Regexp
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		re, err := regexp.Compile(line)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}
	return patterns, scanner.Err()
}

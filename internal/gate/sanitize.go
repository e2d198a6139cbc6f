package gate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxFieldLen caps free-text fields, in runes, before any further processing.
// Must match the validator's message bound so a valid message is never cut.
const maxFieldLen = 5000

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	// ASCII control characters except tab, LF and CR.
	controlPattern = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// Sanitize trims and caps a free-text field, strips tag markup while keeping
// the enclosed text, and drops ASCII control characters. It never fails and
// is idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(input string) string {
	out := strings.TrimSpace(input)
	if utf8.RuneCountInString(out) > maxFieldLen {
		// Cut after maxFieldLen runes without re-encoding the kept prefix;
		// an invalid byte counts as one rune, same as RuneCountInString.
		end := 0
		for i := 0; i < maxFieldLen; i++ {
			_, size := utf8.DecodeRuneInString(out[end:])
			end += size
		}
		out = out[:end]
	}
	out = tagPattern.ReplaceAllString(out, "")
	out = controlPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

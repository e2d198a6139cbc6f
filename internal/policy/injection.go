package policy

import "regexp"

// RefusalMessage is the fixed reply for screened-out chat messages.
const RefusalMessage = "I can only answer questions about the site owner's work and projects."

// Patterns stay anchored to clear override phrasing. The screen is a
// best-effort heuristic: false negatives are acceptable, false positives
// should stay rare.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|above|prior|system)\s*(instructions?|prompts?|rules?)?`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|above|prior|system)`),
	regexp.MustCompile(`(?i)forget\s+(your\s+|the\s+|all\s+)?(instructions?|prompts?|rules?|everything)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\b`),
	regexp.MustCompile(`(?i)new\s+instructions?\b`),
	regexp.MustCompile(`(?i)\boverride\b`),
	regexp.MustCompile(`(?i)\bjailbreak\b`),
	regexp.MustCompile(`(?i)system\s+prompt`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)\b`),
}

// ScreenInjection checks a chat message for instruction-override attempts.
// A match returns the fixed refusal and true; the message must then never
// reach the model.
func ScreenInjection(message string) (string, bool) {
	for _, p := range injectionPatterns {
		if p.MatchString(message) {
			return RefusalMessage, true
		}
	}
	return "", false
}

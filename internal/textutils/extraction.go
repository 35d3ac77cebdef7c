package textutils

import (
	"regexp"
	"strings"
)

// Patterns for merchant-like substrings in common UK bank description shapes.
// Tried in order; the first capture wins.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CARD PAYMENT TO\s+(.+?)(?:\s+ON\s+\d|\s+REF\b|$)`),
	regexp.MustCompile(`(?i)^DD\s+(.+?)(?:\s+REF\b|$)`),
	regexp.MustCompile(`(?i)DIRECT DEBIT(?: PAYMENT)? TO\s+(.+?)(?:\s+REF\b|$)`),
	regexp.MustCompile(`(?i)STANDING ORDER TO\s+(.+?)(?:\s+REF\b|$)`),
	regexp.MustCompile(`(?i)(?:^|\s)SO\s+(.+?)(?:\s+REF\b|$)`),
}

// allCapsRun matches a run of two or more upper-case words, the typical shape
// of a merchant name embedded in a statement line.
var allCapsRun = regexp.MustCompile(`\b([A-Z][A-Z0-9&'.-]+(?:\s+[A-Z0-9&'.-]+)+)\b`)

// ExtractMerchant pulls a merchant-like substring out of a bank description.
// Returns the raw capture, trimmed; empty string when nothing plausible is
// found.
func ExtractMerchant(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	for _, re := range merchantPatterns {
		if m := re.FindStringSubmatch(description); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	// Fall back to an ALL-CAPS run when the description itself is mixed case.
	if description != strings.ToUpper(description) {
		if m := allCapsRun.FindStringSubmatch(description); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	return ""
}

// TitleCase converts an extracted merchant fragment into a display name:
// "TESCO STORES 1234" becomes "Tesco Stores 1234".
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

package match

import (
	"regexp"
	"strings"
)

// Edition/version qualifiers stripped before comparison. A qualifier is
// removed together with its surrounding parentheses or brackets when
// present, and as a bare phrase otherwise.
var (
	bracketQualifierRe = regexp.MustCompile(`(?i)\s*[(\[][^)\]]*(remaster|deluxe|expanded|special|anniversary|bonus|collector|limited)[^)\]]*[)\]]`)
	bareQualifierRe    = regexp.MustCompile(`(?i)\b(remastered|remaster|deluxe edition|deluxe|expanded edition|expanded|special edition|anniversary edition|anniversary|bonus tracks|bonus track|bonus|collector's edition|collectors edition|collector|limited edition|limited)\b`)
	punctuationRe      = regexp.MustCompile(`[^\p{L}\p{N}'\s]`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
	digitsRe           = regexp.MustCompile(`^[0-9]+$`)
	romanRe            = regexp.MustCompile(`^[ivxlcdm]+$`)
)

// Normalize canonicalizes an album or artist title for comparison. Purely
// numeric and purely Roman-numeral titles pass through untouched: those are
// frequently self-titled album names ("311", "IV") and must not be mangled.
// Normalize is idempotent.
func Normalize(title string) string {
	trimmed := strings.TrimSpace(title)
	lowered := strings.ToLower(trimmed)
	if digitsRe.MatchString(lowered) || (lowered != "" && romanRe.MatchString(lowered)) {
		return trimmed
	}

	s := lowered
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "+", " and ")
	s = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(s)
	s = bracketQualifierRe.ReplaceAllString(s, " ")
	s = bareQualifierRe.ReplaceAllString(s, " ")
	s = punctuationRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsNumeric reports whether the trimmed string is a pure digit sequence.
func IsNumeric(s string) bool {
	return digitsRe.MatchString(strings.TrimSpace(s))
}

// IsRomanNumeral reports whether the trimmed, lowered string consists only
// of Roman-numeral characters.
func IsRomanNumeral(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return t != "" && romanRe.MatchString(t)
}

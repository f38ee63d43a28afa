package isbn

import (
	"strings"
	"unicode"
)

// Normalize removes whitespace and hyphens, the separators commonly found
// in printed ISBNs. Other characters are kept so that Parse can reject them.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// Clean keeps only digits and 'X' (upper-cased), dropping everything else.
// It does not validate.
func Clean(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == 'x' || r == 'X':
			sb.WriteByte('X')
		}
	}
	return sb.String()
}

// Hyphenate groups a 10 or 13 character ISBN for display. The grouping is
// fixed (2-4-3-1 and 3-2-4-3-1) and not derived from registration group
// ranges. Other lengths are returned unchanged.
func Hyphenate(s string) string {
	switch len(s) {
	case Length10:
		return s[0:2] + "-" + s[2:6] + "-" + s[6:9] + "-" + s[9:]
	case Length13:
		return s[0:3] + "-" + s[3:5] + "-" + s[5:9] + "-" + s[9:12] + "-" + s[12:]
	default:
		return s
	}
}

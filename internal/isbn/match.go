package isbn

import "strings"

// Matches reports whether a and b denote the same book. A nil argument
// never matches.
func Matches(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return MatchStrings(*a, *b)
}

// MatchStrings reports whether a and b denote the same book, tolerating
// ISBN-10 versus ISBN-13 representations.
//
// Strings of equal length are compared literally, ignoring case. Otherwise
// both must parse as valid ISBNs and share the same nine-digit payload;
// check digits and the 978/979 prefix are ignored.
func MatchStrings(a, b string) bool {
	if len(a) == len(b) {
		return strings.EqualFold(a, b)
	}

	va := Parse(a)
	if !va.Valid() {
		return false
	}
	vb := Parse(b)
	if !vb.Valid() {
		return false
	}
	return va.SamePayload(vb)
}

// SamePayload reports whether two valid values share the same nine-digit
// payload. Invalid values never match.
func (v ISBN) SamePayload(other ISBN) bool {
	if !v.Valid() || !other.Valid() {
		return false
	}
	pa, _ := v.Payload()
	pb, _ := other.Payload()
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

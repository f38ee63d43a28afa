package isbn

import "fmt"

var booklandPrefix = [3]int{9, 7, 8}

// To10 returns the ISBN-10 form. A valid ISBN-10 is returned unchanged
// (canonicalized); an ISBN-13 is reduced to its payload with a freshly
// computed check digit.
func (v ISBN) To10() (string, error) {
	if !v.Valid() {
		return "", fmt.Errorf("convert %q to ISBN-10: %w", v.String(), ErrInvalidISBN)
	}
	if v.n == Length10 {
		return v.String(), nil
	}
	if v.digits[2] != 8 {
		return "", fmt.Errorf("convert %q to ISBN-10: %w", v.String(), ErrNotConvertible)
	}

	out := make([]int, 0, Length10)
	out = append(out, v.digits[3:3+payloadLength]...)
	out = append(out, checkDigit10(out))
	return concat(out), nil
}

// To13 returns the ISBN-13 form. An ISBN-10 gets the 978 prefix and a
// freshly computed check digit.
func (v ISBN) To13() (string, error) {
	if !v.Valid() {
		return "", fmt.Errorf("convert %q to ISBN-13: %w", v.String(), ErrInvalidISBN)
	}
	if v.n == Length13 {
		return v.String(), nil
	}

	out := make([]int, 0, Length13)
	out = append(out, booklandPrefix[:]...)
	out = append(out, v.digits[:payloadLength]...)
	out = append(out, checkDigit13(out))
	return concat(out), nil
}

// Convert returns the other representation: ISBN-10 becomes ISBN-13 and
// ISBN-13 becomes ISBN-10.
func (v ISBN) Convert() (string, error) {
	if v.Valid() && v.n == Length10 {
		return v.To13()
	}
	return v.To10()
}

// Convert parses raw and returns its other representation. It fails with
// ErrInvalidISBN if raw is not a valid ISBN.
func Convert(raw string) (string, error) {
	return Parse(raw).Convert()
}

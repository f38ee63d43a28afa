// Package isbn parses, validates and converts International Standard Book
// Numbers.
//
// A parsed ISBN is an immutable value. Parsing never fails with an error:
// malformed or checksum-failing input produces a value whose Valid method
// reports false, so callers can treat "is this an ISBN?" as a plain query.
// Only conversion of an invalid value is an error (ErrInvalidISBN).
//
// # Usage
//
//	if isbn.Validate("0131103628") {
//		isbn13, err := isbn.Convert("0131103628") // "9780131103627"
//	}
//
//	isbn.MatchStrings("0345300548", "9780345300546") // true
//
// All functions are safe for concurrent use; the only shared state is the
// read-only UPC vendor prefix table.
package isbn

import (
	"errors"
	"strings"
)

const (
	// Length10 is the number of digits in an ISBN-10.
	Length10 = 10
	// Length13 is the number of digits in an ISBN-13.
	Length13 = 13

	// payloadLength is the number of digits shared by the ISBN-10 and
	// ISBN-13 forms of the same title.
	payloadLength = 9

	// digitX is the value of the 'X' check character of an ISBN-10.
	digitX = 10
)

var (
	// ErrInvalidISBN is returned when converting a value that did not parse
	// to a valid ISBN.
	ErrInvalidISBN = errors.New("invalid ISBN")

	// ErrNotConvertible is returned when a valid ISBN-13 has no ISBN-10
	// equivalent (the 979 prefix range).
	ErrNotConvertible = errors.New("ISBN-13 has no ISBN-10 equivalent")

	// ErrWrongLength is returned by the check digit calculators when given
	// a payload of the wrong size.
	ErrWrongLength = errors.New("wrong number of digits")
)

// Type identifies the representation of a parsed ISBN.
type Type int

const (
	TypeInvalid Type = iota
	TypeISBN10
	TypeISBN13
)

func (t Type) String() string {
	switch t {
	case TypeISBN10:
		return "isbn10"
	case TypeISBN13:
		return "isbn13"
	default:
		return "invalid"
	}
}

// Status is the outcome of parsing.
type Status int

const (
	// StatusMalformed means the input contained an illegal character, an
	// 'X' outside the ISBN-10 check position, or had a length other than
	// 10 or 13.
	StatusMalformed Status = iota
	// StatusChecksumMismatch means the input had the right shape but its
	// check digit is wrong.
	StatusChecksumMismatch
	// StatusUnknownPrefix means a 13-digit input with a correct EAN check
	// digit that does not start with 978 or 979.
	StatusUnknownPrefix
	// StatusValid means the input is a valid ISBN-10 or ISBN-13.
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusChecksumMismatch:
		return "checksum_mismatch"
	case StatusUnknownPrefix:
		return "unknown_prefix"
	default:
		return "malformed"
	}
}

// ISBN is a parsed book number. The zero value is an empty, malformed ISBN.
type ISBN struct {
	digits [Length13]int
	n      int
	status Status
}

// Parse reads raw as an ISBN-10 or ISBN-13.
//
// raw must already be free of separators (see Normalize). Digits are kept
// on a checksum failure so that callers can still compare them.
func Parse(raw string) ISBN {
	var v ISBN
	foundX := false

	for _, r := range raw {
		var d int
		switch {
		case r >= '0' && r <= '9':
			if foundX {
				return v
			}
			d = int(r - '0')
		case (r == 'X' || r == 'x') && v.n == payloadLength:
			d = digitX
			foundX = true
		default:
			return v
		}

		if v.n >= Length13 {
			return v
		}
		v.digits[v.n] = d
		v.n++
	}

	v.status = v.check()
	return v
}

func (v ISBN) check() Status {
	switch v.n {
	case Length10:
		if validSum10(v.digits[:Length10]) {
			return StatusValid
		}
		return StatusChecksumMismatch
	case Length13:
		if !validSum13(v.digits[:Length13]) {
			return StatusChecksumMismatch
		}
		if !v.hasBooklandPrefix() {
			return StatusUnknownPrefix
		}
		return StatusValid
	default:
		return StatusMalformed
	}
}

func (v ISBN) hasBooklandPrefix() bool {
	return v.n == Length13 &&
		v.digits[0] == 9 && v.digits[1] == 7 &&
		(v.digits[2] == 8 || v.digits[2] == 9)
}

// Valid reports whether the value is a valid ISBN-10 or ISBN-13.
func (v ISBN) Valid() bool {
	return v.status == StatusValid
}

// Status returns the parse outcome.
func (v ISBN) Status() Status {
	return v.status
}

// Type returns TypeISBN10 or TypeISBN13 for valid values, TypeInvalid otherwise.
func (v ISBN) Type() Type {
	if !v.Valid() {
		return TypeInvalid
	}
	if v.n == Length10 {
		return TypeISBN10
	}
	return TypeISBN13
}

// Len returns the number of digits read.
func (v ISBN) Len() int {
	return v.n
}

// Digits returns a copy of the digits read. The ISBN-10 check character
// 'X' is reported as 10.
func (v ISBN) Digits() []int {
	out := make([]int, v.n)
	copy(out, v.digits[:v.n])
	return out
}

// Payload returns the nine digits common to the ISBN-10 and ISBN-13 forms
// of a title: positions 0-8 of an ISBN-10, positions 3-11 of an ISBN-13.
// ok is false when the value is neither 10 nor 13 digits long.
func (v ISBN) Payload() (payload []int, ok bool) {
	switch v.n {
	case Length10:
		return append([]int(nil), v.digits[:payloadLength]...), true
	case Length13:
		return append([]int(nil), v.digits[3:3+payloadLength]...), true
	default:
		return nil, false
	}
}

// String renders the digits read, using 'X' for a check value of 10.
func (v ISBN) String() string {
	return concat(v.digits[:v.n])
}

func concat(digits []int) string {
	var sb strings.Builder
	sb.Grow(len(digits))
	for _, d := range digits {
		if d == digitX {
			sb.WriteByte('X')
		} else {
			sb.WriteByte(byte('0' + d))
		}
	}
	return sb.String()
}

// Validate reports whether raw is a valid ISBN-10 or ISBN-13.
func Validate(raw string) bool {
	return Parse(raw).Valid()
}

package isbn

import "fmt"

// ISBN-10: weights 10 down to 1, valid when the sum is divisible by 11.
// ISBN-13: weights alternate 1 and 3, valid when the sum is divisible by 10.

func weightedSum10(digits []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (Length10 - i)
	}
	return sum
}

func weightedSum13(digits []int) int {
	sum := 0
	for i, d := range digits {
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return sum
}

func validSum10(digits []int) bool {
	return weightedSum10(digits)%11 == 0
}

func validSum13(digits []int) bool {
	return weightedSum13(digits)%10 == 0
}

func checkDigit10(payload []int) int {
	return (11 - weightedSum10(payload)%11) % 11
}

func checkDigit13(payload []int) int {
	return (10 - weightedSum13(payload)%10) % 10
}

// CheckDigit10 computes the ISBN-10 check value for nine payload digits.
// The result is in [0,10]; 10 is written as 'X'.
func CheckDigit10(payload []int) (int, error) {
	if len(payload) != Length10-1 {
		return 0, fmt.Errorf("isbn-10 check digit: %w: %d", ErrWrongLength, len(payload))
	}
	if err := checkRange(payload); err != nil {
		return 0, err
	}
	return checkDigit10(payload), nil
}

// CheckDigit13 computes the ISBN-13 (EAN-13) check digit for twelve digits.
func CheckDigit13(payload []int) (int, error) {
	if len(payload) != Length13-1 {
		return 0, fmt.Errorf("isbn-13 check digit: %w: %d", ErrWrongLength, len(payload))
	}
	if err := checkRange(payload); err != nil {
		return 0, err
	}
	return checkDigit13(payload), nil
}

func checkRange(digits []int) error {
	for i, d := range digits {
		if d < 0 || d > 9 {
			return fmt.Errorf("digit %d out of range: %d", i, d)
		}
	}
	return nil
}

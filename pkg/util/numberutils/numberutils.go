package numberutils

import (
	"errors"
	"strconv"
	"unicode"
)

// ErrNotPositive is returned by ToPositiveInt64 for zero, negative or signed input
var ErrNotPositive = errors.New("value must be a positive integer")

// IsDigits checks if the given string contains only ASCII digits (0-9).
// It returns false for the empty string.
func IsDigits(str string) bool {
	if str == "" {
		return false
	}
	for _, r := range str {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ToInt64WithError converts the given string to an int64 and returns any error that occurred during conversion.
func ToInt64WithError(str string) (int64, error) {
	return strconv.ParseInt(str, 10, 64)
}

// ToPositiveInt64 converts an unsigned decimal string to an int64 greater than zero.
// Signs, spaces and values beyond the int64 range are rejected.
func ToPositiveInt64(str string) (int64, error) {
	if !IsDigits(str) {
		return 0, ErrNotPositive
	}
	value, err := ToInt64WithError(str)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, ErrNotPositive
	}
	return value, nil
}

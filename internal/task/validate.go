package task

import (
	"fmt"
	"unicode/utf8"
)

// LengthError reports a field that exceeds its maximum length.
type LengthError struct {
	Field  string
	Length int
	Max    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s should be less than or equal to %d characters", e.Field, e.Max)
}

// ValidateLength returns a *LengthError when length exceeds max, nil otherwise.
func ValidateLength(field string, length, max int) error {
	if length > max {
		return &LengthError{Field: field, Length: length, Max: max}
	}
	return nil
}

// Len counts code points, which is what the length limits are expressed in.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

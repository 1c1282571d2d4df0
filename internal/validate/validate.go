// Package validate checks user-supplied values at the storage and HTTP
// boundaries. The pricing engines accept any number; these rules only guard
// what gets persisted.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Error is a user-facing validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + " " + e.Message
}

// IsValidation reports whether err is, or wraps, a validation Error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

func fail(field, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Finite rejects NaN and infinities.
func Finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fail(field, "must be a number")
	}
	return nil
}

// NonNegative requires v >= 0.
func NonNegative(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return fail(field, "must be greater than or equal to 0")
	}
	return nil
}

// Positive requires v > 0.
func Positive(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return fail(field, "must be greater than 0")
	}
	return nil
}

// Percent requires 0 <= v <= 100.
func Percent(field string, v float64) error {
	if err := NonNegative(field, v); err != nil {
		return err
	}
	if v > 100 {
		return fail(field, "must be between 0 and 100")
	}
	return nil
}

// Range requires lo <= v <= hi.
func Range(field string, v, lo, hi float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return fail(field, "must be between %v and %v", lo, hi)
	}
	return nil
}

// TooLarge reports inputs whose computed amounts overflow to a non-finite number.
func TooLarge(field string) error {
	return fail(field, "produces amounts too large to compute")
}

// Required rejects blank strings.
func Required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fail(field, "is required")
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

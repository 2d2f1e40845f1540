package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences v, yielding the zero value for nil.
func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// NonBlank trims s and returns nil when nothing is left, so optional text
// columns store NULL instead of whitespace.
func NonBlank(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

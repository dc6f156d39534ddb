package errx

import (
	"context"
	"errors"
)

// Classification helpers so callers can branch on error categories
// without parsing messages.

// HasType reports whether the first Error in err's chain has the given type
func HasType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the type of the first Error in err's chain,
// or TypeInternal when the chain carries no Error
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// IsCancelled reports whether err represents an aborted operation,
// covering both context cancellation and TypeCancelled errors
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return HasType(err, TypeCancelled)
}

// IsTimeout reports whether err represents an expired deadline,
// covering both context deadlines and TypeTimeout errors
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return HasType(err, TypeTimeout)
}

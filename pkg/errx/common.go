package errx

// Common error constructors for convenience

// Internal creates an internal error
func Internal(message string) *Error {
	return New(message, TypeInternal)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(message, TypeValidation)
}

// Cancelled creates a cancellation error
func Cancelled(message string) *Error {
	return New(message, TypeCancelled)
}

// Timeout creates a timeout error
func Timeout(message string) *Error {
	return New(message, TypeTimeout)
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return New(message, TypeConflict)
}

// Exhausted creates an exhaustion error
func Exhausted(message string) *Error {
	return New(message, TypeExhausted)
}

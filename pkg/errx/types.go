package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents unexpected internal errors
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents invalid input or configuration errors
	TypeValidation Type = "VALIDATION"

	// TypeCancelled represents operations aborted by cancellation
	TypeCancelled Type = "CANCELLED"

	// TypeTimeout represents operations that exceeded their deadline
	TypeTimeout Type = "TIMEOUT"

	// TypeConflict represents operations rejected because of current state
	TypeConflict Type = "CONFLICT"

	// TypeExhausted represents exhausted capacity, queues, or attempts
	TypeExhausted Type = "EXHAUSTED"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

package timex

import "github.com/Abraxas-365/orquesta/pkg/errx"

var timeErrors = errx.NewRegistry("TIMEX")

var (
	ErrTimeout         = timeErrors.Register("TIMEOUT", errx.TypeTimeout, "Operation timed out")
	ErrInvalidInterval = timeErrors.Register("INVALID_INTERVAL", errx.TypeValidation, "Interval must be positive")
	ErrInvalidSchedule = timeErrors.Register("INVALID_SCHEDULE", errx.TypeValidation, "Invalid cron expression")
	ErrMissingCallback = timeErrors.Register("MISSING_CALLBACK", errx.TypeValidation, "Tick callback is required")
)

package batchx

import "github.com/Abraxas-365/orquesta/pkg/errx"

var batchErrors = errx.NewRegistry("BATCHX")

var (
	ErrAlreadyRunning = batchErrors.Register("ALREADY_RUNNING", errx.TypeConflict, "Batch is already executing")
	ErrInvalidTask    = batchErrors.Register("INVALID_TASK", errx.TypeValidation, "Task has no function")
	ErrQueueFull      = batchErrors.Register("QUEUE_FULL", errx.TypeExhausted, "Rate limiter queue is full")
)

package flowx

import "github.com/Abraxas-365/orquesta/pkg/errx"

var flowErrors = errx.NewRegistry("FLOWX")

var (
	ErrInvalidTask       = flowErrors.Register("INVALID_TASK", errx.TypeValidation, "Task needs an id and a run function")
	ErrDuplicateTask     = flowErrors.Register("DUPLICATE_TASK", errx.TypeConflict, "A task with this id is already registered")
	ErrUnknownDependency = flowErrors.Register("UNKNOWN_DEPENDENCY", errx.TypeValidation, "Task depends on an id that was never registered")
	ErrCycleDetected     = flowErrors.Register("CYCLE_DETECTED", errx.TypeValidation, "Dependency graph contains a cycle")
	ErrUnknownResultTask = flowErrors.Register("UNKNOWN_RESULT_TASK", errx.TypeValidation, "Result task id is not registered")
	ErrAlreadyRunning    = flowErrors.Register("ALREADY_RUNNING", errx.TypeConflict, "A run is already in flight on this engine")
	ErrFrozen            = flowErrors.Register("FROZEN", errx.TypeConflict, "Task set cannot change once the engine has run")
)

package lifex

import "github.com/Abraxas-365/orquesta/pkg/errx"

var lifeErrors = errx.NewRegistry("LIFEX")

var (
	ErrShutdownStarted = lifeErrors.Register("SHUTDOWN_STARTED", errx.TypeConflict, "Shutdown has already begun")
	ErrShutdownTimeout = lifeErrors.Register("SHUTDOWN_TIMEOUT", errx.TypeTimeout, "Shutdown deadline elapsed before all cleanups ran")
)

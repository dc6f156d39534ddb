package cancelx

import "github.com/Abraxas-365/orquesta/pkg/errx"

var cancelErrors = errx.NewRegistry("CANCELX")

var (
	ErrCancelled = cancelErrors.Register("CANCELLED", errx.TypeCancelled, "Operation cancelled")
)

package hookx

import "github.com/Abraxas-365/orquesta/pkg/errx"

var hookErrors = errx.NewRegistry("HOOKX")

var (
	ErrHookFailed = hookErrors.Register("HOOK_FAILED", errx.TypeInternal, "Hook execution failed")
)

package retryx

import (
	"strings"

	"github.com/Abraxas-365/orquesta/pkg/errx"
)

// Failure messages that mark an error as permanent regardless of its type.
var permanentMarkers = []string{
	"fatal",
	"unauthorized",
	"forbidden",
	"not found",
}

// DefaultShouldRetry is the predicate used when none is configured.
// It refuses cancellations, validation failures, and errors whose message
// marks them permanent; everything else is considered transient.
func DefaultShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	if errx.IsCancelled(err) {
		return false
	}
	if errx.HasType(err, errx.TypeValidation) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	return true
}

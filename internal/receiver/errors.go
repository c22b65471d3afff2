package receiver

import (
	"context"
	"errors"

	"github.com/hammamikhairi/lrcshow/internal/domain"
)

// Class is a coarse error category, used for logging only. Nothing in the
// receiver is fatal; every class leaves the state as it was or blank.
type Class string

const (
	// ClassRecoverable is a failed pull call; a later event may heal it.
	ClassRecoverable Class = "recoverable"
	// ClassUnavailable means the provider has nothing to give or is gone.
	ClassUnavailable Class = "unavailable"
	// ClassDegraded is a payload we could not use and dropped.
	ClassDegraded Class = "degraded"
	// ClassCanceled is a call cut short by our own shutdown.
	ClassCanceled Class = "canceled"
)

// Classify maps err to a Class. It only looks at sentinel errors, never at
// message text.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassRecoverable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCanceled
	case errors.Is(err, domain.ErrNoLyrics), errors.Is(err, domain.ErrNotConnected):
		return ClassUnavailable
	case errors.Is(err, domain.ErrBadSignal):
		return ClassDegraded
	default:
		return ClassRecoverable
	}
}

package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the current status does not
	// permit the requested action
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnknownStatus is returned when a status is not part of the lifecycle
	ErrUnknownStatus = errors.New("unknown cheque status")
)

// InvalidTransitionError carries the offending origin status and action so
// callers can report exactly which edge was refused.
type InvalidTransitionError struct {
	From   Status
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	if e.From.IsTerminal() {
		return fmt.Sprintf("invalid state transition: %s is terminal, cannot %s", e.From, e.Action)
	}
	return fmt.Sprintf("invalid state transition: cannot %s from %s", e.Action, e.From)
}

// Unwrap makes the error match ErrInvalidTransition under errors.Is
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

package core

import (
	"errors"
	"fmt"
)

const (
	MessageIncompleteLink = "This booking link is incomplete."
	MessageLoadFailed     = "We couldn't load this booking page. Please try again later."
	MessageSubmitFailed   = "We couldn't complete your booking. Please try again."
)

var (
	ErrIllegalTransition  = errors.New("illegal transition")
	ErrMissingIdentifiers = errors.New("creator id and service id are required")
	ErrDateNotSelectable  = errors.New("date is not selectable")
	ErrSlotNotSelectable  = errors.New("slot is not selectable")
)

// TransitionError is returned when an operation is called in a state that does not accept it.
type TransitionError struct {
	Op    string
	State State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

func illegal(op string, state State) error {
	return &TransitionError{Op: op, State: state}
}

// loadError carries the message shown to the visitor when initial loading fails.
type loadError struct {
	message string
}

func (e *loadError) Error() string {
	return e.message
}

func visitorMessage(err error) string {
	var le *loadError
	switch {
	case errors.As(err, &le):
		return le.message
	case errors.Is(err, ErrMissingIdentifiers):
		return MessageIncompleteLink
	default:
		return MessageLoadFailed
	}
}

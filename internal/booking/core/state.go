package core

import "fmt"

type State string

// Slot selection happens inside StateSelectDate; there is no separate time-picking state.
const (
	StateLoading    State = "loading"
	StateSelectDate State = "select-date"
	StateForm       State = "form"
	StateConfirming State = "confirming"
	StateConfirmed  State = "confirmed"
	StateError      State = "error"
)

func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateError
}

type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionPrev, DirectionNext:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("direction must be %q or %q, got %q", DirectionPrev, DirectionNext, s)
	}
}

func (d Direction) delta() int {
	if d == DirectionPrev {
		return -1
	}
	return 1
}

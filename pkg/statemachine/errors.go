package statemachine

import (
	"errors"
	"fmt"
)

// Declaration errors.
var (
	ErrSelfTransition      = errors.New("statemachine: transition to the same state")
	ErrDuplicateTransition = errors.New("statemachine: duplicate transition")
)

// NoTransitionError is returned by Fire for an undeclared change.
type NoTransitionError[S comparable] struct {
	From, To S
}

func (e *NoTransitionError[S]) Error() string {
	return fmt.Sprintf("no transition from %v to %v", e.From, e.To)
}

// RejectedError is returned by Fire when a guard blocks a declared change.
type RejectedError[S comparable] struct {
	From, To S
}

func (e *RejectedError[S]) Error() string {
	return fmt.Sprintf("transition from %v to %v rejected by guards", e.From, e.To)
}

// IsNoTransition reports whether err is a NoTransitionError for S.
func IsNoTransition[S comparable](err error) bool {
	var e *NoTransitionError[S]
	return errors.As(err, &e)
}

// IsRejected reports whether err is a RejectedError for S.
func IsRejected[S comparable](err error) bool {
	var e *RejectedError[S]
	return errors.As(err, &e)
}

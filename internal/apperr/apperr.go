// Package apperr holds the error kinds every state-changing operation reports.
// Callers classify with errors.Is against the sentinels below.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrAuthorization        = errors.New("authorization error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrConflict             = errors.New("conflict")
	ErrSessionAlreadyActive = errors.New("session already active")
	ErrOutsideWindow        = errors.New("outside join window")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Authorization(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func OutsideWindow(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutsideWindow, fmt.Sprintf(format, args...))
}

// TransitionError reports an event rejected by the current state.
type TransitionError struct {
	Entity  string
	Event   string
	Current string
	Target  string
}

func (e *TransitionError) Error() string {
	if e.AlreadyInState() {
		return fmt.Sprintf("%s is already %s", e.Entity, e.Current)
	}
	return fmt.Sprintf("cannot %s %s in status %s", e.Event, e.Entity, e.Current)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// AlreadyInState is true for duplicate requests, e.g. approving twice.
func (e *TransitionError) AlreadyInState() bool {
	return e.Current == e.Target
}

func Transition(entity, event, current, target string) error {
	return &TransitionError{Entity: entity, Event: event, Current: current, Target: target}
}

package patterns

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when text handed to a matcher is not valid UTF-8.
	ErrInvalidInput = errors.New("input is not valid UTF-8 text")
	// ErrUnknownPattern is returned for names the registry does not hold.
	ErrUnknownPattern = errors.New("unknown pattern")
	// ErrUnknownCategory is returned for category keys outside Categories().
	ErrUnknownCategory = errors.New("unknown category")
	// ErrMatchTimeout is returned when a match runs longer than MatchTimeout.
	ErrMatchTimeout = errors.New("match timed out")
)

// CompileError reports a grammar that failed to compile.
type CompileError struct {
	Name Name
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile pattern %s: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

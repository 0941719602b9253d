package cli

import (
	"errors"
	"fmt"
)

const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
)

// InvocationError is a problem with how the program was called: bad
// arguments, an unparsable id, or unusable configuration.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf(format, args...)}
}

// CommandError is a failed task operation (storage, format, id exhaustion).
type CommandError struct {
	ExitCode int
	Cause    error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	return e.Cause.Error()
}

func (e *CommandError) Unwrap() error { return e.Cause }

func commandFailure(err error) error {
	return &CommandError{ExitCode: ExitFailure, Cause: err}
}

// ExitCode maps an error returned by Run to a semantic exit code.
// Untyped errors come from cobra's own flag and argument validation.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr != nil {
		if cmdErr.ExitCode != 0 {
			return cmdErr.ExitCode
		}
		return ExitFailure
	}
	return ExitInvalidInvocation
}

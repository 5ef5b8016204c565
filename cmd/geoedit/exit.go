package main

import (
	"errors"
	"fmt"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // runtime failure (transport, write errors)
	ExitCommandError = 2 // bad input: flags, paths, scripts, unopenable databases
)

// ExitError carries the process exit code for a failed command
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func commandError(message string, err error) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// exitCode returns ExitFailure for errors that carry no code
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

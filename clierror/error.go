package clierror

import (
	"errors"
	"strings"
)

// CLIError is an error that carries enough context to be shown to a user
// directly: a stable code for logging, a human-readable message and a hint
// on how to proceed. Internal errors are wrapped, not exposed.
type CLIError interface {
	// Error implements the standard error interface.
	Error() string

	// Human returns the user-facing description of the failure.
	Human() string

	// Hint returns guidance on how the user can recover.
	Hint() string

	// Code returns a stable identifier for the error kind. Meant for
	// logging and programmatic matching, never for display.
	Code() string
}

type cliError struct {
	cause error
	human string
	hint  string
	code  string
	msg   string
}

var _ CLIError = (*cliError)(nil)

// New starts building a CLIError. Chain the With* setters and use the value
// as a regular error.
func New() *cliError {
	return &cliError{}
}

// Wrap records the underlying cause. It is preserved for errors.Is/As.
func (e *cliError) Wrap(cause error) *cliError {
	e.cause = cause
	return e
}

// WithHuman sets the user-facing description.
func (e *cliError) WithHuman(human string) *cliError {
	e.human = human
	return e
}

// WithHint sets the recovery guidance shown below the error.
func (e *cliError) WithHint(hint string) *cliError {
	e.hint = hint
	return e
}

// WithCode sets the stable error code.
func (e *cliError) WithCode(code string) *cliError {
	e.code = code
	return e
}

// Msg sets the log-facing message used when no cause is wrapped.
func (e *cliError) Msg(msg string) *cliError {
	e.msg = msg
	return e
}

func (e *cliError) Error() string {
	if e.cause != nil {
		if e.msg != "" {
			return e.msg + ": " + e.cause.Error()
		}

		return e.cause.Error()
	}

	if e.msg == "" {
		return "unknown error"
	}

	parts := []string{}
	if e.code != "" {
		parts = append(parts, e.code)
	}

	parts = append(parts, e.msg)
	return strings.Join(parts, ": ")
}

func (e *cliError) Unwrap() error {
	return e.cause
}

func (e *cliError) Human() string {
	if e.human == "" {
		return "An unexpected error occurred."
	}

	return e.human
}

func (e *cliError) Hint() string {
	return e.hint
}

func (e *cliError) Code() string {
	if e.code == "" {
		return "unknown"
	}

	return e.code
}

// As attempts to interpret err as a CLIError anywhere in its chain.
func As(err error) (CLIError, bool) {
	if err == nil {
		return nil, false
	}

	var ce *cliError
	if errors.As(err, &ce) {
		return ce, true
	}

	if ce, ok := err.(CLIError); ok {
		return ce, true
	}

	return nil, false
}

// HasCode reports whether err is a CLIError with the given code.
func HasCode(err error, code string) bool {
	ce, ok := As(err)
	return ok && ce.Code() == code
}

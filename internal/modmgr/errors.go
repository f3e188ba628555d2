package modmgr

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// LocatedError is a diagnostic tied to a blame token: file, line, column,
// message — spec §7's "Configuration errors ... surfaced with blame-token
// location". Wrapped with go-errors/errors so -v diagnostics retain a stack
// trace back to where the error was raised, without changing the plain
// `error` contract the rest of the core returns.
type LocatedError struct {
	Blame   BlameToken
	Message string
	cause   error
}

func NewLocatedError(blame BlameToken, format string, args ...interface{}) error {
	return &LocatedError{
		Blame:   blame,
		Message: fmt.Sprintf(format, args...),
		cause:   goerrors.Errorf(format, args...),
	}
}

func (e *LocatedError) Error() string {
	if e.Blame.File == "" {
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Blame.File, e.Blame.Line, e.Blame.Column, e.Message)
}

func (e *LocatedError) Unwrap() error {
	return e.cause
}

// Wrap attaches a stack trace to err for richer CLI diagnostics, the way
// lazydocker wraps errors before surfacing them to its error panel.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

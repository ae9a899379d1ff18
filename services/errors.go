package services

import (
	"errors"
	"fmt"
)

// PreconditionError means the caller invoked an operation whose required
// input state is missing or illegal. It is fatal to that call and must be
// surfaced, never silently defaulted.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func precondition(op, format string, args ...any) *PreconditionError {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// ErrReportExists is returned when generating a report for a session that
// already has one. Each session derives at most one report.
var ErrReportExists = errors.New("report already exists for session")

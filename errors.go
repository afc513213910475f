package ldbc

import (
	"fmt"

	"github.com/pkg/errors"
)

// EncodingError is raised when one or more Encoder calls fail while building
// the parameter list for a statement. It is raised while binding, after the
// statement has been prepared but before it is executed.
type EncodingError struct {
	Messages []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("ldbc: encoding failed: %s", joinMessages(e.Messages))
}

// ExecFailure wraps an error raised by the connection while preparing or
// executing a statement, or while binding its parameters.
type ExecFailure struct {
	SQL   string
	cause error
}

func (e *ExecFailure) Error() string {
	return fmt.Sprintf("ldbc: exec failed for %q: %s", e.SQL, e.cause)
}

func (e *ExecFailure) Unwrap() error { return e.cause }
func (e *ExecFailure) Cause() error  { return e.cause }

// ProcessingFailure wraps an error raised while consuming rows after a
// statement began executing successfully.
type ProcessingFailure struct {
	SQL   string
	cause error
}

func (e *ProcessingFailure) Error() string {
	return fmt.Sprintf("ldbc: processing failed for %q: %s", e.SQL, e.cause)
}

func (e *ProcessingFailure) Unwrap() error { return e.cause }
func (e *ProcessingFailure) Cause() error  { return e.cause }

// DecodeFailure is the ProcessingFailure sub-kind raised by a Decoder. It
// carries the column offset the decoder was reading and the type it
// expected, so a failing query can be diagnosed without a debugger.
type DecodeFailure struct {
	SQL      string
	Column   int
	Expected string
	cause    error
}

func (e *DecodeFailure) Error() string {
	return fmt.Sprintf("ldbc: decode failed for %q at column %d (expected %s): %s",
		e.SQL, e.Column, e.Expected, e.cause)
}

func (e *DecodeFailure) Unwrap() error { return e.cause }
func (e *DecodeFailure) Cause() error  { return e.cause }

// UnexpectedEnd is raised by query_unique, query_nel, and returning when the
// result set produced no rows.
type UnexpectedEnd struct {
	SQL string
}

func (e *UnexpectedEnd) Error() string {
	return fmt.Sprintf("ldbc: expected at least one row for %q, got none", e.SQL)
}

// UnexpectedContinuation is raised by query_option when the result set
// produced more than one row.
type UnexpectedContinuation struct {
	SQL string
}

func (e *UnexpectedContinuation) Error() string {
	return fmt.Sprintf("ldbc: expected at most one row for %q, got more", e.SQL)
}

// InvariantViolation marks a caller bug: a precondition the interpreter
// checks before touching the connection, such as a non-positive fetch size.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("ldbc: invariant violated: %s", e.Reason)
}

// CancellationObserved wraps a context cancellation observed at a
// suspension point inside the interpreter.
type CancellationObserved struct {
	cause error
}

func (e *CancellationObserved) Error() string {
	return fmt.Sprintf("ldbc: cancelled: %s", e.cause)
}

func (e *CancellationObserved) Unwrap() error { return e.cause }

func joinMessages(msgs []string) string {
	switch len(msgs) {
	case 0:
		return "(no messages)"
	case 1:
		return msgs[0]
	default:
		out := msgs[0]
		for _, m := range msgs[1:] {
			out += "; " + m
		}
		return out
	}
}

// wrapExec classifies err as an ExecFailure, preserving any existing cause
// chain via errors.WithStack so callers can still errors.As through it.
func wrapExec(sql string, err error) error {
	if err == nil {
		return nil
	}
	return &ExecFailure{SQL: sql, cause: errors.WithStack(err)}
}

func wrapProcessing(sql string, err error) error {
	if err == nil {
		return nil
	}
	return &ProcessingFailure{SQL: sql, cause: errors.WithStack(err)}
}

func wrapDecode(sql string, column int, expected string, err error) error {
	return &DecodeFailure{SQL: sql, Column: column, Expected: expected, cause: errors.WithStack(err)}
}

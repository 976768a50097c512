package litmus

import (
	"errors"
	"fmt"
)

// testAbort is the internal signal that unwinds the remainder of a test
// body after an Abort-policy failure or an unexpected panic. It is raised
// as a panic value and recovered only by the per-test run controller; it is
// never visible to test bodies or beyond the suite run.
type testAbort struct {
	line   int
	reason string
}

// AssertionFailureError is the hard failure signal raised under ModeThrow.
// It escapes the entire run by design, surfacing as the error returned from
// Run/RunSome, so execution stops at the first failing assertion.
type AssertionFailureError struct {
	Expr   string
	Reason string
	Line   int
}

func (e *AssertionFailureError) Error() string {
	return fmt.Sprintf("assertion failure: %s in %q", e.Reason, e.Expr)
}

// IsAssertionFailure checks if the error is or wraps an AssertionFailureError.
func IsAssertionFailure(err error) bool {
	var failure *AssertionFailureError
	return err != nil && errors.As(err, &failure)
}

// RuntimeError represents an operational error that should lead to exit
// code 2. Examples include configuration errors, file not found, etc.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// TestFailureError represents a failure from test assertions (exit code 1)
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

// NewTestFailureError creates a new TestFailureError
func NewTestFailureError(message string) *TestFailureError {
	return &TestFailureError{Message: message}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}

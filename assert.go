package litmus

import (
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// The assertion evaluators are free functions taking the owning suite,
// mirroring how test bodies receive the suite as their execution context.
// Each takes a caller-supplied expression description and line number
// (0 meaning unknown); the engine never inspects or regenerates them.
//
// A "fault" is a Go panic. Panics/PanicsAs absorb the panic they test for;
// any other panic escaping an evaluated callable is recorded as an
// unexpected-panic event and aborts the current test regardless of the
// caller-supplied policy.

// panicValue wraps a recovered panic so a nil panic payload is still
// distinguishable from "did not panic".
type panicValue struct {
	value any
}

func (p *panicValue) message() string {
	return describe(p.value)
}

// capture invokes fn and recovers any panic it raises.
func capture(fn func()) (pv *panicValue) {
	defer func() {
		if r := recover(); r != nil {
			pv = &panicValue{value: r}
		}
	}()
	fn()
	return nil
}

// resolveFailure is the shared decision point reached whenever an assertion
// fails or errors. ModeThrow takes precedence over everything: it raises the
// hard failure signal even when the per-call policy is Abort.
func (s *TestSuite) resolveFailure(policy types.FailurePolicy, line int, reason, expr string) {
	if s.mode == types.ModeThrow {
		panic(&AssertionFailureError{Expr: expr, Reason: reason, Line: line})
	}
	if policy == types.Abort {
		panic(testAbort{line: line, reason: reason})
	}
}

// reportPanic handles the error path shared by every assertion kind: an
// unexpected panic escaped the evaluated callable. It forces an abort of
// the current test regardless of the caller-supplied policy, because
// continuing risks running the rest of the body in an inconsistent state.
func reportPanic(s *TestSuite, line int, expr string, pv *panicValue) types.AssertionResult {
	s.failed()
	s.reporter.OnUnexpectedPanic(line, expr, pv.message())
	s.resolveFailure(types.Abort, line, "panic caught in assertion", expr)
	return types.AssertionFailed
}

// Check asserts that pred returns true.
func Check(s *TestSuite, pred func() bool, policy types.FailurePolicy, expr string, line int) types.AssertionResult {
	var res bool
	pv := capture(func() { res = pred() })
	if pv != nil {
		return reportPanic(s, line, expr, pv)
	}
	if !res {
		s.failed()
		s.reporter.OnFailedCheck(line, expr)
		s.resolveFailure(policy, line, "check failed", expr)
		return types.AssertionFailed
	}
	s.passed()
	s.reporter.OnPassedCheck(line, expr)
	return types.AssertionPassed
}

// Equal asserts that produce returns a value equal to want.
func Equal[T comparable](s *TestSuite, want T, produce func() T, policy types.FailurePolicy, expr string, line int) types.AssertionResult {
	var got T
	pv := capture(func() { got = produce() })
	if pv != nil {
		return reportPanic(s, line, expr, pv)
	}
	if got != want {
		s.failed()
		s.reporter.OnFailedEquals(line, expr, describe(want), describe(got))
		s.resolveFailure(policy, line, "equal failed", expr)
		return types.AssertionFailed
	}
	s.passed()
	s.reporter.OnPassedEquals(line, expr, describe(want))
	return types.AssertionPassed
}

// Panics asserts that action panics. The panic, of any type, is fully
// absorbed; it is never observable outside this evaluator.
func Panics(s *TestSuite, action func(), policy types.FailurePolicy, expr string, line int) types.AssertionResult {
	if pv := capture(action); pv != nil {
		s.passed()
		s.reporter.OnPassedPanic(line, expr)
		return types.AssertionPassed
	}
	s.failed()
	s.reporter.OnFailedPanic(line, expr)
	s.resolveFailure(policy, line, "expected panic did not occur", expr)
	return types.AssertionFailed
}

// PanicsAs asserts that action panics with a value of type T. A panic of a
// different type is treated as an unexpected panic, not a plain failure,
// and aborts the current test.
func PanicsAs[T any](s *TestSuite, action func(), policy types.FailurePolicy, expr string, line int) types.AssertionResult {
	pv := capture(action)
	if pv == nil {
		s.failed()
		s.reporter.OnFailedPanic(line, expr)
		s.resolveFailure(policy, line, "expected panic did not occur", expr)
		return types.AssertionFailed
	}
	if _, ok := pv.value.(T); ok {
		s.passed()
		s.reporter.OnPassedPanic(line, expr)
		return types.AssertionPassed
	}
	return reportPanic(s, line, expr, pv)
}

// Fail unconditionally records a failure with the given reason. No
// predicate is evaluated.
func Fail(s *TestSuite, reason string, policy types.FailurePolicy, line int) types.AssertionResult {
	s.failed()
	s.reporter.OnManualFailure(line, reason)
	s.resolveFailure(policy, line, "manual failure", reason)
	return types.AssertionFailed
}

// Print emits the rendered value of an expression as a reporter event.
// Outside an active run there is no reporter and the call is a no-op.
func Print[T any](s *TestSuite, expr string, value T, line int) {
	if s.reporter == nil {
		return
	}
	s.reporter.OnExprValue(line, expr, describe(value))
}

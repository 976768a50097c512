// Package types holds the shared vocabulary of the test engine: test
// metadata, assertion outcomes, failure policies, suite modes and the
// counter pairs every assertion updates.
package types

import (
	"fmt"
	"time"
)

// AssertionResult is the outcome of one evaluated assertion.
type AssertionResult string

const (
	AssertionPassed AssertionResult = "passed"
	AssertionFailed AssertionResult = "failed"
)

// FailurePolicy tells the engine what to do with the rest of the current
// test body when an assertion fails. It is chosen per assertion call site.
type FailurePolicy string

const (
	// Continue lets the test body keep running after a failed assertion.
	Continue FailurePolicy = "continue"
	// Abort unwinds the remainder of the current test body.
	Abort FailurePolicy = "abort"
)

// Mode is the per-run policy of a suite.
type Mode string

const (
	// ModeContinue confines assertion failures to the per-call
	// Continue/Abort mechanism.
	ModeContinue Mode = "continue"
	// ModeThrow makes every failed assertion abort the entire run
	// immediately, regardless of the per-call policy. Debugging aid.
	ModeThrow Mode = "throw"
)

// ParseMode converts a string (CLI flag or run plan value) into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeContinue, ModeThrow:
		return Mode(s), nil
	case "":
		return ModeContinue, nil
	default:
		return "", fmt.Errorf("unknown suite mode %q (want %q or %q)", s, ModeContinue, ModeThrow)
	}
}

// ParsePolicy converts a string into a FailurePolicy.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case Continue, Abort:
		return FailurePolicy(s), nil
	case "":
		return Continue, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %q or %q)", s, Continue, Abort)
	}
}

// TestStats is a pass/fail counter pair. Two instances are live during a
// run: the current test's stats and the suite total.
type TestStats struct {
	Passes int
	Fails  int
}

// Add returns the elementwise sum of two counter pairs.
func (s TestStats) Add(o TestStats) TestStats {
	return TestStats{Passes: s.Passes + o.Passes, Fails: s.Fails + o.Fails}
}

// Total returns the number of assertions recorded.
func (s TestStats) Total() int {
	return s.Passes + s.Fails
}

// TestStatus is the terminal state of one executed test.
type TestStatus string

const (
	TestStatusPass    TestStatus = "pass"
	TestStatusFail    TestStatus = "fail"
	TestStatusAborted TestStatus = "aborted"
)

// StatusFor derives a test's terminal status from its stats and abort flag.
func StatusFor(stats TestStats, aborted bool) TestStatus {
	switch {
	case aborted:
		return TestStatusAborted
	case stats.Fails > 0:
		return TestStatusFail
	default:
		return TestStatusPass
	}
}

// Test is the metadata of one registered test. The body itself lives with
// the owning suite; reporters only ever see this view.
type Test struct {
	// File is the label of the file the test was defined in. Informational.
	File string
	// Name is the display name of the test.
	Name string
	// Index is the 1-based position within the owning suite, assigned at
	// registration and never reused.
	Index int

	// Aborted is set when the test's execution was cut short.
	Aborted bool
	// Duration is the wall time of the test body. Invalid when Aborted.
	Duration time.Duration
}

// SuiteSummary is the slice of suite state reporters see at run start and
// run end.
type SuiteSummary struct {
	Name  string
	RunID string
	// Tests is the number of registered tests in the suite.
	Tests int
	// Total aggregates every assertion recorded during the run. Zero at
	// run start.
	Total TestStats
	// Duration and EndTime are only set in the run-end event.
	Duration time.Duration
	EndTime  time.Time
}

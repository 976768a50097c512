package litmus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-litmus/reporting"
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// recordingReporter captures every event as a formatted string so tests can
// assert on ordering and payloads.
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) record(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) OnSuiteStart(sum types.SuiteSummary) {
	r.record("suite-start %s tests=%d", sum.Name, sum.Tests)
}

func (r *recordingReporter) OnSuiteEnd(sum types.SuiteSummary) {
	r.record("suite-end %s passes=%d fails=%d", sum.Name, sum.Total.Passes, sum.Total.Fails)
}

func (r *recordingReporter) OnTestHeader(test *types.Test) {
	r.record("test-header %d %s", test.Index, test.Name)
}

func (r *recordingReporter) OnTestFooter(test *types.Test, stats types.TestStats) {
	r.record("test-footer %d passes=%d fails=%d aborted=%t", test.Index, stats.Passes, stats.Fails, test.Aborted)
}

func (r *recordingReporter) OnTestAborted(line int, reason string) {
	r.record("test-aborted line=%d %s", line, reason)
}

func (r *recordingReporter) OnPassedCheck(line int, expr string) {
	r.record("passed-check line=%d %s", line, expr)
}

func (r *recordingReporter) OnPassedPanic(line int, expr string) {
	r.record("passed-panic line=%d %s", line, expr)
}

func (r *recordingReporter) OnPassedEquals(line int, expr, value string) {
	r.record("passed-equals line=%d %s value=%s", line, expr, value)
}

func (r *recordingReporter) OnFailedCheck(line int, expr string) {
	r.record("failed-check line=%d %s", line, expr)
}

func (r *recordingReporter) OnFailedPanic(line int, expr string) {
	r.record("failed-panic line=%d %s", line, expr)
}

func (r *recordingReporter) OnFailedEquals(line int, expr, want, got string) {
	r.record("failed-equals line=%d %s want=%s got=%s", line, expr, want, got)
}

func (r *recordingReporter) OnUnexpectedPanic(line int, expr, msg string) {
	r.record("unexpected-panic line=%d %s msg=%s", line, expr, msg)
}

func (r *recordingReporter) OnManualFailure(line int, reason string) {
	r.record("manual-failure line=%d %s", line, reason)
}

func (r *recordingReporter) OnMessage(line int, text string) {
	r.record("message line=%d %s", line, text)
}

func (r *recordingReporter) OnExprValue(line int, expr, value string) {
	r.record("expr-value line=%d %s=%s", line, expr, value)
}

func recordingFactory(rec *recordingReporter) reporting.Factory {
	return func() reporting.Reporter { return rec }
}

func noopFactory() reporting.Reporter { return reporting.NoopReporter{} }

func TestAddTestAssignsSequentialIndices(t *testing.T) {
	s := NewSuite("indices")
	first := s.AddTest("first", func(s *TestSuite) {}, "a.go")
	second := s.AddTest("second", func(s *TestSuite) {}, "")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "indices", s.Name())

	// Unknown file labels fall back to the placeholder.
	rec := &recordingReporter{}
	report, err := s.RunSome(recordingFactory(rec), []int{1}, types.ModeContinue)
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "N/A", report.Records[0].File)
}

func TestContinuePolicyKeepsBodyRunning(t *testing.T) {
	s := NewSuite("continue")
	s.AddTest("mixed", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "true", 10)
		Check(s, func() bool { return false }, types.Continue, "false", 11)
		Check(s, func() bool { return true }, types.Continue, "true again", 12)
	}, "suite_test.go")

	rec := &recordingReporter{}
	report, err := s.Run(recordingFactory(rec), types.ModeContinue)
	require.NoError(t, err)

	require.Len(t, report.Records, 1)
	assert.Equal(t, types.TestStats{Passes: 2, Fails: 1}, report.Records[0].Stats)
	assert.False(t, report.Records[0].Aborted)
	assert.Equal(t, types.TestStatusFail, report.Records[0].Status())
	assert.True(t, report.Failed())

	assert.Contains(t, rec.events, "failed-check line=11 false")
	assert.Contains(t, rec.events, "passed-check line=12 true again")
}

func TestEqualFailureReportsWantAndGot(t *testing.T) {
	s := NewSuite("equal")
	s.AddTest("mismatch", func(s *TestSuite) {
		Equal(s, 5, func() int { return 6 }, types.Continue, "six()", 20)
	}, "suite_test.go")

	rec := &recordingReporter{}
	report, err := s.Run(recordingFactory(rec), types.ModeContinue)
	require.NoError(t, err)

	assert.Equal(t, types.TestStats{Fails: 1}, report.Total)
	assert.Contains(t, rec.events, "failed-equals line=20 six() want=5 got=6")
}

func TestAbortPolicyUnwindsRestOfBody(t *testing.T) {
	reached := false
	s := NewSuite("abort")
	s.AddTest("aborts early", func(s *TestSuite) {
		Check(s, func() bool { return false }, types.Abort, "precondition", 10)
		reached = true
		Check(s, func() bool { return true }, types.Continue, "never evaluated", 12)
	}, "suite_test.go")
	s.AddTest("still runs", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "true", 15)
	}, "suite_test.go")

	rec := &recordingReporter{}
	report, err := s.Run(recordingFactory(rec), types.ModeContinue)
	require.NoError(t, err)

	assert.False(t, reached, "abort must unwind the rest of the test body")
	require.Len(t, report.Records, 2)
	assert.True(t, report.Records[0].Aborted)
	assert.Equal(t, types.TestStatusAborted, report.Records[0].Status())
	assert.Equal(t, 1, report.Aborted)
	assert.Contains(t, rec.events, "test-aborted line=10 check failed")

	// The abort is confined to its test; the next one runs normally.
	assert.Equal(t, types.TestStats{Passes: 1}, report.Records[1].Stats)
	assert.Equal(t, types.TestStatusPass, report.Records[1].Status())
}

func TestUncaughtPanicAbortsTestWithUnknownLine(t *testing.T) {
	s := NewSuite("panics")
	s.AddTest("panics outside assertions", func(s *TestSuite) {
		panic("boom")
	}, "suite_test.go")
	s.AddTest("unaffected", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "true", 30)
	}, "suite_test.go")

	rec := &recordingReporter{}
	report, err := s.Run(recordingFactory(rec), types.ModeContinue)
	require.NoError(t, err)

	require.Len(t, report.Records, 2)
	assert.True(t, report.Records[0].Aborted)
	assert.Contains(t, rec.events, "test-aborted line=0 uncaught panic: boom")
	assert.Equal(t, types.TestStats{Passes: 1}, report.Records[1].Stats)
}

func TestPanicValueWithPanickingStringMethodIsContained(t *testing.T) {
	s := NewSuite("hostile-payload")
	s.AddTest("panics with a typed-nil stringer", func(s *TestSuite) {
		panic((*nilStringer)(nil))
	}, "suite_test.go")

	rec := &recordingReporter{}
	var report *RunReport
	var err error
	require.NotPanics(t, func() {
		report, err = s.Run(recordingFactory(rec), types.ModeContinue)
	})
	require.NoError(t, err)

	// Rendering the payload must not re-panic inside the recovery handler;
	// the test is recorded as aborted with the placeholder text.
	require.Len(t, report.Records, 1)
	assert.True(t, report.Records[0].Aborted)
	assert.Contains(t, rec.events, "test-aborted line=0 uncaught panic: N/A")
}

func TestSuiteTotalsSumPerTestStats(t *testing.T) {
	s := NewSuite("totals")
	s.AddTest("a", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "t", 1)
		Check(s, func() bool { return false }, types.Continue, "f", 2)
	}, "suite_test.go")
	s.AddTest("b", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "t", 3)
		Check(s, func() bool { return true }, types.Continue, "t", 4)
	}, "suite_test.go")

	report, err := s.Run(noopFactory, types.ModeContinue)
	require.NoError(t, err)

	sum := types.TestStats{}
	for _, rec := range report.Records {
		sum = sum.Add(rec.Stats)
	}
	assert.Equal(t, sum, report.Total)
	assert.Equal(t, types.TestStats{Passes: 3, Fails: 1}, report.Total)
	assert.Equal(t, 4, report.Total.Total())
}

func TestRerunStartsCountersAtZero(t *testing.T) {
	s := NewSuite("rerun")
	s.AddTest("one pass", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "t", 1)
	}, "suite_test.go")

	first, err := s.Run(noopFactory, types.ModeContinue)
	require.NoError(t, err)
	second, err := s.Run(noopFactory, types.ModeContinue)
	require.NoError(t, err)

	assert.Equal(t, types.TestStats{Passes: 1}, first.Total)
	assert.Equal(t, types.TestStats{Passes: 1}, second.Total)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestThrowModeStopsRunAtFirstFailure(t *testing.T) {
	secondRan := false
	s := NewSuite("throw")
	s.AddTest("fails", func(s *TestSuite) {
		Check(s, func() bool { return false }, types.Continue, "doomed", 42)
	}, "suite_test.go")
	s.AddTest("never reached", func(s *TestSuite) {
		secondRan = true
	}, "suite_test.go")

	rec := &recordingReporter{}
	report, err := s.Run(recordingFactory(rec), types.ModeThrow)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.False(t, secondRan)

	var hard *AssertionFailureError
	require.ErrorAs(t, err, &hard)
	assert.Equal(t, 42, hard.Line)
	assert.Equal(t, "doomed", hard.Expr)
	assert.True(t, IsAssertionFailure(err))

	// The failure event itself is still reported, but no suite-end follows.
	assert.Contains(t, rec.events, "failed-check line=42 doomed")
	for _, ev := range rec.events {
		assert.NotContains(t, ev, "suite-end")
	}
}

func TestThrowModeOverridesContinuePolicy(t *testing.T) {
	s := NewSuite("throw-precedence")
	s.AddTest("fails", func(s *TestSuite) {
		Fail(s, "forced", types.Continue, 7)
	}, "suite_test.go")

	_, err := s.Run(noopFactory, types.ModeThrow)
	require.Error(t, err)
	assert.True(t, IsAssertionFailure(err))
}

func TestRunSomeSkipsOutOfRangeIndices(t *testing.T) {
	s := NewSuite("partial")
	var order []string
	s.AddTest("a", func(s *TestSuite) { order = append(order, "a") }, "suite_test.go")
	s.AddTest("b", func(s *TestSuite) { order = append(order, "b") }, "suite_test.go")

	report, err := s.RunSome(noopFactory, []int{5, 1, -1, 0}, types.ModeContinue)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, order)
	require.Len(t, report.Records, 2)
	assert.Equal(t, "b", report.Records[0].Name)
	assert.Equal(t, "a", report.Records[1].Name)
}

func TestRunEmitsLifecycleEventsInOrder(t *testing.T) {
	s := NewSuite("lifecycle")
	s.AddTest("only", func(s *TestSuite) {
		Check(s, func() bool { return true }, types.Continue, "true", 5)
	}, "suite_test.go")

	rec := &recordingReporter{}
	_, err := s.Run(recordingFactory(rec), types.ModeContinue)
	require.NoError(t, err)

	require.Len(t, rec.events, 5)
	assert.Equal(t, "suite-start lifecycle tests=1", rec.events[0])
	assert.Equal(t, "test-header 1 only", rec.events[1])
	assert.Equal(t, "passed-check line=5 true", rec.events[2])
	assert.Equal(t, "test-footer 1 passes=1 fails=0 aborted=false", rec.events[3])
	assert.Equal(t, "suite-end lifecycle passes=1 fails=0", rec.events[4])
}

func TestMessageReachesReporter(t *testing.T) {
	s := NewSuite("messages")
	s.AddTest("talks", func(s *TestSuite) {
		s.Message(8, "setting up fixture")
	}, "suite_test.go")

	rec := &recordingReporter{}
	_, err := s.Run(recordingFactory(rec), types.ModeContinue)
	require.NoError(t, err)
	assert.Contains(t, rec.events, "message line=8 setting up fixture")
}

func TestMessageAndPrintOutsideRunAreNoOps(t *testing.T) {
	s := NewSuite("idle")

	require.NotPanics(t, func() {
		s.Message(3, "nobody is listening")
		Print(s, "x", 42, 4)
	})
}

func TestRunReportFailed(t *testing.T) {
	tests := []struct {
		name   string
		report RunReport
		want   bool
	}{
		{"all passing", RunReport{Total: types.TestStats{Passes: 3}}, false},
		{"has failures", RunReport{Total: types.TestStats{Passes: 3, Fails: 1}}, true},
		{"has aborts", RunReport{Total: types.TestStats{Passes: 3}, Aborted: 1}, true},
		{"empty", RunReport{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Failed())
		})
	}
}

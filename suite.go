// Package litmus is a unit-test execution engine. A TestSuite owns an
// ordered collection of registered tests; running the suite executes the
// requested tests strictly sequentially, records per-assertion outcomes,
// enforces the per-call Continue/Abort failure policy, and streams
// structured events to a reporter owned by the suite for the duration of
// the run.
package litmus

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/ethereum-optimism/infra/op-litmus/metrics"
	"github.com/ethereum-optimism/infra/op-litmus/reporting"
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// TestFunc is a test body. It receives the owning suite as its execution
// context; assertions evaluated against that suite update its counters.
type TestFunc func(s *TestSuite)

// testEntry binds registered test metadata to its body.
type testEntry struct {
	meta *types.Test
	fn   TestFunc
}

// TestSuite is the aggregate root: a named, ordered collection of tests,
// the per-run mode, the active reporter and the run's counters. A suite is
// not safe for concurrent use; a run must complete before another begins.
type TestSuite struct {
	name  string
	tests []*testEntry
	log   log.Logger

	// Run state, created fresh per Run/RunSome invocation.
	mode     types.Mode
	reporter reporting.Reporter
	runID    string
	total    types.TestStats
	history  []types.TestStats
	cursor   int
	endTime  time.Time
	duration time.Duration
}

// NewSuite constructs an empty suite with the given name.
func NewSuite(name string) *TestSuite {
	return &TestSuite{
		name:   name,
		log:    log.New("suite", name),
		cursor: -1,
	}
}

// Name returns the suite's display name.
func (s *TestSuite) Name() string { return s.name }

// Len returns the number of registered tests.
func (s *TestSuite) Len() int { return len(s.tests) }

// AddTest registers a test and returns its 1-based index. The file label is
// informational; pass "" when unknown.
func (s *TestSuite) AddTest(name string, fn TestFunc, file string) int {
	if file == "" {
		file = "N/A"
	}
	index := len(s.tests) + 1
	s.tests = append(s.tests, &testEntry{
		meta: &types.Test{File: file, Name: name, Index: index},
		fn:   fn,
	})
	s.log.Debug("registered test", "index", index, "name", name, "file", file)
	return index
}

// TestRecord is the snapshot of one executed test within a RunReport.
type TestRecord struct {
	Index    int
	Name     string
	File     string
	Stats    types.TestStats
	Aborted  bool
	Duration time.Duration
}

// Status derives the record's terminal status.
func (r TestRecord) Status() types.TestStatus {
	return types.StatusFor(r.Stats, r.Aborted)
}

// RunReport is the snapshot a run returns: one record per executed test in
// execution order, plus suite totals. The reporter remains the streaming
// surface; the report is a convenience for tables and metrics.
type RunReport struct {
	Suite    string
	RunID    string
	Records  []TestRecord
	Total    types.TestStats
	Aborted  int
	Duration time.Duration
	EndTime  time.Time
}

// Failed reports whether any assertion failed or any test aborted.
func (r *RunReport) Failed() bool {
	return r.Total.Fails > 0 || r.Aborted > 0
}

// Run executes every registered test in registration order.
func (s *TestSuite) Run(factory reporting.Factory, mode types.Mode) (*RunReport, error) {
	indices := make([]int, len(s.tests))
	for i := range indices {
		indices[i] = i
	}
	return s.RunSome(factory, indices, mode)
}

// RunSome executes the tests at the given 0-based positions, in the order
// requested, skipping positions outside the valid range. The reporter built
// by factory is owned by the suite for the duration of the call and
// released before it returns. Suite totals start at zero on every run.
//
// Under ModeThrow the first failing assertion stops the run immediately and
// the *AssertionFailureError is returned; no suite-end event is emitted in
// that case.
func (s *TestSuite) RunSome(factory reporting.Factory, indices []int, mode types.Mode) (*RunReport, error) {
	s.mode = mode
	s.reporter = factory()
	defer func() { s.reporter = nil }()

	s.runID = uuid.New().String()
	s.total = types.TestStats{}
	s.history = s.history[:0]
	s.cursor = -1

	start := time.Now()
	s.log.Debug("suite run starting", "run_id", s.runID, "mode", mode, "requested", len(indices))
	s.reporter.OnSuiteStart(s.summary())

	report := &RunReport{Suite: s.name, RunID: s.runID}
	for _, idx := range indices {
		if idx < 0 || idx >= len(s.tests) {
			s.log.Warn("skipping test index out of range", "index", idx, "tests", len(s.tests))
			continue
		}
		entry := s.tests[idx]
		if err := s.runTest(entry); err != nil {
			s.log.Debug("suite run stopped by hard assertion failure", "run_id", s.runID, "test", entry.meta.Name)
			return nil, err
		}

		stats := s.currentTestStats()
		status := types.StatusFor(stats, entry.meta.Aborted)
		if entry.meta.Aborted {
			report.Aborted++
		}
		report.Records = append(report.Records, TestRecord{
			Index:    entry.meta.Index,
			Name:     entry.meta.Name,
			File:     entry.meta.File,
			Stats:    stats,
			Aborted:  entry.meta.Aborted,
			Duration: entry.meta.Duration,
		})
		metrics.RecordTest(s.name, s.runID, entry.meta.Name, status)
	}

	s.endTime = time.Now()
	s.duration = s.endTime.Sub(start)
	s.reporter.OnSuiteEnd(s.summary())

	report.Total = s.total
	report.Duration = s.duration
	report.EndTime = s.endTime
	metrics.RecordSuiteRun(s.name, s.runID, s.total, report.Aborted, s.duration)
	return report, nil
}

// runTest is the recovery boundary for a single test: it times the body,
// turns abort signals and uncaught panics into terminal events, and emits
// the test footer. A hard assertion failure (ModeThrow) is the only thing
// it lets escape, as the returned error.
func (s *TestSuite) runTest(entry *testEntry) (hard error) {
	s.startTest()
	t := entry.meta
	t.Aborted = false
	t.Duration = 0
	s.reporter.OnTestHeader(t)

	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			switch sig := r.(type) {
			case *AssertionFailureError:
				hard = sig
			case testAbort:
				t.Aborted = true
				s.reporter.OnTestAborted(sig.line, sig.reason)
			default:
				t.Aborted = true
				s.reporter.OnTestAborted(0, "uncaught panic: "+describe(r))
			}
		}()
		started := time.Now()
		entry.fn(s)
		t.Duration = time.Since(started)
	}()

	if hard != nil {
		return hard
	}
	s.reporter.OnTestFooter(t, s.currentTestStats())
	return nil
}

// startTest opens a fresh stats slot for the next test in this run.
func (s *TestSuite) startTest() {
	s.cursor++
	s.history = append(s.history, types.TestStats{})
}

// passed records a passed assertion on the current test and the suite total.
func (s *TestSuite) passed() types.AssertionResult {
	s.total.Passes++
	s.history[s.cursor].Passes++
	metrics.RecordAssertion(s.name, s.runID, types.AssertionPassed)
	return types.AssertionPassed
}

// failed records a failed assertion on the current test and the suite total.
func (s *TestSuite) failed() types.AssertionResult {
	s.total.Fails++
	s.history[s.cursor].Fails++
	metrics.RecordAssertion(s.name, s.runID, types.AssertionFailed)
	return types.AssertionFailed
}

// currentTestStats returns the stats of the test currently executing (or
// the one that most recently executed).
func (s *TestSuite) currentTestStats() types.TestStats {
	return s.history[s.cursor]
}

// TotalStats returns the suite-wide counters of the current (or most
// recent) run.
func (s *TestSuite) TotalStats() types.TestStats { return s.total }

func (s *TestSuite) summary() types.SuiteSummary {
	return types.SuiteSummary{
		Name:     s.name,
		RunID:    s.runID,
		Tests:    len(s.tests),
		Total:    s.total,
		Duration: s.duration,
		EndTime:  s.endTime,
	}
}

// Message emits a free-form message event at the given line. Outside an
// active run there is no reporter and the call is a no-op.
func (s *TestSuite) Message(line int, text string) {
	if s.reporter == nil {
		return
	}
	s.reporter.OnMessage(line, text)
}

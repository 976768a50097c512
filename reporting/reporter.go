// Package reporting defines the protocol the engine streams lifecycle and
// assertion events through, plus the concrete renderers shipped with the
// binary (Markdown and HTML).
package reporting

import (
	"fmt"

	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// Reporter is the capability surface the engine drives. Every textual value
// argument arrives pre-rendered; a reporter never needs knowledge of the
// original value types. Embed NoopReporter to get no-op defaults for the
// hooks a renderer does not care about.
type Reporter interface {
	// Lifecycle hooks.
	OnSuiteStart(sum types.SuiteSummary)
	OnSuiteEnd(sum types.SuiteSummary)
	OnTestHeader(test *types.Test)
	OnTestFooter(test *types.Test, stats types.TestStats)
	OnTestAborted(line int, reason string)

	// Assertion events. A line of 0 means the call site is unknown.
	OnPassedCheck(line int, expr string)
	OnPassedPanic(line int, expr string)
	OnPassedEquals(line int, expr, value string)
	OnFailedCheck(line int, expr string)
	OnFailedPanic(line int, expr string)
	OnFailedEquals(line int, expr, want, got string)
	OnUnexpectedPanic(line int, expr, msg string)
	OnManualFailure(line int, reason string)
	OnMessage(line int, text string)
	OnExprValue(line int, expr, value string)
}

// Factory constructs the reporter a suite owns for the duration of one run.
type Factory func() Reporter

// NoopReporter implements Reporter with empty hooks.
type NoopReporter struct{}

var _ Reporter = NoopReporter{}

func (NoopReporter) OnSuiteStart(types.SuiteSummary)                {}
func (NoopReporter) OnSuiteEnd(types.SuiteSummary)                  {}
func (NoopReporter) OnTestHeader(*types.Test)                       {}
func (NoopReporter) OnTestFooter(*types.Test, types.TestStats)      {}
func (NoopReporter) OnTestAborted(int, string)                      {}
func (NoopReporter) OnPassedCheck(int, string)                      {}
func (NoopReporter) OnPassedPanic(int, string)                      {}
func (NoopReporter) OnPassedEquals(int, string, string)             {}
func (NoopReporter) OnFailedCheck(int, string)                      {}
func (NoopReporter) OnFailedPanic(int, string)                      {}
func (NoopReporter) OnFailedEquals(int, string, string, string)     {}
func (NoopReporter) OnUnexpectedPanic(int, string, string)          {}
func (NoopReporter) OnManualFailure(int, string)                    {}
func (NoopReporter) OnMessage(int, string)                          {}
func (NoopReporter) OnExprValue(int, string, string)                {}

// MultiReporter fans every event out to a list of reporters in order.
type MultiReporter struct {
	reporters []Reporter
}

// NewMultiReporter creates a reporter that forwards to each of rs.
func NewMultiReporter(rs ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: rs}
}

func (m *MultiReporter) OnSuiteStart(sum types.SuiteSummary) {
	for _, r := range m.reporters {
		r.OnSuiteStart(sum)
	}
}

func (m *MultiReporter) OnSuiteEnd(sum types.SuiteSummary) {
	for _, r := range m.reporters {
		r.OnSuiteEnd(sum)
	}
}

func (m *MultiReporter) OnTestHeader(test *types.Test) {
	for _, r := range m.reporters {
		r.OnTestHeader(test)
	}
}

func (m *MultiReporter) OnTestFooter(test *types.Test, stats types.TestStats) {
	for _, r := range m.reporters {
		r.OnTestFooter(test, stats)
	}
}

func (m *MultiReporter) OnTestAborted(line int, reason string) {
	for _, r := range m.reporters {
		r.OnTestAborted(line, reason)
	}
}

func (m *MultiReporter) OnPassedCheck(line int, expr string) {
	for _, r := range m.reporters {
		r.OnPassedCheck(line, expr)
	}
}

func (m *MultiReporter) OnPassedPanic(line int, expr string) {
	for _, r := range m.reporters {
		r.OnPassedPanic(line, expr)
	}
}

func (m *MultiReporter) OnPassedEquals(line int, expr, value string) {
	for _, r := range m.reporters {
		r.OnPassedEquals(line, expr, value)
	}
}

func (m *MultiReporter) OnFailedCheck(line int, expr string) {
	for _, r := range m.reporters {
		r.OnFailedCheck(line, expr)
	}
}

func (m *MultiReporter) OnFailedPanic(line int, expr string) {
	for _, r := range m.reporters {
		r.OnFailedPanic(line, expr)
	}
}

func (m *MultiReporter) OnFailedEquals(line int, expr, want, got string) {
	for _, r := range m.reporters {
		r.OnFailedEquals(line, expr, want, got)
	}
}

func (m *MultiReporter) OnUnexpectedPanic(line int, expr, msg string) {
	for _, r := range m.reporters {
		r.OnUnexpectedPanic(line, expr, msg)
	}
}

func (m *MultiReporter) OnManualFailure(line int, reason string) {
	for _, r := range m.reporters {
		r.OnManualFailure(line, reason)
	}
}

func (m *MultiReporter) OnMessage(line int, text string) {
	for _, r := range m.reporters {
		r.OnMessage(line, text)
	}
}

func (m *MultiReporter) OnExprValue(line int, expr, value string) {
	for _, r := range m.reporters {
		r.OnExprValue(line, expr, value)
	}
}

// LogLevel controls how chatty a renderer is.
type LogLevel int

const (
	// LogErrors only renders failed assertions and aborted tests.
	LogErrors LogLevel = iota + 1
	// LogMessages also renders messages and printed expressions.
	LogMessages
	// LogEverything also renders passed assertions.
	LogEverything
)

// ParseLogLevel converts a run-plan string into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "errors":
		return LogErrors, nil
	case "messages", "":
		return LogMessages, nil
	case "everything":
		return LogEverything, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want errors, messages or everything)", s)
	}
}

// lineNr renders a source line number, with "???" standing in for the
// unknown-line marker 0.
func lineNr(line int) string {
	if line > 0 {
		return fmt.Sprintf("%d", line)
	}
	return "???"
}

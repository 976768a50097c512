package reporting

import (
	"fmt"
	"io"

	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// MarkdownReporter renders a test run as a Markdown log, one bullet per
// event. The log level gates passed assertions and messages; failures and
// aborts are always rendered.
type MarkdownReporter struct {
	NoopReporter
	w     io.Writer
	level LogLevel
}

// NewMarkdownReporter creates a Markdown renderer writing to w.
func NewMarkdownReporter(w io.Writer, level LogLevel) *MarkdownReporter {
	return &MarkdownReporter{w: w, level: level}
}

var _ Reporter = (*MarkdownReporter)(nil)

func (m *MarkdownReporter) logMessages() bool { return m.level >= LogMessages }
func (m *MarkdownReporter) logPasses() bool   { return m.level >= LogEverything }

func (m *MarkdownReporter) OnSuiteStart(sum types.SuiteSummary) {
	fmt.Fprintf(m.w, "%s\n================================================\n", sum.Name)
}

func (m *MarkdownReporter) OnSuiteEnd(sum types.SuiteSummary) {
	fmt.Fprintf(m.w, "\n Summary\n------------------------------------------------\n")
	fmt.Fprintf(m.w, "**Total passed / failed assertions: %d / %d**\n\n", sum.Total.Passes, sum.Total.Fails)
}

func (m *MarkdownReporter) OnTestHeader(test *types.Test) {
	fmt.Fprintf(m.w, "\n Test %d: *%s* in file *%s*\n", test.Index, test.Name, test.File)
	fmt.Fprintf(m.w, "------------------------------------------------\n")
}

func (m *MarkdownReporter) OnTestFooter(test *types.Test, stats types.TestStats) {
	fmt.Fprintf(m.w, "\n**Total passed / failed assertions: %d / %d**\n", stats.Passes, stats.Fails)
}

func (m *MarkdownReporter) OnTestAborted(line int, reason string) {
	fmt.Fprintf(m.w, "- Line %s:\t**Test aborted: %s**\n", lineNr(line), reason)
}

func (m *MarkdownReporter) OnPassedCheck(line int, expr string) {
	if m.logPasses() {
		fmt.Fprintf(m.w, "- Line %s:\tPassed check in `%s`\n", lineNr(line), expr)
	}
}

func (m *MarkdownReporter) OnPassedPanic(line int, expr string) {
	if m.logPasses() {
		fmt.Fprintf(m.w, "- Line %s:\tPassed panic check in `%s`\n", lineNr(line), expr)
	}
}

func (m *MarkdownReporter) OnPassedEquals(line int, expr, value string) {
	if m.logPasses() {
		fmt.Fprintf(m.w, "- Line %s:\tPassed equals: `%s` == `%s`\n", lineNr(line), expr, value)
	}
}

func (m *MarkdownReporter) OnFailedCheck(line int, expr string) {
	fmt.Fprintf(m.w, "- Line %s:\tAssertion failed: `%s`\n", lineNr(line), expr)
}

func (m *MarkdownReporter) OnFailedPanic(line int, expr string) {
	fmt.Fprintf(m.w, "- Line %s:\tExpected panic: `%s`\n", lineNr(line), expr)
}

func (m *MarkdownReporter) OnFailedEquals(line int, expr, want, got string) {
	fmt.Fprintf(m.w, "- Line %s:\tEquals failed: `%s` != `%s` (got `%s`)\n", lineNr(line), expr, want, got)
}

func (m *MarkdownReporter) OnUnexpectedPanic(line int, expr, msg string) {
	fmt.Fprintf(m.w, "- Line %s:\tPanic was caught: %s in `%s`\n", lineNr(line), msg, expr)
}

func (m *MarkdownReporter) OnManualFailure(line int, reason string) {
	fmt.Fprintf(m.w, "- Line %s:\tManual failure, reason: '%s'\n", lineNr(line), reason)
}

func (m *MarkdownReporter) OnMessage(line int, text string) {
	if m.logMessages() {
		fmt.Fprintf(m.w, "- Line %s:\t%s.\n", lineNr(line), text)
	}
}

func (m *MarkdownReporter) OnExprValue(line int, expr, value string) {
	if m.logMessages() {
		fmt.Fprintf(m.w, "- Line %s:\t`%s` evaluates to `%s`.\n", lineNr(line), expr, value)
	}
}

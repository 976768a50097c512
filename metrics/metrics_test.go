package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/op-litmus/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "nil"},
		{"simple", errors.New("connection refused"), "connection_refused"},
		{"punctuation stripped", errors.New("read: timeout (5s)"), "read_timeout_s"},
		{"digits stripped", errors.New("code 42"), "code_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errToLabel(tt.err))
		})
	}
}

func TestRecordErrorDetailsIgnoresNil(t *testing.T) {
	before := testutil.CollectAndCount(errorsTotal)
	RecordErrorDetails("some_label", nil)
	assert.Equal(t, before, testutil.CollectAndCount(errorsTotal))
}

func TestRecordAssertion(t *testing.T) {
	RecordAssertion("suite-a", "run-1", types.AssertionPassed)
	RecordAssertion("suite-a", "run-1", types.AssertionPassed)
	RecordAssertion("suite-a", "run-1", types.AssertionFailed)

	passed := testutil.ToFloat64(assertionsTotal.WithLabelValues("suite-a", "run-1", "passed"))
	failed := testutil.ToFloat64(assertionsTotal.WithLabelValues("suite-a", "run-1", "failed"))
	assert.Equal(t, float64(2), passed)
	assert.Equal(t, float64(1), failed)
}

func TestRecordTest(t *testing.T) {
	RecordTest("suite-b", "run-2", "first", types.TestStatusPass)
	RecordTest("suite-b", "run-2", "second", types.TestStatusAborted)

	pass := testutil.ToFloat64(testsTotal.WithLabelValues("suite-b", "run-2", "pass"))
	aborted := testutil.ToFloat64(testsTotal.WithLabelValues("suite-b", "run-2", "aborted"))
	assert.Equal(t, float64(1), pass)
	assert.Equal(t, float64(1), aborted)
}

func TestRecordSuiteRun(t *testing.T) {
	RecordSuiteRun("suite-c", "run-3", types.TestStats{Passes: 4, Fails: 1}, 0, 2*time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(suiteResults.WithLabelValues("suite-c", "run-3", "fail")))
	assert.Equal(t, float64(4), testutil.ToFloat64(suitePassedAssertions.WithLabelValues("suite-c", "run-3")))
	assert.Equal(t, float64(1), testutil.ToFloat64(suiteFailedAssertions.WithLabelValues("suite-c", "run-3")))
	assert.Equal(t, float64(2), testutil.ToFloat64(suiteDuration.WithLabelValues("suite-c", "run-3")))

	RecordSuiteRun("suite-c", "run-4", types.TestStats{Passes: 2}, 0, time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(suiteResults.WithLabelValues("suite-c", "run-4", "pass")))

	// Aborted tests fail the run even without failed assertions.
	RecordSuiteRun("suite-c", "run-5", types.TestStats{Passes: 2}, 1, time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(suiteResults.WithLabelValues("suite-c", "run-5", "fail")))
}

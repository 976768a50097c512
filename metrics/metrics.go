package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-litmus/types"
)

const (
	MetricsNamespace = "litmus"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	assertionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "assertions_total",
		Help:      "Count of evaluated assertions",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of executed tests",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	suiteResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of suite runs",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	suitePassedAssertions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_passed_assertions",
		Help:      "Number of passed assertions per suite run",
	}, []string{
		"suite",
		"run_id",
	})

	suiteFailedAssertions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_failed_assertions",
		Help:      "Number of failed assertions per suite run",
	}, []string{
		"suite",
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Duration of suite runs",
	}, []string{
		"suite",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordAssertion counts one evaluated assertion.
func RecordAssertion(suite, runID string, result types.AssertionResult) {
	if Debug {
		log.Debug("metric inc",
			"m", "assertions_total",
			"suite", suite,
			"run_id", runID,
			"result", result)
	}
	assertionsTotal.WithLabelValues(suite, runID, string(result)).Inc()
}

// RecordTest counts one executed test with its terminal status.
func RecordTest(suite, runID, name string, status types.TestStatus) {
	if Debug {
		log.Debug("metric inc",
			"m", "tests_total",
			"suite", suite,
			"run_id", runID,
			"test", name,
			"result", status)
	}
	testsTotal.WithLabelValues(suite, runID, string(status)).Inc()
}

// RecordSuiteRun records the aggregate outcome of one suite run.
func RecordSuiteRun(suite, runID string, total types.TestStats, aborted int, duration time.Duration) {
	result := types.TestStatusPass
	if total.Fails > 0 || aborted > 0 {
		result = types.TestStatusFail
	}
	suiteResults.WithLabelValues(suite, runID, string(result)).Set(1)
	suitePassedAssertions.WithLabelValues(suite, runID).Add(float64(total.Passes))
	suiteFailedAssertions.WithLabelValues(suite, runID).Add(float64(total.Fails))
	suiteDuration.WithLabelValues(suite, runID).Set(duration.Seconds())
}

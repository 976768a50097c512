package selfcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-litmus/reporting"
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

func TestSelfCheckSuitePasses(t *testing.T) {
	suite := NewSuite()
	require.Equal(t, 4, suite.Len())

	report, err := suite.Run(func() reporting.Reporter { return reporting.NoopReporter{} }, types.ModeContinue)
	require.NoError(t, err)

	assert.False(t, report.Failed(), "the self-check suite must be all green")
	assert.Zero(t, report.Aborted)
	assert.Zero(t, report.Total.Fails)
	assert.Positive(t, report.Total.Passes)
	for _, rec := range report.Records {
		assert.Equal(t, types.TestStatusPass, rec.Status(), "test %q", rec.Name)
	}
}

func TestSelfCheckSuitePassesUnderThrowMode(t *testing.T) {
	suite := NewSuite()
	_, err := suite.Run(func() reporting.Reporter { return reporting.NoopReporter{} }, types.ModeThrow)
	require.NoError(t, err)
}

func TestSuiteBuildsFreshInstances(t *testing.T) {
	a, b := NewSuite(), NewSuite()
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Len(), b.Len())
}

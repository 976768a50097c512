// Package selfcheck ships a built-in suite exercising every assertion kind
// of the engine. The binary registers it under the name "selfcheck" so a run
// plan can smoke-test an installation; every test in it passes.
package selfcheck

import (
	"sort"
	"strconv"

	litmus "github.com/ethereum-optimism/infra/op-litmus"
	"github.com/ethereum-optimism/infra/op-litmus/types"
)

// SuiteName is the name the built-in suite registers under.
const SuiteName = "selfcheck"

// NewSuite builds the self-check suite.
func NewSuite() *litmus.TestSuite {
	suite := litmus.NewSuite("op-litmus self-check")

	suite.AddTest("checks and equals", func(s *litmus.TestSuite) {
		var values []int

		litmus.Check(s, func() bool { return len(values) == 0 }, types.Continue, "len(values) == 0", 24)

		s.Message(26, "Adding elements to the slice")
		values = append(values, 42, 56)

		litmus.Equal(s, 2, func() int { return len(values) }, types.Continue, "len(values)", 29)
		litmus.Equal(s, "42", func() string { return strconv.Itoa(values[0]) }, types.Continue, "strconv.Itoa(values[0])", 30)

		litmus.Print(s, "values", values, 32)
	}, "selfcheck.go")

	suite.AddTest("expected panics", func(s *litmus.TestSuite) {
		values := []int{1, 2, 3}

		litmus.Panics(s, func() { _ = values[5] }, types.Continue, "values[5]", 38)
		litmus.PanicsAs[string](s, func() { panic("bad code") }, types.Continue, `panic("bad code")`, 39)
	}, "selfcheck.go")

	suite.AddTest("abort policy leaves earlier passes intact", func(s *litmus.TestSuite) {
		sorted := sort.IntsAreSorted([]int{1, 2, 3})
		litmus.Check(s, func() bool { return sorted }, types.Abort, "sort.IntsAreSorted", 45)
		litmus.Check(s, func() bool { return true }, types.Continue, "true", 46)
	}, "selfcheck.go")

	suite.AddTest("value rendering", func(s *litmus.TestSuite) {
		s.Message(50, "Printable value")
		litmus.Equal(s, 5, func() int { return 5 }, types.Continue, "5", 51)

		s.Message(53, "Value without a textual representation")
		ch := make(chan int)
		litmus.Print(s, "ch", ch, 55)
	}, "selfcheck.go")

	return suite
}

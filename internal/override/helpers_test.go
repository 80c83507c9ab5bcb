package override

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testRule(id, pattern, target string, priority int) MappingOverride {
	return MappingOverride{
		ID:          id,
		Name:        "rule " + id,
		Pattern:     Pattern{Text: pattern},
		Type:        MatchExact,
		Scope:       GlobalScope{},
		TargetField: target,
		Priority:    priority,
		Active:      true,
		CreatedAt:   testTime,
		ModifiedAt:  testTime,
		CreatedBy:   "tester",
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	return NewEngine(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

// withoutTiming zeroes the diagnostic timing field so results compare equal.
func withoutTiming(r Result) Result {
	r.ResolutionTime = 0
	return r
}

// assertResultEqual compares results ignoring timing and dumps both on mismatch.
func assertResultEqual(t *testing.T, want, got Result) {
	t.Helper()

	if !assert.Equal(t, withoutTiming(want), withoutTiming(got)) {
		t.Logf("want:\n%s\ngot:\n%s", spew.Sdump(want), spew.Sdump(got))
	}
}

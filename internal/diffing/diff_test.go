package diffing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SearchAudit/internal/domain"
)

func TestCompareIdenticalSequences(t *testing.T) {
	t.Parallel()

	report := Compare([]string{"NW1", "AP2", "AN3"}, []string{"NW1", "AP2", "AN3"})

	assert.False(t, report.SetDiff)
	assert.False(t, report.OrderDiff)
	assert.Zero(t, report.TotalDiffCount)
	assert.Empty(t, report.OrderChanges)
}

func TestCompareSetMismatchSkipsOrder(t *testing.T) {
	t.Parallel()

	// Positions mismatch everywhere, but under a set difference order must
	// not be compared at all.
	report := Compare([]string{"a", "b", "c"}, []string{"c", "b", "d"})

	assert.True(t, report.SetDiff)
	assert.False(t, report.OrderDiff)
	assert.Equal(t, []string{"a"}, report.OnlyInOld)
	assert.Equal(t, []string{"d"}, report.OnlyInNew)
	assert.Empty(t, report.OrderChanges)
	assert.Equal(t, 2, report.TotalDiffCount)
}

func TestCompareOrderSwap(t *testing.T) {
	t.Parallel()

	report := Compare([]string{"x", "y", "z"}, []string{"x", "z", "y"})

	require.False(t, report.SetDiff)
	assert.True(t, report.OrderDiff)
	assert.Equal(t, []domain.OrderChange{
		{Position: 1, OldID: "y", NewID: "z"},
		{Position: 2, OldID: "z", NewID: "y"},
	}, report.OrderChanges)
	assert.Equal(t, 2, report.TotalDiffCount)
}

func TestCompareDuplicateIDsLengthMismatch(t *testing.T) {
	t.Parallel()

	// Duplicate ids make equal sets with unequal lengths possible; the
	// trailing position is charged as an order change with an empty
	// counterpart.
	report := Compare([]string{"x", "y"}, []string{"x", "y", "y"})

	require.False(t, report.SetDiff)
	assert.True(t, report.OrderDiff)
	assert.Equal(t, []domain.OrderChange{{Position: 2, NewID: "y"}}, report.OrderChanges)
	assert.Equal(t, 1, report.TotalDiffCount)
}

func TestCompareInvariantTotalCount(t *testing.T) {
	t.Parallel()

	cases := [][2][]string{
		{{"a", "b"}, {"b", "a"}},
		{{"a", "b", "c"}, {"a"}},
		{{"a"}, {"a", "b", "c"}},
		{{}, {"a"}},
		{{"a", "a"}, {"a"}},
	}

	for _, tc := range cases {
		report := Compare(tc[0], tc[1])
		want := len(report.OnlyInOld) + len(report.OnlyInNew) + len(report.OrderChanges)
		assert.Equal(t, want, report.TotalDiffCount, "sequences %v vs %v", tc[0], tc[1])
	}
}

func TestBestPairingPicksMinimalDiff(t *testing.T) {
	t.Parallel()

	oldSamples := []Sample{
		{IDs: []string{"a", "b"}, CorrelationID: "old-t1", Label: "old_1"},
		{IDs: []string{"a", "c"}, CorrelationID: "old-t2", Label: "old_2"},
	}
	newSamples := []Sample{
		{IDs: []string{"a", "b"}, CorrelationID: "new-t1", Label: "new_1"},
	}

	best, ok := BestPairing(oldSamples, newSamples)

	require.True(t, ok)
	assert.Zero(t, best.Report.TotalDiffCount)
	assert.Equal(t, "old_1", best.Old.Label)
	assert.Equal(t, "new_1", best.New.Label)
}

func TestBestPairingFirstMinimumWins(t *testing.T) {
	t.Parallel()

	oldSamples := []Sample{
		{IDs: []string{"a", "b"}, Label: "old_1"},
		{IDs: []string{"b", "a"}, Label: "old_2"},
	}
	newSamples := []Sample{
		{IDs: []string{"b", "a"}, Label: "new_1"},
		{IDs: []string{"a", "b"}, Label: "new_2"},
	}

	// old_1×new_2 and old_2×new_1 are both perfect; enumeration order must
	// keep the first one encountered.
	best, ok := BestPairing(oldSamples, newSamples)

	require.True(t, ok)
	assert.Zero(t, best.Report.TotalDiffCount)
	assert.Equal(t, "old_1", best.Old.Label)
	assert.Equal(t, "new_2", best.New.Label)
}

func TestBestPairingEmptySide(t *testing.T) {
	t.Parallel()

	_, ok := BestPairing(nil, []Sample{{IDs: []string{"a"}}})
	assert.False(t, ok)

	_, ok = BestPairing([]Sample{{IDs: []string{"a"}}}, nil)
	assert.False(t, ok)
}

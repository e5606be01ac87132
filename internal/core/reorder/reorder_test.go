package reorder_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolists/internal/core/reorder"
)

func siblings(n int) []reorder.Entry {
	out := make([]reorder.Entry, n)
	for i := range out {
		out[i] = reorder.Entry{ID: int64(i + 1), Position: i}
	}
	return out
}

func apply(t *testing.T, entries []reorder.Entry, changes []reorder.Change) map[int64]int {
	t.Helper()

	positions := make(map[int64]int, len(entries))
	for _, e := range entries {
		positions[e.ID] = e.Position
	}
	for _, c := range changes {
		positions[c.ID] = c.Position
	}
	return positions
}

func TestPlanMove_NoOp(t *testing.T) {
	changes, err := reorder.PlanMove(siblings(3), 2, 1)

	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestPlanMove_Later(t *testing.T) {
	entries := siblings(4)

	changes, err := reorder.PlanMove(entries, 1, 2)
	require.NoError(t, err)

	positions := apply(t, entries, changes)

	assert.Equal(t, 2, positions[1])
	assert.Equal(t, 0, positions[2])
	assert.Equal(t, 1, positions[3])
	assert.Equal(t, 3, positions[4])
}

func TestPlanMove_Earlier(t *testing.T) {
	// Spec scenario: [A B C], move C to the front, final order C A B.
	entries := siblings(3)

	changes, err := reorder.PlanMove(entries, 3, 0)
	require.NoError(t, err)

	positions := apply(t, entries, changes)

	assert.Equal(t, 0, positions[3])
	assert.Equal(t, 1, positions[1])
	assert.Equal(t, 2, positions[2])
}

func TestPlanMove_PermutationProperty(t *testing.T) {
	entries := siblings(7)

	for _, id := range []int64{1, 4, 7} {
		for newPos := 0; newPos < len(entries); newPos++ {
			changes, err := reorder.PlanMove(entries, id, newPos)
			require.NoError(t, err)

			positions := apply(t, entries, changes)

			got := make([]int, 0, len(positions))
			for _, p := range positions {
				got = append(got, p)
			}
			sort.Ints(got)

			for i, p := range got {
				assert.Equal(t, i, p, "positions must stay a contiguous permutation")
			}
			assert.Equal(t, newPos, positions[id])
		}
	}
}

func TestPlanMove_OutOfRange(t *testing.T) {
	_, err := reorder.PlanMove(siblings(3), 1, 3)
	assert.ErrorIs(t, err, reorder.ErrPositionOutOfRange)

	_, err = reorder.PlanMove(siblings(3), 1, -1)
	assert.ErrorIs(t, err, reorder.ErrPositionOutOfRange)
}

func TestPlanMove_UnknownID(t *testing.T) {
	_, err := reorder.PlanMove(siblings(3), 99, 0)
	assert.Error(t, err)
}

func TestPlanSequence(t *testing.T) {
	changes := reorder.PlanSequence([]int64{30, 10, 20})

	require.Len(t, changes, 3)
	assert.Equal(t, reorder.Change{ID: 30, Position: 0}, changes[0])
	assert.Equal(t, reorder.Change{ID: 10, Position: 1}, changes[1])
	assert.Equal(t, reorder.Change{ID: 20, Position: 2}, changes[2])
}

func TestPlanSequence_Empty(t *testing.T) {
	assert.Empty(t, reorder.PlanSequence(nil))
}

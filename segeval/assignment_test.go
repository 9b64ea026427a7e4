package segeval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignObjectsHungarianVsGreedy(t *testing.T) {
	m := NewIoUMatrix(2, 2, []float64{
		0.9, 0.8,
		0.85, 0.1,
	})

	hungarianMatches := AssignObjects(m, 0.05, MatchingAlgorithmHungarian)
	require.Len(t, hungarianMatches, 2)
	assert.Equal(t, Assignment{True: 0, Pred: 1, IoU: 0.8}, hungarianMatches[0])
	assert.Equal(t, Assignment{True: 1, Pred: 0, IoU: 0.85}, hungarianMatches[1])

	greedyMatches := AssignObjects(m, 0.05, MatchingAlgorithmGreedy)
	require.Len(t, greedyMatches, 2)
	assert.Equal(t, Assignment{True: 0, Pred: 0, IoU: 0.9}, greedyMatches[0])
	assert.Equal(t, Assignment{True: 1, Pred: 1, IoU: 0.1}, greedyMatches[1])

	assert.InDelta(t, 0.825, MeanMatchedIoU(hungarianMatches), eps)
	assert.InDelta(t, 0.5, MeanMatchedIoU(greedyMatches), eps)
}

func TestAssignObjectsRectangular(t *testing.T) {
	m := NewIoUMatrix(1, 3, []float64{0.2, 0.6, 0.4})
	for _, algorithm := range []MatchingAlgorithm{MatchingAlgorithmHungarian, MatchingAlgorithmGreedy} {
		matches := AssignObjects(m, 0.3, algorithm)
		require.Len(t, matches, 1, "algorithm %d", algorithm)
		assert.Equal(t, Assignment{True: 0, Pred: 1, IoU: 0.6}, matches[0])
	}

	tall := NewIoUMatrix(3, 1, []float64{0.1, 0.2, 0.7})
	matches := AssignObjects(tall, 0.3, MatchingAlgorithmHungarian)
	require.Len(t, matches, 1)
	assert.Equal(t, Assignment{True: 2, Pred: 0, IoU: 0.7}, matches[0])
}

func TestAssignObjectsThresholdAndEmpty(t *testing.T) {
	m := NewIoUMatrix(1, 1, []float64{0.5})
	assert.Empty(t, AssignObjects(m, 0.5, MatchingAlgorithmHungarian))
	assert.Empty(t, AssignObjects(m, 0.5, MatchingAlgorithmGreedy))

	assert.Empty(t, AssignObjects(NewIoUMatrix(0, 3, nil), 0.0, MatchingAlgorithmHungarian))
	assert.Empty(t, AssignObjects(NewIoUMatrix(2, 0, nil), 0.0, MatchingAlgorithmGreedy))
	assert.Equal(t, 0.0, MeanMatchedIoU(nil))
}

func TestAssignObjectsFromLabels(t *testing.T) {
	gt := mustLabels(t, [][]int{
		{1, 1, 0, 2, 2},
		{1, 1, 0, 2, 2},
	})
	pred := mustLabels(t, [][]int{
		{0, 7, 0, 3, 3},
		{7, 7, 0, 3, 3},
	})
	overlap, err := IntersectionOverUnion(gt, pred)
	require.NoError(t, err)

	matches := AssignObjects(overlap.IoU, 0.5, MatchingAlgorithmHungarian)
	require.Len(t, matches, 2)
	// columns ordered by label: 3, 7
	assert.Equal(t, 1, matches[0].Pred)
	assert.InDelta(t, 0.75, matches[0].IoU, eps)
	assert.Equal(t, 0, matches[1].Pred)
	assert.InDelta(t, 1.0, matches[1].IoU, eps)
}

// bestAssignmentTotal enumerates every one-to-one assignment of rows to columns
func bestAssignmentTotal(m *IoUMatrix) float64 {
	rows, cols := m.Dims()
	usedCols := make([]bool, cols)
	var search func(row int) float64
	search = func(row int) float64 {
		if row == rows {
			return 0
		}
		// row may stay unassigned
		best := search(row + 1)
		for j := 0; j < cols; j++ {
			if usedCols[j] {
				continue
			}
			usedCols[j] = true
			if total := m.At(row, j) + search(row+1); total > best {
				best = total
			}
			usedCols[j] = false
		}
		return best
	}
	return search(0)
}

func TestAssignObjectsHungarianIsOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 500; trial++ {
		rows, cols := 1+rng.Intn(5), 1+rng.Intn(5)
		data := make([]float64, rows*cols)
		for k := range data {
			if rng.Float64() < 0.5 {
				data[k] = rng.Float64()
			}
		}
		m := NewIoUMatrix(rows, cols, data)

		matches := AssignObjects(m, 0, MatchingAlgorithmHungarian)
		total := 0.0
		seenRows := make(map[int]struct{})
		seenCols := make(map[int]struct{})
		for _, a := range matches {
			require.NotContains(t, seenRows, a.True)
			require.NotContains(t, seenCols, a.Pred)
			seenRows[a.True] = struct{}{}
			seenCols[a.Pred] = struct{}{}
			assert.Equal(t, m.At(a.True, a.Pred), a.IoU)
			total += a.IoU
		}
		require.InDelta(t, bestAssignmentTotal(m), total, 1e-9, "trial %d, matrix %v", trial, m)
	}
}

func TestSolveLinearAssignment(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3, 2},
		{2, 0, 5, 3},
		{3, 2, 2, 3},
		{2, 3, 3, 2},
	}
	rowToCol := solveLinearAssignment(cost)
	total := 0.0
	for i, j := range rowToCol {
		total += cost[i][j]
	}
	// minimum total is 2 + 0 + 2 + 2
	assert.InDelta(t, 6.0, total, eps)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, rowToCol)

	assert.Equal(t, []int{}, solveLinearAssignment(nil))
}

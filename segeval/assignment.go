package segeval

import (
	"container/heap"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MatchingAlgorithm is for algorithm type for one-to-one assignment of predictions to ground truth objects
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	MatchingAlgorithmHungarian MatchingAlgorithm = iota
	// MatchingAlgorithmGreedy takes pairs in descending IoU order, faster but potentially suboptimal
	MatchingAlgorithmGreedy
)

// Assignment pairs ground truth object (IoU row) with predicted object (IoU column)
type Assignment struct {
	True int
	Pred int
	IoU  float64
}

// AssignObjects matches every ground truth object to at most one prediction and vice versa.
// Only pairs with IoU strictly above minIoU are returned, ordered by ground truth row.
func AssignObjects(iou *IoUMatrix, minIoU float64, algorithm MatchingAlgorithm) []Assignment {
	rows, cols := iou.Dims()
	if rows == 0 || cols == 0 {
		return []Assignment{}
	}
	var assignments []Assignment
	switch algorithm {
	case MatchingAlgorithmHungarian:
		assignments = hungarianAssignment(iou, minIoU)
	default:
		assignments = greedyAssignment(iou, minIoU)
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].True < assignments[j].True
	})
	return assignments
}

// MeanMatchedIoU returns average IoU over assigned pairs, 0 for no pairs
func MeanMatchedIoU(assignments []Assignment) float64 {
	if len(assignments) == 0 {
		return 0
	}
	values := make([]float64, len(assignments))
	for i, a := range assignments {
		values[i] = a.IoU
	}
	return floats.Sum(values) / float64(len(values))
}

func hungarianAssignment(iou *IoUMatrix, minIoU float64) []Assignment {
	rows, cols := iou.Dims()
	// Rectangular matrix - pad to make it square with zeros (lowest IoU).
	// Maximizing IoU is minimizing its negation.
	size := max(rows, cols)
	cost := make([][]float64, size)
	for i := range cost {
		cost[i] = make([]float64, size)
		if i >= rows {
			continue
		}
		for j := 0; j < cols; j++ {
			cost[i][j] = -iou.data[i*cols+j]
		}
	}
	rowToCol := solveLinearAssignment(cost)
	assignments := make([]Assignment, 0, min(rows, cols))
	for i, j := range rowToCol {
		if i >= rows || j >= cols {
			continue
		}
		if v := iou.At(i, j); v > minIoU {
			assignments = append(assignments, Assignment{True: i, Pred: j, IoU: v})
		}
	}
	return assignments
}

// pairCandidate holds IoU of a (ground truth, prediction) pair for priority queue
type pairCandidate struct {
	iou   float64
	row   int
	col   int
	index int
}

// pairHeap implements heap.Interface for max-heap by IoU
type pairHeap []*pairCandidate

func (h pairHeap) Len() int { return len(h) }

// Less returns true if i has higher IoU (max-heap). Ties resolved by position for determinism.
func (h pairHeap) Less(i, j int) bool {
	if h[i].iou != h[j].iou {
		return h[i].iou > h[j].iou
	}
	if h[i].row != h[j].row {
		return h[i].row < h[j].row
	}
	return h[i].col < h[j].col
}

func (h pairHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pairHeap) Push(x any) {
	n := len(*h)
	item := x.(*pairCandidate)
	item.index = n
	*h = append(*h, item)
}

func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[0 : n-1]
	return item
}

func greedyAssignment(iou *IoUMatrix, minIoU float64) []Assignment {
	rows, cols := iou.Dims()
	pq := &pairHeap{}
	heap.Init(pq)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := iou.At(i, j); v > minIoU {
				heap.Push(pq, &pairCandidate{iou: v, row: i, col: j})
			}
		}
	}
	// Prevent double assignment of objects
	reservedRows := make(map[int]struct{})
	reservedCols := make(map[int]struct{})
	assignments := make([]Assignment, 0, min(rows, cols))
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pairCandidate)
		if _, ok := reservedRows[item.row]; ok {
			continue
		}
		if _, ok := reservedCols[item.col]; ok {
			continue
		}
		reservedRows[item.row] = struct{}{}
		reservedCols[item.col] = struct{}{}
		assignments = append(assignments, Assignment{True: item.row, Pred: item.col, IoU: item.iou})
	}
	return assignments
}

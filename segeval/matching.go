package segeval

import (
	"github.com/pkg/errors"
)

// MatchCounts holds per-threshold classification of objects
type MatchCounts struct {
	// Ground truth objects with exactly one prediction above threshold
	TruePositives int
	// Predictions with no ground truth object above threshold
	FalsePositives int
	// Ground truth objects with no prediction above threshold
	FalseNegatives int
}

// Precision returns TP / (TP + FP + FN + Epsilon)
func (c MatchCounts) Precision() float64 {
	tp := float64(c.TruePositives)
	return tp / (tp + float64(c.FalsePositives) + float64(c.FalseNegatives) + Epsilon)
}

// Recall returns TP / (TP + FN + Epsilon)
func (c MatchCounts) Recall() float64 {
	tp := float64(c.TruePositives)
	return tp / (tp + float64(c.FalseNegatives) + Epsilon)
}

// F1 returns 2TP / (2TP + FP + FN + Epsilon)
func (c MatchCounts) F1() float64 {
	tp := float64(c.TruePositives)
	return 2 * tp / (2*tp + float64(c.FalsePositives) + float64(c.FalseNegatives) + Epsilon)
}

// RowMatches returns, per ground truth object, the number of predictions with IoU strictly above threshold
func (m *IoUMatrix) RowMatches(threshold float64) []int {
	counts := make([]int, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if m.data[i*m.cols+j] > threshold {
				counts[i]++
			}
		}
	}
	return counts
}

// ColMatches returns, per predicted object, the number of ground truth objects with IoU strictly above threshold
func (m *IoUMatrix) ColMatches(threshold float64) []int {
	counts := make([]int, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if m.data[i*m.cols+j] > threshold {
				counts[j]++
			}
		}
	}
	return counts
}

// Missed flags ground truth objects without any prediction above threshold
func (m *IoUMatrix) Missed(threshold float64) []bool {
	return countsWhere(m.RowMatches(threshold), func(n int) bool { return n == 0 })
}

// Splits flags ground truth objects overlapped by more than one prediction above threshold
func (m *IoUMatrix) Splits(threshold float64) []bool {
	return countsWhere(m.RowMatches(threshold), func(n int) bool { return n > 1 })
}

// Merges flags predictions overlapping more than one ground truth object above threshold
func (m *IoUMatrix) Merges(threshold float64) []bool {
	return countsWhere(m.ColMatches(threshold), func(n int) bool { return n > 1 })
}

// CountMatches classifies objects of the IoU matrix at threshold (strict comparison).
// A ground truth object is a true positive only when exactly one prediction matches it:
// ambiguous multi-matches get no credit.
func CountMatches(threshold float64, iou *IoUMatrix) (MatchCounts, error) {
	rowMatches := iou.RowMatches(threshold)
	colMatches := iou.ColMatches(threshold)

	counts := MatchCounts{}
	for i, n := range rowMatches {
		tp, fn := 0, 0
		if n == 1 {
			tp = 1
		}
		if n == 0 {
			fn = 1
		}
		if tp+fn > 1 {
			return MatchCounts{}, errors.Wrapf(ErrInvariantViolated, "ground truth object %d counted %d times", i, tp+fn)
		}
		counts.TruePositives += tp
		counts.FalseNegatives += fn
	}
	for _, n := range colMatches {
		if n == 0 {
			counts.FalsePositives++
		}
	}
	if counts.TruePositives+counts.FalseNegatives > len(rowMatches) || counts.FalsePositives > len(colMatches) {
		return MatchCounts{}, errors.Wrapf(ErrInvariantViolated, "counts %+v exceed matrix %dx%d", counts, len(rowMatches), len(colMatches))
	}
	return counts, nil
}

// PrecisionAt returns TP / (TP + FP + FN + Epsilon) at threshold.
// Empty matrices yield 0.
func PrecisionAt(threshold float64, iou *IoUMatrix) (float64, error) {
	counts, err := CountMatches(threshold, iou)
	if err != nil {
		return 0, errors.Wrapf(err, "Can't compute precision at %v", threshold)
	}
	return counts.Precision(), nil
}

func countsWhere(counts []int, pred func(int) bool) []bool {
	flags := make([]bool, len(counts))
	for i, n := range counts {
		flags[i] = pred(n)
	}
	return flags
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

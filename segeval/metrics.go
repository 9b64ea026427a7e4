package segeval

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

const (
	// FalseNegativeThreshold is IoU above which a ground truth object is considered found
	FalseNegativeThreshold = 0.7
	// SplitMergeThreshold is IoU above which an overlap counts towards splits and merges
	SplitMergeThreshold = 0.3
)

// APThresholds is the average precision sweep: 0.50 to 0.95 with step 0.05.
// Listed explicitly so values do not drift with repeated addition.
var APThresholds = []float64{0.50, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80, 0.85, 0.90, 0.95}

// APResults appends one {Image, Threshold, Precision} row per threshold of APThresholds
func (o *Overlap) APResults(results *Table, imageName string) (*Table, error) {
	return o.apResults(results, imageName, APThresholds)
}

func (o *Overlap) apResults(results *Table, imageName string, thresholds []float64) (*Table, error) {
	if results == nil {
		results = NewTable()
	}
	rows := make([]Row, 0, len(thresholds))
	for _, t := range thresholds {
		p, err := PrecisionAt(t, o.IoU)
		if err != nil {
			return results, errors.Wrapf(err, "Can't compute AP results for image '%s'", imageName)
		}
		rows = append(rows, Row{
			FieldImage:     imageName,
			FieldThreshold: t,
			FieldPrecision: p,
		})
	}
	return results.Append(rows...), nil
}

// MeanAveragePrecision returns mean precision over thresholds (APThresholds if empty)
func (o *Overlap) MeanAveragePrecision(thresholds ...float64) (float64, error) {
	if len(thresholds) == 0 {
		thresholds = APThresholds
	}
	precisions := make([]float64, len(thresholds))
	for i, t := range thresholds {
		p, err := PrecisionAt(t, o.IoU)
		if err != nil {
			return 0, err
		}
		precisions[i] = p
	}
	return floats.Sum(precisions) / float64(len(precisions)), nil
}

// FalseNegatives appends one {Area, False_Negative} row per ground truth object.
// Table is returned unchanged when ground truth has no objects.
func (o *Overlap) FalseNegatives(results *Table, threshold float64) *Table {
	if results == nil {
		results = NewTable()
	}
	if len(o.TrueLabels) == 0 {
		return results
	}
	missed := o.IoU.Missed(threshold)
	rows := make([]Row, len(missed))
	for i, m := range missed {
		flag := 0
		if m {
			flag = 1
		}
		rows[i] = Row{
			FieldArea:          o.TrueAreas[i],
			FieldFalseNegative: flag,
		}
	}
	return results.Append(rows...)
}

// SplitsAndMerges appends single {Image_Name, Merges, Splits} row with total counts at threshold
func (o *Overlap) SplitsAndMerges(results *Table, imageName string, threshold float64) *Table {
	if results == nil {
		results = NewTable()
	}
	return results.Append(Row{
		FieldImageName: imageName,
		FieldMerges:    countTrue(o.IoU.Merges(threshold)),
		FieldSplits:    countTrue(o.IoU.Splits(threshold)),
	})
}

// ComputeAPResults computes precision of prediction at every threshold of APThresholds
// and appends rows to results. Use IntersectionOverUnion and Overlap.APResults to reuse the matrix.
func ComputeAPResults(groundTruth, prediction LabelArray, results *Table, imageName string) (*Table, error) {
	overlap, err := IntersectionOverUnion(groundTruth, prediction)
	if err != nil {
		return results, errors.Wrapf(err, "Can't compute AP results for image '%s'", imageName)
	}
	return overlap.APResults(results, imageName)
}

// GetFalseNegatives appends area and missed flag of every ground truth object at threshold
// (FalseNegativeThreshold is the usual choice).
func GetFalseNegatives(groundTruth, prediction LabelArray, results *Table, threshold float64) (*Table, error) {
	overlap, err := IntersectionOverUnion(groundTruth, prediction)
	if err != nil {
		return results, errors.Wrap(err, "Can't count false negatives")
	}
	return overlap.FalseNegatives(results, threshold), nil
}

// GetSplitsAndMerges appends split and merge counts of image at SplitMergeThreshold
func GetSplitsAndMerges(groundTruth, prediction LabelArray, results *Table, imageName string) (*Table, error) {
	overlap, err := IntersectionOverUnion(groundTruth, prediction)
	if err != nil {
		return results, errors.Wrapf(err, "Can't count splits and merges for image '%s'", imageName)
	}
	return overlap.SplitsAndMerges(results, imageName, SplitMergeThreshold), nil
}

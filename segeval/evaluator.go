package segeval

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Tables bundles the result tables filled by Evaluator
type Tables struct {
	// Per-threshold precision rows
	AP *Table
	// Per-object false negative rows
	FalseNegatives *Table
	// Per-image split/merge rows
	SplitsMerges *Table
}

// NewTables creates empty set of result tables
func NewTables() *Tables {
	return &Tables{
		AP:             NewTable(),
		FalseNegatives: NewTable(),
		SplitsMerges:   NewTable(),
	}
}

// Evaluator computes every metric of an image pair from a single IoU matrix
type Evaluator struct {
	// IoU threshold for false negative tabulation. Default 0.7
	falseNegativeThreshold float64
	// IoU threshold for split/merge detection. Default 0.3
	splitMergeThreshold float64
	// Average precision sweep. Default APThresholds
	thresholds []float64
	logger     *slog.Logger
}

// NewDefaultEvaluator creates evaluator with default thresholds.
// Default values: falseNegativeThreshold=0.7, splitMergeThreshold=0.3, thresholds=APThresholds
func NewDefaultEvaluator() *Evaluator {
	return &Evaluator{
		falseNegativeThreshold: FalseNegativeThreshold,
		splitMergeThreshold:    SplitMergeThreshold,
		thresholds:             APThresholds,
		logger:                 slog.Default(),
	}
}

// NewEvaluator creates evaluator with specified thresholds. Empty sweep falls back to APThresholds
func NewEvaluator(falseNegativeThreshold, splitMergeThreshold float64, thresholds []float64) *Evaluator {
	if len(thresholds) == 0 {
		thresholds = APThresholds
	}
	return &Evaluator{
		falseNegativeThreshold: falseNegativeThreshold,
		splitMergeThreshold:    splitMergeThreshold,
		thresholds:             thresholds,
		logger:                 slog.Default(),
	}
}

// WithLogger sets logger for debug output
func (e *Evaluator) WithLogger(logger *slog.Logger) *Evaluator {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// imageRows holds rows of one image before they are appended to tables
type imageRows struct {
	ap             []Row
	falseNegatives []Row
	splitsMerges   []Row
}

// Evaluate builds IoU matrix of image once and appends rows to every table of tables.
// Nil fields of tables are replaced with fresh tables; nil tables is ErrNilTables.
func (e *Evaluator) Evaluate(imageName string, groundTruth, prediction LabelArray, tables *Tables) error {
	if tables == nil {
		return errors.Wrapf(ErrNilTables, "Can't evaluate image '%s'", imageName)
	}
	rows, err := e.evaluateRows(imageName, groundTruth, prediction)
	if err != nil {
		return err
	}
	tables.append(rows)
	e.logger.Debug("Rows appended", "image", imageName, "run", tables.AP.ID)
	return nil
}

func (e *Evaluator) evaluateRows(imageName string, groundTruth, prediction LabelArray) (imageRows, error) {
	overlap, err := IntersectionOverUnion(groundTruth, prediction)
	if err != nil {
		return imageRows{}, errors.Wrapf(err, "Can't evaluate image '%s'", imageName)
	}
	rows, cols := overlap.IoU.Dims()
	e.logger.Debug("IoU matrix built", "image", imageName, "true_objects", rows, "pred_objects", cols)

	ap, err := overlap.apResults(NewTable(), imageName, e.thresholds)
	if err != nil {
		return imageRows{}, err
	}
	fn := overlap.FalseNegatives(NewTable(), e.falseNegativeThreshold)
	sm := overlap.SplitsAndMerges(NewTable(), imageName, e.splitMergeThreshold)

	e.logger.Debug("Image evaluated",
		"image", imageName,
		"ap_rows", ap.Len(),
		"false_negative_rows", fn.Len(),
		"merges", sm.Row(0)[FieldMerges],
		"splits", sm.Row(0)[FieldSplits],
	)
	return imageRows{
		ap:             ap.Rows(),
		falseNegatives: fn.Rows(),
		splitsMerges:   sm.Rows(),
	}, nil
}

// ensure replaces missing tables with fresh ones
func (t *Tables) ensure() {
	if t.AP == nil {
		t.AP = NewTable()
	}
	if t.FalseNegatives == nil {
		t.FalseNegatives = NewTable()
	}
	if t.SplitsMerges == nil {
		t.SplitsMerges = NewTable()
	}
}

func (t *Tables) append(rows imageRows) {
	t.ensure()
	t.AP.Append(rows.ap...)
	t.FalseNegatives.Append(rows.falseNegatives...)
	t.SplitsMerges.Append(rows.splitsMerges...)
}

package segeval

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when ground truth and prediction label arrays differ in shape
	ErrShapeMismatch = errors.New("label arrays have different shapes")
	// ErrDataLength is returned when label data does not fill height*width cells
	ErrDataLength = errors.New("label data length does not match shape")
	// ErrNegativeLabel is returned when a label array contains a negative identifier
	ErrNegativeLabel = errors.New("negative label")
	// ErrUnsupportedImage is returned when an image can't be read as a label array
	ErrUnsupportedImage = errors.New("unsupported label image type")
	// ErrNilTables is returned when evaluator has no tables to append rows to
	ErrNilTables = errors.New("nil result tables")
	// ErrInvariantViolated signals an object classified more than once on its own axis.
	// It should be unreachable for matrices built by IntersectionOverUnion.
	ErrInvariantViolated = errors.New("match classification invariant violated")
)

package segeval

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Epsilon substitutes zero unions and keeps precision denominator positive
const Epsilon = 1e-9

// IoUMatrix holds Intersection over Union values between ground truth objects (rows)
// and predicted objects (columns). Either dimension may be zero.
type IoUMatrix struct {
	rows int
	cols int
	data []float64
}

// NewIoUMatrix creates matrix of given dimensions over row-major data.
// If data is nil the matrix is zero-filled.
func NewIoUMatrix(rows, cols int, data []float64) *IoUMatrix {
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		panic(mat.ErrShape)
	}
	return &IoUMatrix{
		rows: rows,
		cols: cols,
		data: data,
	}
}

// Dims returns number of ground truth objects and number of predicted objects
func (m *IoUMatrix) Dims() (int, int) {
	return m.rows, m.cols
}

// At returns IoU between ground truth object i and predicted object j
func (m *IoUMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	return m.data[i*m.cols+j]
}

// T returns transposed view of matrix
func (m *IoUMatrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Row returns copy of IoU values for ground truth object i
func (m *IoUMatrix) Row(i int) []float64 {
	row := make([]float64, m.cols)
	copy(row, m.data[i*m.cols:(i+1)*m.cols])
	return row
}

// Col returns copy of IoU values for predicted object j
func (m *IoUMatrix) Col(j int) []float64 {
	col := make([]float64, m.rows)
	for i := range col {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}

// Dense returns gonum copy of matrix. Returns nil when any dimension is zero,
// since gonum does not allow empty dense matrices.
func (m *IoUMatrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return mat.NewDense(m.rows, m.cols, data)
}

func (m *IoUMatrix) String() string {
	if m.rows == 0 || m.cols == 0 {
		return fmt.Sprintf("IoUMatrix(%dx%d)[]", m.rows, m.cols)
	}
	return fmt.Sprintf("%v", mat.Formatted(m, mat.Squeeze()))
}

// Overlap is the result of matching two label arrays.
// TrueLabels/TrueAreas follow IoU rows, PredLabels/PredAreas follow IoU columns.
type Overlap struct {
	IoU        *IoUMatrix
	TrueLabels []int
	TrueAreas  []int
	PredLabels []int
	PredAreas  []int
}

// IntersectionOverUnion builds IoU matrix between all non-background objects of ground truth and prediction.
// Objects on both axes are ordered by ascending label.
func IntersectionOverUnion(groundTruth, prediction LabelArray) (*Overlap, error) {
	if !groundTruth.SameShape(prediction) {
		return nil, errors.Wrapf(ErrShapeMismatch, "ground truth %dx%d, prediction %dx%d",
			groundTruth.Height, groundTruth.Width, prediction.Height, prediction.Width)
	}
	if len(groundTruth.Data) != len(prediction.Data) {
		return nil, errors.Wrapf(ErrDataLength, "ground truth has %d values, prediction has %d",
			len(groundTruth.Data), len(prediction.Data))
	}

	trueLabels, trueAreas := groundTruth.objects()
	predLabels, predAreas := prediction.objects()
	trueIndex := indexOf(trueLabels)
	predIndex := indexOf(predLabels)
	rows, cols := len(trueLabels), len(predLabels)

	// Joint histogram of co-occurring object pairs, background pixels never contribute
	intersection := make([]float64, rows*cols)
	for k, t := range groundTruth.Data {
		p := prediction.Data[k]
		if t == Background || p == Background {
			continue
		}
		intersection[trueIndex[t]*cols+predIndex[p]]++
	}

	union := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			u := float64(trueAreas[i]+predAreas[j]) - intersection[i*cols+j]
			if u == 0 {
				u = Epsilon
			}
			union[i*cols+j] = u
		}
	}

	iou := make([]float64, rows*cols)
	floats.DivTo(iou, intersection, union)

	return &Overlap{
		IoU:        NewIoUMatrix(rows, cols, iou),
		TrueLabels: trueLabels,
		TrueAreas:  trueAreas,
		PredLabels: predLabels,
		PredAreas:  predAreas,
	}, nil
}

func indexOf(labels []int) map[int]int {
	index := make(map[int]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return index
}

package segeval

import (
	"image"
	"sort"

	"github.com/pkg/errors"
)

// Background is the label reserved for pixels which belong to no object
const Background = 0

// LabelArray is a 2-D grid of object identifiers stored row-major.
// Zero is background, every positive value identifies one object.
type LabelArray struct {
	Height int
	Width  int
	Data   []int
}

// NewLabelArray creates label array of given shape over data (row-major).
// Data is not copied.
func NewLabelArray(height, width int, data []int) (LabelArray, error) {
	if height < 0 || width < 0 || len(data) != height*width {
		return LabelArray{}, errors.Wrapf(ErrDataLength, "shape %dx%d, got %d values", height, width, len(data))
	}
	for i, v := range data {
		if v < 0 {
			return LabelArray{}, errors.Wrapf(ErrNegativeLabel, "value %d at (%d, %d)", v, i/width, i%width)
		}
	}
	return LabelArray{
		Height: height,
		Width:  width,
		Data:   data,
	}, nil
}

// NewLabelArrayFromRows creates label array from a slice of equally sized rows
func NewLabelArrayFromRows(rows [][]int) (LabelArray, error) {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	data := make([]int, 0, height*width)
	for y, row := range rows {
		if len(row) != width {
			return LabelArray{}, errors.Wrapf(ErrDataLength, "row %d has %d values, expected %d", y, len(row), width)
		}
		data = append(data, row...)
	}
	return NewLabelArray(height, width, data)
}

// NewLabelArrayFrom converts an in-memory grayscale label image.
// Pixel intensity is taken as the object identifier.
func NewLabelArrayFrom(img image.Image) (LabelArray, error) {
	bounds := img.Bounds()
	height, width := bounds.Dy(), bounds.Dx()
	data := make([]int, 0, height*width)
	switch src := img.(type) {
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				data = append(data, int(src.GrayAt(x, y).Y))
			}
		}
	case *image.Gray16:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				data = append(data, int(src.Gray16At(x, y).Y))
			}
		}
	default:
		return LabelArray{}, errors.Wrapf(ErrUnsupportedImage, "%T", img)
	}
	return LabelArray{
		Height: height,
		Width:  width,
		Data:   data,
	}, nil
}

// At returns label at row y and column x
func (la LabelArray) At(y, x int) int {
	return la.Data[y*la.Width+x]
}

// SameShape reports whether both arrays have identical height and width
func (la LabelArray) SameShape(other LabelArray) bool {
	return la.Height == other.Height && la.Width == other.Width
}

// Areas returns pixel count per label, background included
func (la LabelArray) Areas() map[int]int {
	areas := make(map[int]int)
	for _, v := range la.Data {
		areas[v]++
	}
	return areas
}

// Labels returns distinct labels in ascending order, background included when present
func (la LabelArray) Labels() []int {
	return sortedKeys(la.Areas())
}

// NumObjects returns number of distinct non-background labels
func (la LabelArray) NumObjects() int {
	areas := la.Areas()
	if _, ok := areas[Background]; ok {
		return len(areas) - 1
	}
	return len(areas)
}

// objects returns foreground labels in ascending order together with their areas
func (la LabelArray) objects() ([]int, []int) {
	areas := la.Areas()
	delete(areas, Background)
	labels := sortedKeys(areas)
	objectAreas := make([]int, len(labels))
	for i, label := range labels {
		objectAreas[i] = areas[label]
	}
	return labels, objectAreas
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

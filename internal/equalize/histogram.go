package equalize

import (
	"fmt"

	"histoenhance/internal/models"
)

// MaxClasses bounds the size of a cumulative table.
const MaxClasses = 1 << 20

// CumulativeTable holds running pixel counts over the classes of a window.
// Entry i is the number of pixels with intensity in [Low, Low+i].
type CumulativeTable struct {
	window models.Window
	counts []float64
}

// BuildCumulative scans pix once and returns the cumulative histogram of the
// samples that fall inside w. Samples outside w are ignored.
func BuildCumulative(pix []uint16, w models.Window) (*CumulativeTable, error) {
	if err := checkWindow(w); err != nil {
		return nil, err
	}

	classes := w.Classes()
	histogram := make([]int, classes)
	for _, v := range pix {
		if w.Contains(int(v)) {
			histogram[int(v)-w.Low]++
		}
	}

	cumulate := make([]float64, classes)
	sum := 0.0
	for i, n := range histogram {
		sum += float64(n)
		cumulate[i] = sum
	}

	return &CumulativeTable{window: w, counts: cumulate}, nil
}

func checkWindow(w models.Window) error {
	classes := w.Classes()
	if classes <= 0 {
		return fmt.Errorf("%w: window %s has %d classes", ErrInvalidWindow, w, classes)
	}
	if classes > MaxClasses {
		return fmt.Errorf("%w: window %s needs %d classes, limit is %d", ErrAllocation, w, classes, MaxClasses)
	}
	return nil
}

func (t *CumulativeTable) Window() models.Window {
	return t.window
}

func (t *CumulativeTable) Len() int {
	return len(t.counts)
}

// At returns the cumulative count of class i.
func (t *CumulativeTable) At(i int) float64 {
	return t.counts[i]
}

// First is the number of pixels equal to the window's lower bound.
func (t *CumulativeTable) First() float64 {
	return t.counts[0]
}

// Last is the number of pixels inside the window.
func (t *CumulativeTable) Last() float64 {
	return t.counts[len(t.counts)-1]
}

// Degenerate reports whether the table has no spread to rescale, either
// because the window holds no pixels or because they all share one class.
func (t *CumulativeTable) Degenerate() bool {
	return t.Last() == t.First()
}

// Values returns a copy of the cumulative counts.
func (t *CumulativeTable) Values() []float64 {
	out := make([]float64, len(t.counts))
	copy(out, t.counts)
	return out
}

package equalize

import (
	"fmt"

	"histoenhance/internal/models"
)

// Remap maps every sample of pix through table into out and returns a new
// slice of the same length. Samples below the window take class 0, samples
// above it take the top class.
//
// When the table is degenerate every sample maps to out.Low.
func Remap(pix []uint16, table *CumulativeTable, out models.OutputRange) ([]uint16, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: no cumulative table", ErrInvalidWindow)
	}
	if err := checkRange(out); err != nil {
		return nil, err
	}

	lut := classMap(table, out)
	w := table.Window()
	top := table.Len() - 1

	dst := make([]uint16, len(pix))
	for i, v := range pix {
		idx := max(0, min(top, int(v)-w.Low))
		dst[i] = lut[idx]
	}
	return dst, nil
}

// classMap evaluates the output value of each class once.
func classMap(table *CumulativeTable, out models.OutputRange) []uint16 {
	lut := make([]uint16, table.Len())
	if table.Degenerate() {
		for i := range lut {
			lut[i] = uint16(out.Low)
		}
		return lut
	}

	first := table.First()
	spread := table.Last() - first
	scale := float64(out.High - out.Low)
	for i := range lut {
		norm := (table.At(i) - first) / spread
		// int conversion truncates toward zero
		value := int(norm*scale + float64(out.Low))
		lut[i] = uint16(out.Clamp(value))
	}
	return lut
}

func checkRange(r models.OutputRange) error {
	if r.Low > r.High {
		return fmt.Errorf("%w: output range %s is inverted", ErrInvalidRange, r)
	}
	if r.Low < 0 || r.High > models.MaxSample {
		return fmt.Errorf("%w: output range %s exceeds [0, %d]", ErrInvalidRange, r, models.MaxSample)
	}
	return nil
}

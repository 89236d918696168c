package pipeline

import (
	"gonum.org/v1/gonum/stat"

	"histoenhance/internal/models"
)

// Summary describes the sample distribution of one buffer
type Summary struct {
	Min    uint16
	Max    uint16
	Mean   float64
	StdDev float64
}

func Summarize(buf *models.PixelBuffer) Summary {
	if buf == nil || len(buf.Pix) == 0 {
		return Summary{}
	}

	x := make([]float64, len(buf.Pix))
	for i, v := range buf.Pix {
		x[i] = float64(v)
	}

	mn, mx := buf.Range()
	s := Summary{Min: mn, Max: mx}
	if len(x) < 2 {
		s.Mean = x[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	return s
}

// WindowCoverage is the fraction of pixels that fall inside w.
func WindowCoverage(buf *models.PixelBuffer, w models.Window) float64 {
	if buf == nil || len(buf.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range buf.Pix {
		if w.Contains(int(v)) {
			n++
		}
	}
	return float64(n) / float64(len(buf.Pix))
}

func (s Summary) fields(prefix string) map[string]interface{} {
	return map[string]interface{}{
		prefix + "_min":    s.Min,
		prefix + "_max":    s.Max,
		prefix + "_mean":   s.Mean,
		prefix + "_stddev": s.StdDev,
	}
}

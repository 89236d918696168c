// Package equalize implements windowed histogram equalization of 16-bit
// grayscale buffers.
//
// A transform builds a cumulative histogram of the pixels inside an
// intensity window [c, d] and rescales every pixel through it into an
// output range [a, b]:
//
//	idx   = clamp(v-c, 0, d-c)
//	value = (T[idx]-T[0]) / (T[d-c]-T[0]) * (b-a) + a
//
// The result is truncated toward zero and clamped into [a, b].
package equalize

import (
	"errors"

	"histoenhance/internal/models"
)

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrInvalidRange  = errors.New("invalid output range")
	ErrAllocation    = errors.New("cumulative table allocation failed")
)

// Params are the window and output range of one transform.
type Params struct {
	Window models.Window
	Output models.OutputRange
}

// Validate checks the window class count and the output range.
func (p Params) Validate() error {
	if err := checkWindow(p.Window); err != nil {
		return err
	}
	return checkRange(p.Output)
}

// Transform equalizes src and returns a new buffer of the same dimensions.
// On error nothing is returned and src is left untouched.
func Transform(src *models.PixelBuffer, p Params) (*models.PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	table, err := BuildCumulative(src.Pix, p.Window)
	if err != nil {
		return nil, err
	}

	pix, err := Remap(src.Pix, table, p.Output)
	if err != nil {
		return nil, err
	}

	return &models.PixelBuffer{
		Width:  src.Width,
		Height: src.Height,
		Pix:    pix,
	}, nil
}

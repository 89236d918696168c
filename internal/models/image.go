package models

import (
	"errors"
	"fmt"
	"image"
)

// MaxSample is the largest value a 16-bit sample can hold.
const MaxSample = 65535

// MaxPixels caps width*height of a buffer. It keeps the product inside int
// on every platform and bounds one allocation at 2 GiB of samples.
const MaxPixels = 1 << 30

var ErrDimensions = errors.New("invalid image dimensions")

// PixelBuffer is a row-major grayscale image with one 16-bit sample per pixel.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint16
}

// CheckDimensions rejects non-positive sizes and sizes whose pixel count
// exceeds MaxPixels.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	if width > MaxPixels/height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDimensions, width, height, MaxPixels)
	}
	return nil
}

// NewPixelBuffer allocates a zeroed buffer of width*height samples
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint16, width*height),
	}, nil
}

func (b *PixelBuffer) Len() int {
	return b.Width * b.Height
}

// Validate checks that the sample count matches the dimensions
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrDimensions)
	}
	if err := CheckDimensions(b.Width, b.Height); err != nil {
		return err
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("%w: %dx%d needs %d samples, have %d",
			ErrDimensions, b.Width, b.Height, b.Width*b.Height, len(b.Pix))
	}
	return nil
}

// Gray16 wraps the samples in an image.Gray16 for the standard encoders.
// The samples are copied so the returned image does not alias the buffer.
func (b *PixelBuffer) Gray16() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.Pix {
		img.Pix[2*i] = uint8(v >> 8)
		img.Pix[2*i+1] = uint8(v)
	}
	return img
}

// Range returns the smallest and largest sample in the buffer.
func (b *PixelBuffer) Range() (uint16, uint16) {
	if len(b.Pix) == 0 {
		return 0, 0
	}
	mn, mx := b.Pix[0], b.Pix[0]
	for _, v := range b.Pix[1:] {
		mn = min(mn, v)
		mx = max(mx, v)
	}
	return mn, mx
}

package conversion

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"histoenhance/internal/models"
)

var ErrUnsupportedDepth = errors.New("unsupported sample depth")

// DecodeGray16 decodes an encoded image (PNG, TIFF, PGM, ...) at its native
// depth and returns it as a single-channel 16-bit buffer. Color inputs are
// converted to luminance and 8-bit samples are widened by 257 so that 255
// becomes 65535.
func DecodeGray16(data []byte) (*models.PixelBuffer, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadAnyDepth|gocv.IMReadAnyColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image with OpenCV: empty result")
	}

	gray, err := toGray(mat)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	wide, err := toDepth16(gray)
	if err != nil {
		return nil, err
	}
	defer wide.Close()

	samples, err := wide.DataPtrUint16()
	if err != nil {
		return nil, fmt.Errorf("failed to access 16-bit samples: %w", err)
	}

	buf, err := models.NewPixelBuffer(wide.Cols(), wide.Rows())
	if err != nil {
		return nil, err
	}
	copy(buf.Pix, samples)
	return buf, nil
}

func toGray(src gocv.Mat) (gocv.Mat, error) {
	dst := gocv.NewMat()

	switch src.Channels() {
	case 1:
		src.CopyTo(&dst)
	case 3:
		gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToGray)
	default:
		dst.Close()
		return gocv.Mat{}, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}

	return dst, nil
}

func toDepth16(src gocv.Mat) (gocv.Mat, error) {
	dst := gocv.NewMat()

	switch src.Type() {
	case gocv.MatTypeCV16UC1:
		src.CopyTo(&dst)
	case gocv.MatTypeCV8UC1:
		src.ConvertToWithParams(&dst, gocv.MatTypeCV16UC1, 257, 0)
	default:
		dst.Close()
		return gocv.Mat{}, fmt.Errorf("%w: mat type %v", ErrUnsupportedDepth, src.Type())
	}

	return dst, nil
}

package pipeline

import (
	"fmt"
	"os"

	"histoenhance/internal/config"
	"histoenhance/internal/logger"
	"histoenhance/internal/models"
	"histoenhance/internal/opencv/conversion"
	"histoenhance/internal/rawio"
)

type imageLoader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) ImageLoader {
	return &imageLoader{logger: log}
}

func (l *imageLoader) Load(job config.Job) (*models.PixelBuffer, error) {
	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":   job.Input,
		"format": job.InputFormat,
	})

	var (
		buf *models.PixelBuffer
		err error
	)
	switch job.InputFormat {
	case config.FormatRaw:
		buf, err = l.loadRaw(job)
	case config.FormatImage:
		buf, err = l.loadEncoded(job)
	default:
		err = fmt.Errorf("unknown input format %q", job.InputFormat)
	}
	if err != nil {
		return nil, err
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"path":   job.Input,
		"width":  buf.Width,
		"height": buf.Height,
	})
	return buf, nil
}

func (l *imageLoader) loadRaw(job config.Job) (*models.PixelBuffer, error) {
	order, err := rawio.ParseByteOrder(job.ByteOrder)
	if err != nil {
		return nil, err
	}
	return rawio.ReadFile(job.Input, job.Width, job.Height, order)
}

func (l *imageLoader) loadEncoded(job config.Job) (*models.PixelBuffer, error) {
	if !rawio.Exists(job.Input) {
		return nil, fmt.Errorf("%w: %s", rawio.ErrNotExist, job.Input)
	}
	data, err := os.ReadFile(job.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	l.logger.Debug("ImageLoader", "image data read", map[string]interface{}{
		"size_bytes": len(data),
	})

	buf, err := conversion.DecodeGray16(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Input, err)
	}

	if (job.Width != 0 && job.Width != buf.Width) || (job.Height != 0 && job.Height != buf.Height) {
		return nil, fmt.Errorf("%w: %s decoded as %dx%d, expected %dx%d",
			models.ErrDimensions, job.Input, buf.Width, buf.Height, job.Width, job.Height)
	}
	return buf, nil
}

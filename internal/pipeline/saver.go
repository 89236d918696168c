package pipeline

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"histoenhance/internal/config"
	"histoenhance/internal/logger"
	"histoenhance/internal/models"
	"histoenhance/internal/rawio"
)

type imageSaver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) ImageSaver {
	return &imageSaver{logger: log}
}

// Save encodes buf to job.Output. The image is written to a temporary file
// beside the target and renamed into place, so a failed save leaves any
// existing file untouched and no partial output behind.
func (s *imageSaver) Save(job config.Job, buf *models.PixelBuffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("no image data to save: %w", err)
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"path":   job.Output,
		"format": job.OutputFormat,
		"width":  buf.Width,
		"height": buf.Height,
	})

	if err := s.writeAtomic(job, buf); err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"path":   job.Output,
			"format": job.OutputFormat,
		})
		return fmt.Errorf("%s: %w", job.Output, err)
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path":   job.Output,
		"format": job.OutputFormat,
	})
	return nil
}

func (s *imageSaver) writeAtomic(job config.Job, buf *models.PixelBuffer) (err error) {
	dir, name := filepath.Split(job.Output)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	w := bufio.NewWriter(f)
	if err := s.encode(w, job, buf); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, job.Output)
}

func (s *imageSaver) encode(w io.Writer, job config.Job, buf *models.PixelBuffer) error {
	switch job.OutputFormat {
	case config.FormatRaw:
		order, err := rawio.ParseByteOrder(job.ByteOrder)
		if err != nil {
			return err
		}
		return rawio.Write(w, buf, order)
	case config.FormatTIFF:
		return tiff.Encode(w, buf.Gray16(), &tiff.Options{Compression: tiff.Deflate})
	case config.FormatPNG:
		return png.Encode(w, buf.Gray16())
	default:
		return fmt.Errorf("unknown output format %q", job.OutputFormat)
	}
}

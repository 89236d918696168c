package pipeline

import (
	"histoenhance/internal/config"
	"histoenhance/internal/models"
)

// ImageLoader produces the input buffer of a job
type ImageLoader interface {
	Load(job config.Job) (*models.PixelBuffer, error)
}

// ImageSaver persists the equalized buffer of a job
type ImageSaver interface {
	Save(job config.Job, buf *models.PixelBuffer) error
}

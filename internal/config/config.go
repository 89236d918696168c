// Package config holds the parameters of equalization jobs and loads batch
// job files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"histoenhance/internal/equalize"
	"histoenhance/internal/models"
	"histoenhance/internal/rawio"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	FormatRaw   = "raw"
	FormatImage = "image"
	FormatTIFF  = "tiff"
	FormatPNG   = "png"
)

// Job describes one image to equalize. Width and Height may be zero for
// encoded inputs, in which case the decoded dimensions are used.
type Job struct {
	Input        string              `yaml:"input"`
	Output       string              `yaml:"output"`
	Width        int                 `yaml:"width"`
	Height       int                 `yaml:"height"`
	Window       *models.Window      `yaml:"window"`
	Range        *models.OutputRange `yaml:"range"`
	InputFormat  string              `yaml:"input_format"`
	OutputFormat string              `yaml:"output_format"`
	ByteOrder    string              `yaml:"byte_order"`
}

// Default returns the baseline job settings: 8-bit output
// range and little-endian raw files in and out.
func Default() Job {
	return Job{
		Range:        &models.OutputRange{Low: 0, High: 255},
		InputFormat:  FormatRaw,
		OutputFormat: FormatRaw,
		ByteOrder:    "little",
	}
}

// Params returns the transform parameters of the job. Validate must pass first.
func (j Job) Params() equalize.Params {
	return equalize.Params{Window: *j.Window, Output: *j.Range}
}

// Merge fills every unset field of j from base.
func (j Job) Merge(base Job) Job {
	if j.Input == "" {
		j.Input = base.Input
	}
	if j.Output == "" {
		j.Output = base.Output
	}
	if j.Width == 0 {
		j.Width = base.Width
	}
	if j.Height == 0 {
		j.Height = base.Height
	}
	if j.Window == nil && base.Window != nil {
		w := *base.Window
		j.Window = &w
	}
	if j.Range == nil && base.Range != nil {
		r := *base.Range
		j.Range = &r
	}
	if j.InputFormat == "" {
		j.InputFormat = base.InputFormat
	}
	if j.OutputFormat == "" {
		j.OutputFormat = base.OutputFormat
	}
	if j.ByteOrder == "" {
		j.ByteOrder = base.ByteOrder
	}
	return j
}

func (j Job) Validate() error {
	if j.Input == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidConfig)
	}
	if j.Output == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}

	switch j.InputFormat {
	case FormatRaw:
		if err := models.CheckDimensions(j.Width, j.Height); err != nil {
			return fmt.Errorf("%w: raw input %s: %w", ErrInvalidConfig, j.Input, err)
		}
	case FormatImage:
		if j.Width < 0 || j.Height < 0 {
			return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidConfig, j.Width, j.Height)
		}
		if j.Width > 0 && j.Height > 0 {
			if err := models.CheckDimensions(j.Width, j.Height); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
		}
	default:
		return fmt.Errorf("%w: unknown input format %q", ErrInvalidConfig, j.InputFormat)
	}

	switch j.OutputFormat {
	case FormatRaw, FormatTIFF, FormatPNG:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, j.OutputFormat)
	}

	if _, err := rawio.ParseByteOrder(j.ByteOrder); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if j.Window == nil {
		return fmt.Errorf("%w: window is required", ErrInvalidConfig)
	}
	if j.Range == nil {
		return fmt.Errorf("%w: output range is required", ErrInvalidConfig)
	}
	if err := j.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// JobFile is the YAML layout of a batch run.
//
//	workers: 4
//	defaults:
//	  width: 512
//	  height: 512
//	  window: {low: 0, high: 4095}
//	jobs:
//	  - input: a.raw
//	    output: a_eq.raw
type JobFile struct {
	Workers  int   `yaml:"workers"`
	Defaults Job   `yaml:"defaults"`
	Jobs     []Job `yaml:"jobs"`
}

// ParseJobFile decodes data and resolves every job against the file's
// defaults, which are themselves layered over Default().
func ParseJobFile(data []byte) (*JobFile, error) {
	var jf JobFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&jf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(jf.Jobs) == 0 {
		return nil, fmt.Errorf("%w: no jobs", ErrInvalidConfig)
	}
	if jf.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}

	jf.Defaults = jf.Defaults.Merge(Default())
	for i := range jf.Jobs {
		jf.Jobs[i] = jf.Jobs[i].Merge(jf.Defaults)
		if err := jf.Jobs[i].Validate(); err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
	}
	return &jf, nil
}

func LoadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	jf, err := ParseJobFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return jf, nil
}

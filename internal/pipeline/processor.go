package pipeline

import (
	"context"
	"maps"

	"histoenhance/internal/debug/timing"
	"histoenhance/internal/equalize"
	"histoenhance/internal/logger"
	"histoenhance/internal/models"
)

type Processor struct {
	logger logger.Logger
	timing *timing.Tracker
}

func NewProcessor(log logger.Logger, tracker *timing.Tracker) *Processor {
	return &Processor{logger: log, timing: tracker}
}

// Processed is an equalized image together with the sample statistics of
// its source and of itself.
type Processed struct {
	Image  *models.PixelBuffer
	Input  Summary
	Output Summary
}

// Process runs the windowed equalization of buf and logs how the sample
// distribution changed.
func (p *Processor) Process(ctx context.Context, buf *models.PixelBuffer, params equalize.Params) (*Processed, error) {
	tctx := p.timing.StartTiming(ctx, "transform")
	out, err := equalize.Transform(buf, params)
	elapsed := p.timing.EndTiming(tctx)
	if err != nil {
		p.logger.Error("Processor", err, map[string]interface{}{
			"window": params.Window.String(),
			"range":  params.Output.String(),
		})
		return nil, err
	}

	fields := map[string]interface{}{
		"window":          params.Window.String(),
		"range":           params.Output.String(),
		"window_coverage": WindowCoverage(buf, params.Window),
		"duration":        elapsed,
	}
	res := &Processed{Image: out, Input: Summarize(buf), Output: Summarize(out)}
	maps.Copy(fields, res.Input.fields("in"))
	maps.Copy(fields, res.Output.fields("out"))
	p.logger.Info("Processor", "image equalized", fields)

	return res, nil
}

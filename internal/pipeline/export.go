package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

// ExportVideo renders the kept segments of a cut plan into a new file
// next to the source. The source file itself is never rewritten.
func (p *implPipeline) ExportVideo(ctx context.Context, req ExportVideoRequest) (*ExportResult, error) {
	if err := p.gate.RequireSource(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exportVideo(ctx, req)
}

func (p *implPipeline) exportVideo(ctx context.Context, req ExportVideoRequest) (*ExportResult, error) {
	if err := requireFile(req.FilePath); err != nil {
		return nil, err
	}
	if req.Plan == nil {
		return nil, errdefs.Planning("cut plan data is required")
	}
	kept := req.Plan.KeptSegments()
	if len(kept) == 0 {
		return nil, errdefs.Planning("no segments to keep in cut plan")
	}

	out := req.OutputPath
	if out == "" {
		ext := filepath.Ext(req.FilePath)
		if !req.PreserveFormat {
			ext = ".mp4"
		}
		out = filepath.Join(filepath.Dir(req.FilePath), stem(req.FilePath)+"_cut"+ext)
	}

	if err := p.media.ExportCut(ctx, req.FilePath, out, kept); err != nil {
		return nil, err
	}

	var keptDuration float64
	for _, seg := range kept {
		keptDuration += seg.Duration()
	}

	p.recordEdit(ctx, out, "export_video", req.Plan.Stats)

	return &ExportResult{
		OutputPath:    out,
		SegmentsCount: len(kept),
		DurationSec:   keptDuration,
		Message: fmt.Sprintf("Exported %d segments (%s) to %s.",
			len(kept), cutplan.FormatDuration(keptDuration), out),
	}, nil
}

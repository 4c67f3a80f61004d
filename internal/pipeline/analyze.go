package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

// Analyze builds a cut plan from a transcript: paragraphs split on
// silence, duplicate takes grouped by the analyst with the last take
// kept, everything else dropped as pauses.
func (p *implPipeline) Analyze(ctx context.Context, req AnalyzeRequest) (*cutplan.Plan, error) {
	if req.Transcript == nil {
		return nil, errdefs.Planning("transcription data is required")
	}

	threshold := req.SilenceThreshold
	if threshold <= 0 {
		threshold = p.cfg.Cutting.SilenceThresholdSec
	}

	var groups []transcript.DuplicateGroup
	if req.DetectDuplicates {
		if paragraphs := req.Transcript.Paragraphs(threshold); len(paragraphs) > 1 {
			groups = p.analyst.DetectDuplicates(ctx, paragraphs)
		}
	}

	plan, err := cutplan.Build(req.Transcript, groups, cutplan.Options{
		SilenceThreshold:   threshold,
		MinSegmentDuration: p.cfg.Cutting.MinSegmentDurationSec,
		SourceDuration:     req.SourceDuration,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Cut plan: keeping %s of %s, %d pauses and %d duplicate takes cut",
		plan.Stats.KeptDurationFormatted(), plan.Stats.OriginalDurationFormatted(),
		plan.Stats.SilencesRemoved, plan.Stats.DuplicatesRemoved)
	return plan, nil
}

package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/subtitle"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// SmartCutProject runs the full transcribe-analyze-cut flow against an
// existing draft. The edit lands in a copy; the original draft stays
// untouched. Every video material referenced by a track is cut
// independently against its own transcript.
func (p *implPipeline) SmartCutProject(ctx context.Context, req SmartCutProjectRequest) (*SmartCutProjectResult, error) {
	if err := p.gate.RequireProjects(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	dir, err := p.resolveProject(ctx, req.Project)
	if err != nil {
		return nil, err
	}
	src, err := p.drafts.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	if src.Content.Materials == nil || len(src.Content.Materials.Videos) == 0 {
		return nil, errdefs.Planning("project has no video materials to cut")
	}

	copyName := src.Content.Name + " — SmartCut"
	copyDir, project, err := p.drafts.SaveCopy(ctx, dir, copyName)
	if err != nil {
		return nil, err
	}

	threshold := req.SilenceThreshold
	if threshold <= 0 {
		threshold = p.cfg.Cutting.SilenceThresholdSec
	}

	type cutVideo struct {
		materialID string
		lines      []subtitle.Line
	}
	var (
		total     cutplan.Stats
		videosCut int
		stashed   []cutVideo
	)
	for _, video := range project.Content.Materials.Videos {
		referenced := false
		for _, track := range project.Content.Tracks {
			if track.References(video.ID) {
				referenced = true
				break
			}
		}
		if !referenced {
			p.logger.Debug(ctx, "Skipping orphaned material %s", video.ID)
			continue
		}
		if err := requireFile(video.Path); err != nil {
			return nil, err
		}

		p.logger.Info(ctx, "Smart cutting %s", video.Path)
		tr, err := p.transcribeFile(ctx, video.Path, req.Language)
		if err != nil {
			return nil, err
		}
		plan, err := p.Analyze(ctx, AnalyzeRequest{
			Transcript:       tr,
			SilenceThreshold: threshold,
			DetectDuplicates: req.DetectDuplicates,
			SourceDuration:   timeline.Seconds(video.Duration),
		})
		if err != nil {
			return nil, err
		}
		if err := project.ApplyCutPlan(plan, video.ID); err != nil {
			return nil, err
		}

		total.OriginalDuration += plan.Stats.OriginalDuration
		total.KeptDuration += plan.Stats.KeptDuration
		total.RemovedDuration += plan.Stats.RemovedDuration
		total.DuplicatesRemoved += plan.Stats.DuplicatesRemoved
		total.SilencesRemoved += plan.Stats.SilencesRemoved
		videosCut++

		if req.AddSubtitles {
			stashed = append(stashed, cutVideo{
				materialID: video.ID,
				lines:      subtitle.Build(tr.AllWords(), plan.KeptSegments(), p.cfg.Subtitles.MaxWords, p.cfg.Subtitles.MaxChars),
			})
		}
	}

	// Subtitle times are relative to each material's kept footage;
	// shift them to where that material now starts on the timeline.
	var lines []subtitle.Line
	for _, cut := range stashed {
		offset := materialTargetStart(project, cut.materialID)
		for _, l := range cut.lines {
			l.Start += offset
			l.End += offset
			lines = append(lines, l)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Start < lines[j].Start })
	if len(lines) > 0 {
		if err := project.AddTextTrack(toTextLines(lines), timeline.DynamicTextStyle()); err != nil {
			return nil, fmt.Errorf("add subtitles: %w", err)
		}
	}

	if err := p.drafts.Save(ctx, copyDir, project); err != nil {
		return nil, err
	}

	p.recordEdit(ctx, copyDir, "smart_cut_project", total)

	return &SmartCutProjectResult{
		ProjectPath:   copyDir,
		OriginalPath:  dir,
		ProjectName:   copyName,
		VideosCut:     videosCut,
		SubtitleLines: len(lines),
		Stats:         total,
		Message: fmt.Sprintf("Created edited copy '%s': removed %s of %s. The original project is untouched; you may need to restart CapCut.",
			copyName, total.TimeSavedFormatted(), total.OriginalDurationFormatted()),
	}, nil
}

// materialTargetStart finds where a material first appears on the
// timeline, in seconds.
func materialTargetStart(project *timeline.Project, materialID string) float64 {
	var start int64 = math.MaxInt64
	for _, track := range project.Content.Tracks {
		for _, seg := range track.Segments {
			if seg.MaterialID != materialID || seg.TargetRange == nil {
				continue
			}
			if seg.TargetRange.Start < start {
				start = seg.TargetRange.Start
			}
		}
	}
	if start == math.MaxInt64 {
		return 0
	}
	return timeline.Seconds(start)
}

// SmartCut is the one-call flow for a raw file: transcribe, analyze,
// then emit a CapCut draft, a rendered video, or both.
func (p *implPipeline) SmartCut(ctx context.Context, req SmartCutRequest) (*SmartCutResult, error) {
	format := strings.ToLower(req.OutputFormat)
	if format == "" {
		format = "capcut"
	}
	switch format {
	case "capcut":
		if err := p.gate.RequireProjects(); err != nil {
			return nil, err
		}
	case "video":
		if err := p.gate.RequireSource(); err != nil {
			return nil, err
		}
	case "both":
		if err := p.gate.RequireProjects(); err != nil {
			return nil, err
		}
		if err := p.gate.RequireSource(); err != nil {
			return nil, err
		}
	default:
		return nil, errdefs.Planning("output_format must be capcut, video or both, got %q", req.OutputFormat)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := requireFile(req.FilePath); err != nil {
		return nil, err
	}
	tr, err := p.transcribeFile(ctx, req.FilePath, req.Language)
	if err != nil {
		return nil, err
	}

	var sourceDuration float64
	if info, err := p.media.Probe(ctx, req.FilePath); err == nil {
		sourceDuration = info.Duration
	} else {
		p.logger.Debug(ctx, "Probe failed for %s, trusting transcript duration: %v", req.FilePath, err)
	}

	plan, err := p.Analyze(ctx, AnalyzeRequest{
		Transcript:       tr,
		SilenceThreshold: req.SilenceThreshold,
		DetectDuplicates: req.DetectDuplicates,
		SourceDuration:   sourceDuration,
	})
	if err != nil {
		return nil, err
	}

	result := &SmartCutResult{Stats: plan.Stats}
	if format == "capcut" || format == "both" {
		capcut, err := p.generateProject(ctx, GenerateProjectRequest{
			FilePath:      req.FilePath,
			Plan:          plan,
			ProjectName:   req.ProjectName,
			AddSubtitles:  req.AddSubtitles,
			SubtitleStyle: req.SubtitleStyle,
			Transcript:    tr,
		})
		if err != nil {
			return nil, err
		}
		result.CapCut = capcut
	}
	if format == "video" || format == "both" {
		video, err := p.exportVideo(ctx, ExportVideoRequest{
			FilePath:       req.FilePath,
			Plan:           plan,
			PreserveFormat: true,
		})
		if err != nil {
			return nil, err
		}
		result.Video = video
	}
	result.Message = fmt.Sprintf("Smart cut removed %s of %s.",
		plan.Stats.TimeSavedFormatted(), plan.Stats.OriginalDurationFormatted())
	return result, nil
}

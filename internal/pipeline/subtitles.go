package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/subtitle"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// GenerateSubtitles maps the transcript's words through the plan's kept
// segments and groups them into timed lines. The dynamic style asks the
// analyst for per-line accent words; that degrades to plain lines when
// the analyst cannot answer.
func (p *implPipeline) GenerateSubtitles(ctx context.Context, req GenerateSubtitlesRequest) (*SubtitlesResult, error) {
	if req.Transcript == nil {
		return nil, errdefs.Planning("transcription data is required")
	}
	if req.Plan == nil {
		return nil, errdefs.Planning("cut plan data is required")
	}

	lines := subtitle.Build(req.Transcript.AllWords(), req.Plan.KeptSegments(),
		p.cfg.Subtitles.MaxWords, p.cfg.Subtitles.MaxChars)
	if len(lines) == 0 {
		return nil, errdefs.Planning("no words fall inside the kept segments")
	}

	if styleName(req.Style) == "dynamic" {
		for i := range lines {
			lines[i].AccentWords = p.analyst.AccentWords(ctx, lines[i].Text)
		}
	}

	doc := subtitle.RenderSRT(lines)
	result := &SubtitlesResult{Lines: lines, SRT: doc, LineCount: len(lines)}

	if req.OutputPath != "" {
		if err := os.WriteFile(req.OutputPath, []byte(doc), 0o644); err != nil {
			return nil, errdefs.Wrap(errdefs.KindIO, err, "write subtitles to %s", req.OutputPath)
		}
		result.SRTPath = req.OutputPath
		p.logger.Info(ctx, "Wrote %d subtitle lines to %s", len(lines), req.OutputPath)
	}

	return result, nil
}

// AddSubtitles writes a subtitle track into a copy of an existing
// draft; the original project is never touched. Lines come from an SRT
// file, from supplied transcription data, or failing both, from a fresh
// transcription of the project's first video. Transcripts are in source
// time and get remapped through the project's current segment layout;
// SRT lines are taken as already being in timeline time.
func (p *implPipeline) AddSubtitles(ctx context.Context, req AddSubtitlesRequest) (*AddSubtitlesResult, error) {
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

	copyName := src.Content.Name + " — SmartCut"
	copyDir, project, err := p.drafts.SaveCopy(ctx, dir, copyName)
	if err != nil {
		return nil, err
	}

	lines, err := p.subtitleLines(ctx, project, req)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errdefs.Planning("no subtitle lines to add")
	}

	if err := project.AddTextTrack(toTextLines(lines), textStyle(req.Style)); err != nil {
		return nil, fmt.Errorf("add text track: %w", err)
	}
	if err := p.drafts.Save(ctx, copyDir, project); err != nil {
		return nil, err
	}

	p.recordEdit(ctx, copyDir, "add_subtitles_to_project", map[string]int{"lines_added": len(lines)})

	return &AddSubtitlesResult{
		ProjectPath:  copyDir,
		OriginalPath: dir,
		ProjectName:  copyName,
		LinesAdded:   len(lines),
		Style:        styleName(req.Style),
		Message: fmt.Sprintf("Added %d subtitle lines to copy '%s'. The original project is untouched; you may need to restart CapCut.",
			len(lines), copyName),
	}, nil
}

// subtitleLines picks the line source for AddSubtitles.
func (p *implPipeline) subtitleLines(ctx context.Context, project *timeline.Project, req AddSubtitlesRequest) ([]subtitle.Line, error) {
	if req.SRTPath != "" {
		data, err := os.ReadFile(req.SRTPath)
		if err != nil {
			return nil, errdefs.Wrap(errdefs.KindIO, err, "read %s", req.SRTPath)
		}
		lines := subtitle.ParseSRT(string(data))
		if len(lines) == 0 {
			return nil, errdefs.Format("no subtitle lines in %s", req.SRTPath)
		}
		return lines, nil
	}

	tr := req.Transcript
	if tr == nil {
		if project.Content.Materials == nil || len(project.Content.Materials.Videos) == 0 {
			return nil, errdefs.Planning("project has no video to transcribe")
		}
		videoPath := project.Content.Materials.Videos[0].Path
		if err := requireFile(videoPath); err != nil {
			return nil, err
		}
		var err error
		tr, err = p.transcribeFile(ctx, videoPath, req.Language)
		if err != nil {
			return nil, err
		}
	}

	kept := keptFromTrack(project)
	if len(kept) == 0 {
		return nil, errdefs.Planning("project has no video segments to subtitle")
	}
	return subtitle.Build(tr.AllWords(), kept, p.cfg.Subtitles.MaxWords, p.cfg.Subtitles.MaxChars), nil
}

// keptFromTrack reads the video track's current layout as kept source
// ranges in timeline order, so a transcript of the raw footage can be
// remapped onto an already-edited project.
func keptFromTrack(project *timeline.Project) []cutplan.Segment {
	track := project.Content.VideoTrack()
	if track == nil {
		return nil
	}

	segments := make([]*timeline.Segment, len(track.Segments))
	copy(segments, track.Segments)
	sort.SliceStable(segments, func(i, j int) bool {
		var a, b int64
		if segments[i].TargetRange != nil {
			a = segments[i].TargetRange.Start
		}
		if segments[j].TargetRange != nil {
			b = segments[j].TargetRange.Start
		}
		return a < b
	})

	var kept []cutplan.Segment
	for _, s := range segments {
		if s.SourceRange == nil {
			continue
		}
		kept = append(kept, cutplan.Segment{
			Start:  timeline.Seconds(s.SourceRange.Start),
			End:    timeline.Seconds(s.SourceRange.End()),
			Kept:   true,
			Reason: cutplan.ReasonKept,
		})
	}
	return kept
}

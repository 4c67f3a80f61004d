package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nguyentantai21042004/smartcut/internal/draft"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/subtitle"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// GenerateProject builds a new CapCut draft from a source file and a
// cut plan. The source is never modified; the draft references it and
// plays only the kept segments.
func (p *implPipeline) GenerateProject(ctx context.Context, req GenerateProjectRequest) (*ProjectResult, error) {
	if err := p.gate.RequireProjects(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generateProject(ctx, req)
}

func (p *implPipeline) generateProject(ctx context.Context, req GenerateProjectRequest) (*ProjectResult, error) {
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

	info, err := p.media.Probe(ctx, req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", req.FilePath, err)
	}

	name := req.ProjectName
	if name == "" {
		name = stem(req.FilePath) + " — SmartCut"
	}
	width, height := info.Width, info.Height
	if width == 0 || height == 0 {
		width, height = 1920, 1080
	}
	project := timeline.NewProject(name, width, height)

	materialID, err := project.AddVideoMaterial(req.FilePath, timeline.Micros(info.Duration), info.Width, info.Height)
	if err != nil {
		return nil, fmt.Errorf("add material: %w", err)
	}

	var cursor int64
	for _, seg := range kept {
		startUS := timeline.Micros(seg.Start)
		durationUS := timeline.Micros(seg.End) - startUS
		if durationUS <= 0 {
			continue
		}
		if _, err := project.AddVideoSegment(materialID, cursor, startUS, durationUS); err != nil {
			return nil, fmt.Errorf("add segment: %w", err)
		}
		cursor += durationUS
	}

	result := &ProjectResult{
		ProjectName:   name,
		SegmentsCount: len(kept),
		Stats:         req.Plan.Stats,
	}

	if req.AddSubtitles && req.Transcript != nil {
		lines := subtitle.Build(req.Transcript.AllWords(), kept, p.cfg.Subtitles.MaxWords, p.cfg.Subtitles.MaxChars)
		if len(lines) > 0 {
			if err := project.AddTextTrack(toTextLines(lines), textStyle(req.SubtitleStyle)); err != nil {
				return nil, fmt.Errorf("add subtitles: %w", err)
			}
			result.SubtitleLines = len(lines)
		}
	}

	path, err := p.drafts.SaveNew(ctx, project)
	if err != nil {
		return nil, err
	}
	result.ProjectPath = path
	result.DraftContentPath = filepath.Join(path, draft.ContentFile)
	result.Message = fmt.Sprintf("Project '%s' created. Open CapCut and find it in your drafts. You may need to restart CapCut.", name)

	p.recordEdit(ctx, path, "generate_capcut_project", req.Plan.Stats)
	return result, nil
}

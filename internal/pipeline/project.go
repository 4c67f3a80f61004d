package pipeline

import (
	"context"
	"os"

	"github.com/nguyentantai21042004/smartcut/internal/draft"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// ListProjects lists CapCut drafts in the configured folder, or in an
// explicit override folder. Incomplete drafts, folders with metadata
// but no timeline content, are hidden unless asked for.
func (p *implPipeline) ListProjects(ctx context.Context, req ListProjectsRequest) (*ListResult, error) {
	var (
		infos []draft.Info
		err   error
	)
	dir := p.drafts.DraftsDir()
	if req.DraftsDir != "" && req.DraftsDir != dir {
		dir = req.DraftsDir
		infos, err = draft.Scan(req.DraftsDir)
	} else {
		infos, err = p.drafts.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	if !req.IncludeIncomplete {
		complete := infos[:0]
		for _, info := range infos {
			if info.HasContent {
				complete = append(complete, info)
			}
		}
		infos = complete
	}
	if infos == nil {
		infos = []draft.Info{}
	}

	return &ListResult{Projects: infos, Count: len(infos), DraftsDir: dir}, nil
}

// OpenProject loads a draft and summarizes its structure: canvas,
// tracks, video materials and subtitle count.
func (p *implPipeline) OpenProject(ctx context.Context, req ProjectRef) (*ProjectStructure, error) {
	dir, err := p.resolveProject(ctx, req)
	if err != nil {
		return nil, err
	}
	project, err := p.drafts.Load(ctx, dir)
	if err != nil {
		return nil, err
	}

	structure := &ProjectStructure{
		Name:              project.Content.Name,
		Path:              dir,
		DurationUS:        project.Content.Duration,
		DurationFormatted: timeline.FormatMicros(project.Content.Duration),
		Canvas:            project.Content.CanvasConfig,
		Tracks:            []TrackSummary{},
		Videos:            []VideoSummary{},
	}
	for _, track := range project.Content.Tracks {
		structure.Tracks = append(structure.Tracks, TrackSummary{
			Type:     track.Type,
			Segments: len(track.Segments),
		})
	}
	if m := project.Content.Materials; m != nil {
		for _, v := range m.Videos {
			structure.Videos = append(structure.Videos, VideoSummary{
				ID:         v.ID,
				Path:       v.Path,
				DurationUS: v.Duration,
				Width:      v.Width,
				Height:     v.Height,
			})
		}
		structure.TextCount = len(m.Texts)
	}
	return structure, nil
}

// resolveProject turns a path-or-name reference into a draft directory.
// Name resolution prefers an exact match and falls back to the newest
// substring match.
func (p *implPipeline) resolveProject(ctx context.Context, ref ProjectRef) (string, error) {
	if ref.Path != "" {
		fi, err := os.Stat(ref.Path)
		if os.IsNotExist(err) {
			return "", errdefs.IO("project not found: %s", ref.Path)
		}
		if err != nil {
			return "", errdefs.Wrap(errdefs.KindIO, err, "stat project %s", ref.Path)
		}
		if !fi.IsDir() {
			return "", errdefs.Format("%s is not a draft directory", ref.Path)
		}
		return ref.Path, nil
	}

	if ref.Name == "" {
		return "", errdefs.Planning("project_path or project_name is required")
	}
	info, err := p.drafts.FindByName(ctx, ref.Name, true)
	if err != nil {
		return "", err
	}
	if info == nil {
		info, err = p.drafts.FindByName(ctx, ref.Name, false)
		if err != nil {
			return "", err
		}
	}
	if info == nil {
		return "", errdefs.Planning("no project named %q in %s", ref.Name, p.drafts.DraftsDir())
	}
	return info.Path, nil
}

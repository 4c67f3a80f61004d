package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nguyentantai21042004/smartcut/internal/pipeline"
)

func (s *implServer) handleSmartCut(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pipeline.SmartCut(ctx, pipeline.SmartCutRequest{
		FilePath:         req.GetString("file_path", ""),
		Language:         req.GetString("language", ""),
		SilenceThreshold: req.GetFloat("silence_threshold_sec", 0),
		DetectDuplicates: req.GetBool("detect_duplicates", true),
		OutputFormat:     req.GetString("output_format", ""),
		ProjectName:      req.GetString("project_name", ""),
		AddSubtitles:     req.GetBool("add_subtitles", true),
		SubtitleStyle:    req.GetString("subtitle_style", "dynamic"),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleTranscribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr, err := s.pipeline.Transcribe(ctx, pipeline.TranscribeRequest{
		FilePath: req.GetString("file_path", ""),
		Language: req.GetString("language", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(tr), nil
}

func (s *implServer) handleAnalyzeContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr, err := transcriptArg(req, "transcription_data")
	if err != nil {
		return toolError(err), nil
	}
	plan, err := s.pipeline.Analyze(ctx, pipeline.AnalyzeRequest{
		Transcript:       tr,
		SilenceThreshold: req.GetFloat("silence_threshold_sec", 0),
		DetectDuplicates: req.GetBool("duplicate_detection", true),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(plan), nil
}

func (s *implServer) handleGenerateSubtitles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr, err := transcriptArg(req, "transcription_data")
	if err != nil {
		return toolError(err), nil
	}
	plan, err := planArg(req, "cut_plan_data")
	if err != nil {
		return toolError(err), nil
	}
	result, err := s.pipeline.GenerateSubtitles(ctx, pipeline.GenerateSubtitlesRequest{
		Transcript: tr,
		Plan:       plan,
		Style:      req.GetString("style", "dynamic"),
		OutputPath: req.GetString("output_srt_path", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleListEditHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.pipeline.EditHistory(ctx, req.GetInt("limit", 0))
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(entries), nil
}

func (s *implServer) handleGenerateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := planArg(req, "cut_plan_data")
	if err != nil {
		return toolError(err), nil
	}
	tr, err := transcriptArg(req, "transcription_data")
	if err != nil {
		return toolError(err), nil
	}
	result, err := s.pipeline.GenerateProject(ctx, pipeline.GenerateProjectRequest{
		FilePath:      req.GetString("file_path", ""),
		Plan:          plan,
		ProjectName:   req.GetString("project_name", ""),
		AddSubtitles:  req.GetBool("add_subtitles", true),
		SubtitleStyle: req.GetString("subtitle_style", "dynamic"),
		Transcript:    tr,
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pipeline.ListProjects(ctx, pipeline.ListProjectsRequest{
		DraftsDir:         req.GetString("drafts_dir", ""),
		IncludeIncomplete: req.GetBool("include_incomplete", false),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleOpenProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pipeline.OpenProject(ctx, pipeline.ProjectRef{
		Path: req.GetString("project_path", ""),
		Name: req.GetString("project_name", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleAddSubtitles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr, err := transcriptArg(req, "transcription_data")
	if err != nil {
		return toolError(err), nil
	}
	result, err := s.pipeline.AddSubtitles(ctx, pipeline.AddSubtitlesRequest{
		Project: pipeline.ProjectRef{
			Path: req.GetString("project_path", ""),
			Name: req.GetString("project_name", ""),
		},
		Transcript: tr,
		SRTPath:    req.GetString("srt_path", ""),
		Style:      req.GetString("style", "dynamic"),
		Language:   req.GetString("language", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleSmartCutProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pipeline.SmartCutProject(ctx, pipeline.SmartCutProjectRequest{
		Project: pipeline.ProjectRef{
			Path: req.GetString("project_path", ""),
			Name: req.GetString("project_name", ""),
		},
		SilenceThreshold: req.GetFloat("silence_threshold_sec", 0),
		DetectDuplicates: req.GetBool("detect_duplicates", true),
		AddSubtitles:     req.GetBool("add_subtitles", true),
		Language:         req.GetString("language", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleExportReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := planArg(req, "cut_plan_data")
	if err != nil {
		return toolError(err), nil
	}
	result, err := s.pipeline.ExportReport(ctx, pipeline.ReportRequest{
		Plan:       plan,
		Title:      req.GetString("title", ""),
		OutputPath: req.GetString("output_path", ""),
		Format:     req.GetString("format", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleExportVideo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := planArg(req, "cut_plan_data")
	if err != nil {
		return toolError(err), nil
	}
	result, err := s.pipeline.ExportVideo(ctx, pipeline.ExportVideoRequest{
		FilePath:       req.GetString("file_path", ""),
		Plan:           plan,
		OutputPath:     req.GetString("output_path", ""),
		PreserveFormat: req.GetBool("preserve_format", true),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleEnhanceAudio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pipeline.EnhanceAudio(ctx, pipeline.EnhanceAudioRequest{
		FilePath:   req.GetString("file_path", ""),
		PresetUUID: req.GetString("preset_uuid", ""),
		OutputPath: req.GetString("output_path", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

func (s *implServer) handleNormalizeAudio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pipeline.NormalizeAudio(ctx, pipeline.NormalizeAudioRequest{
		FilePath:   req.GetString("file_path", ""),
		TargetLUFS: req.GetFloat("target_lufs", 0),
		OutputPath: req.GetString("output_path", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return resultJSON(result), nil
}

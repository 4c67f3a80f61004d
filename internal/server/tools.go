package server

import "github.com/mark3labs/mcp-go/mcp"

func smartCutTool() mcp.Tool {
	return mcp.NewTool("smart_cut",
		mcp.WithDescription("Main tool for processing talking head videos. Transcribes, removes long pauses, detects duplicate takes, and exports to CapCut project or video file. The last take of duplicates is always kept (assumed to be the best)."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the video file (MOV, MP4, etc.)"),
		),
		mcp.WithString("language",
			mcp.Description("Language code (e.g., 'ru', 'en'). Auto-detect if not specified."),
		),
		mcp.WithNumber("silence_threshold_sec",
			mcp.DefaultNumber(3.0),
			mcp.Description("Minimum pause duration to cut (default 3.0 seconds)"),
		),
		mcp.WithBoolean("detect_duplicates",
			mcp.DefaultBool(true),
			mcp.Description("Whether to detect duplicate takes using LLM"),
		),
		mcp.WithString("output_format",
			mcp.Enum("capcut", "video", "both"),
			mcp.DefaultString("capcut"),
			mcp.Description("Output format - 'capcut' (CapCut project), 'video' (MP4/MOV file), or 'both'"),
		),
		mcp.WithString("project_name",
			mcp.Description("Name for the CapCut project"),
		),
		mcp.WithBoolean("add_subtitles",
			mcp.DefaultBool(true),
			mcp.Description("Whether to add subtitle track"),
		),
		mcp.WithString("subtitle_style",
			mcp.Enum("dynamic", "simple"),
			mcp.DefaultString("dynamic"),
			mcp.Description("Subtitle style - 'dynamic' (with accents) or 'simple'"),
		),
	)
}

func transcribeTool() mcp.Tool {
	return mcp.NewTool("transcribe",
		mcp.WithDescription("Transcribe a video or audio file using OpenAI Whisper API. Returns word-level timestamps for precise editing."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the video or audio file"),
		),
		mcp.WithString("language",
			mcp.Description("Language code (e.g., 'ru', 'en'). Auto-detect if not specified."),
		),
	)
}

func analyzeContentTool() mcp.Tool {
	return mcp.NewTool("analyze_content",
		mcp.WithDescription("Analyze transcription to identify paragraph boundaries, long pauses, and duplicate takes. Returns a cut plan."),
		mcp.WithObject("transcription_data",
			mcp.Required(),
			mcp.Description("Transcription data from the transcribe tool"),
		),
		mcp.WithNumber("silence_threshold_sec",
			mcp.DefaultNumber(3.0),
			mcp.Description("Minimum pause to consider as paragraph break (default 3.0)"),
		),
		mcp.WithBoolean("duplicate_detection",
			mcp.DefaultBool(true),
			mcp.Description("Whether to detect duplicate takes using LLM"),
		),
	)
}

func generateSubtitlesTool() mcp.Tool {
	return mcp.NewTool("generate_subtitles",
		mcp.WithDescription("Generate subtitles from transcription as SRT file. Supports dynamic styling with accent words."),
		mcp.WithObject("transcription_data",
			mcp.Required(),
			mcp.Description("Transcription data from the transcribe tool"),
		),
		mcp.WithObject("cut_plan_data",
			mcp.Required(),
			mcp.Description("Cut plan to align subtitles to"),
		),
		mcp.WithString("style",
			mcp.Enum("dynamic", "simple"),
			mcp.DefaultString("dynamic"),
			mcp.Description("Subtitle style"),
		),
		mcp.WithString("output_srt_path",
			mcp.Description("Path for SRT file output"),
		),
	)
}

func listEditHistoryTool() mcp.Tool {
	return mcp.NewTool("list_edit_history",
		mcp.WithDescription("List recent edits recorded by this server: generated projects, cut copies, and exported files, newest first."),
		mcp.WithNumber("limit",
			mcp.DefaultNumber(20),
			mcp.Description("Maximum entries to return (default 20)"),
		),
	)
}

func generateProjectTool() mcp.Tool {
	return mcp.NewTool("generate_capcut_project",
		mcp.WithDescription("Generate a CapCut draft project from a cut plan. The project will appear in CapCut's drafts list."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the source video file"),
		),
		mcp.WithObject("cut_plan_data",
			mcp.Required(),
			mcp.Description("Cut plan from analyze_content tool"),
		),
		mcp.WithString("project_name",
			mcp.Description("Name for the CapCut project"),
		),
		mcp.WithBoolean("add_subtitles",
			mcp.DefaultBool(true),
			mcp.Description("Whether to add subtitle track"),
		),
		mcp.WithString("subtitle_style",
			mcp.Enum("dynamic", "simple"),
			mcp.DefaultString("dynamic"),
			mcp.Description("Subtitle style"),
		),
		mcp.WithObject("transcription_data",
			mcp.Description("Transcription data (needed for subtitles)"),
		),
	)
}

func listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_capcut_projects",
		mcp.WithDescription("List all existing CapCut projects in the drafts directory. Auto-detects drafts location on macOS, Windows, and Linux. Only shows complete projects (with draft_info.json) that can be modified."),
		mcp.WithString("drafts_dir",
			mcp.Description("Custom path to CapCut drafts directory (auto-detected if not set)"),
		),
		mcp.WithBoolean("include_incomplete",
			mcp.DefaultBool(false),
			mcp.Description("Also show incomplete projects that can't be modified"),
		),
	)
}

func openProjectTool() mcp.Tool {
	return mcp.NewTool("open_capcut_project",
		mcp.WithDescription("Open an existing CapCut project and return its structure. Shows video materials, segments, text tracks, and timeline info."),
		mcp.WithString("project_path",
			mcp.Description("Full path to the project folder"),
		),
		mcp.WithString("project_name",
			mcp.Description("Project name to search for (partial match supported)"),
		),
	)
}

func addSubtitlesTool() mcp.Tool {
	return mcp.NewTool("add_subtitles_to_project",
		mcp.WithDescription("Add subtitles to an existing CapCut project. Creates a backup copy of the project before modification. Can transcribe video automatically or use provided transcription/SRT."),
		mcp.WithString("project_path",
			mcp.Description("Full path to the project folder"),
		),
		mcp.WithString("project_name",
			mcp.Description("Project name to search for (partial match supported)"),
		),
		mcp.WithObject("transcription_data",
			mcp.Description("Transcription data from the transcribe tool (optional)"),
		),
		mcp.WithString("srt_path",
			mcp.Description("Path to existing SRT file (optional)"),
		),
		mcp.WithString("style",
			mcp.Enum("dynamic", "simple"),
			mcp.DefaultString("dynamic"),
			mcp.Description("Subtitle style"),
		),
		mcp.WithString("language",
			mcp.Description("Language code for transcription (auto-detect if not set)"),
		),
	)
}

func smartCutProjectTool() mcp.Tool {
	return mcp.NewTool("smart_cut_project",
		mcp.WithDescription("Apply smart_cut to an existing CapCut project. Creates a backup copy, then removes pauses and duplicates from all video clips. The last take of duplicates is always kept (assumed to be the best)."),
		mcp.WithString("project_path",
			mcp.Description("Full path to the project folder"),
		),
		mcp.WithString("project_name",
			mcp.Description("Project name to search for (partial match supported)"),
		),
		mcp.WithNumber("silence_threshold_sec",
			mcp.DefaultNumber(3.0),
			mcp.Description("Minimum pause duration to cut (default 3.0 seconds)"),
		),
		mcp.WithBoolean("detect_duplicates",
			mcp.DefaultBool(true),
			mcp.Description("Whether to detect duplicate takes using LLM"),
		),
		mcp.WithBoolean("add_subtitles",
			mcp.DefaultBool(true),
			mcp.Description("Whether to add subtitle track"),
		),
		mcp.WithString("language",
			mcp.Description("Language code for transcription (auto-detect if not set)"),
		),
	)
}

func exportReportTool() mcp.Tool {
	return mcp.NewTool("export_cut_report",
		mcp.WithDescription("Write a cut report document describing what was removed and why: per-paragraph decisions, duplicate groups, and time saved. Markdown or DOCX."),
		mcp.WithObject("cut_plan_data",
			mcp.Required(),
			mcp.Description("Cut plan from analyze_content tool"),
		),
		mcp.WithString("title",
			mcp.Description("Report title (project or video name)"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Path for the report file"),
		),
		mcp.WithString("format",
			mcp.Enum("markdown", "docx"),
			mcp.Description("Report format (inferred from output_path extension if not set)"),
		),
	)
}

func exportVideoTool() mcp.Tool {
	return mcp.NewTool("export_video",
		mcp.WithDescription("Export cut video as a new file using FFmpeg. Uses stream copy for fast, lossless export."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the source video file"),
		),
		mcp.WithObject("cut_plan_data",
			mcp.Required(),
			mcp.Description("Cut plan from analyze_content tool"),
		),
		mcp.WithString("output_path",
			mcp.Description("Output file path (auto-generated if not set)"),
		),
		mcp.WithBoolean("preserve_format",
			mcp.DefaultBool(true),
			mcp.Description("Keep original format (MOV stays MOV)"),
		),
	)
}

func enhanceAudioTool() mcp.Tool {
	return mcp.NewTool("enhance_audio",
		mcp.WithDescription("Enhance audio quality using Auphonic API. Includes loudness normalization, noise reduction, and leveling. Requires AUPHONIC_API_KEY environment variable."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the video file"),
		),
		mcp.WithString("preset_uuid",
			mcp.Description("Auphonic preset UUID (uses AUPHONIC_PRESET_UUID env var if not set)"),
		),
		mcp.WithString("output_path",
			mcp.Description("Output file path (auto-generated if not set)"),
		),
	)
}

func normalizeAudioTool() mcp.Tool {
	return mcp.NewTool("normalize_audio",
		mcp.WithDescription("Normalize audio loudness using FFmpeg. Free alternative to Auphonic for basic loudness normalization. Standard target is -16 LUFS for social media."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the video/audio file"),
		),
		mcp.WithNumber("target_lufs",
			mcp.DefaultNumber(-16.0),
			mcp.Description("Target loudness in LUFS (default -16)"),
		),
		mcp.WithString("output_path",
			mcp.Description("Output file path (auto-generated if not set)"),
		),
	)
}

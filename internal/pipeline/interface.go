// Package pipeline orchestrates the editing operations behind the tool
// surface: transcription, cut planning, draft generation and mutation,
// media export and audio cleanup. Every mutating operation re-checks
// the capability gate before touching anything and runs under a single
// in-flight lock, so one edit always finishes before the next starts.
package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/draft"
	"github.com/nguyentantai21042004/smartcut/internal/history"
	"github.com/nguyentantai21042004/smartcut/internal/media"
	"github.com/nguyentantai21042004/smartcut/internal/subtitle"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

// Pipeline is the operation surface the server exposes as tools.
// Boolean and numeric request fields are taken literally: the caller
// resolves tool-level defaults before building a request.
type Pipeline interface {
	// Read-only operations.
	Transcribe(ctx context.Context, req TranscribeRequest) (*transcript.Transcript, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*cutplan.Plan, error)
	GenerateSubtitles(ctx context.Context, req GenerateSubtitlesRequest) (*SubtitlesResult, error)
	ListProjects(ctx context.Context, req ListProjectsRequest) (*ListResult, error)
	OpenProject(ctx context.Context, ref ProjectRef) (*ProjectStructure, error)
	EditHistory(ctx context.Context, limit int) ([]history.Entry, error)

	// Draft-writing operations, gated on the capcut target.
	GenerateProject(ctx context.Context, req GenerateProjectRequest) (*ProjectResult, error)
	AddSubtitles(ctx context.Context, req AddSubtitlesRequest) (*AddSubtitlesResult, error)
	SmartCutProject(ctx context.Context, req SmartCutProjectRequest) (*SmartCutProjectResult, error)
	ExportReport(ctx context.Context, req ReportRequest) (*ReportResult, error)

	// Media-writing operations, gated on the source target.
	ExportVideo(ctx context.Context, req ExportVideoRequest) (*ExportResult, error)
	EnhanceAudio(ctx context.Context, req EnhanceAudioRequest) (*AudioResult, error)
	NormalizeAudio(ctx context.Context, req NormalizeAudioRequest) (*AudioResult, error)

	// SmartCut needs whichever gates its output format implies.
	SmartCut(ctx context.Context, req SmartCutRequest) (*SmartCutResult, error)
}

type TranscribeRequest struct {
	FilePath string
	Language string // hint like "ru" or "en"; empty auto-detects
}

type AnalyzeRequest struct {
	Transcript       *transcript.Transcript
	SilenceThreshold float64 // seconds; zero means the configured default
	DetectDuplicates bool
	SourceDuration   float64 // probed source length; zero falls back to the transcript's
}

type GenerateSubtitlesRequest struct {
	Transcript *transcript.Transcript
	Plan       *cutplan.Plan
	Style      string // "dynamic" or "simple"
	OutputPath string // optional SRT destination
}

type SubtitlesResult struct {
	Lines     []subtitle.Line `json:"lines"`
	SRT       string          `json:"srt"`
	SRTPath   string          `json:"srt_path,omitempty"`
	LineCount int             `json:"line_count"`
}

type ListProjectsRequest struct {
	DraftsDir         string // optional override of the configured drafts directory
	IncludeIncomplete bool
}

type ListResult struct {
	Projects  []draft.Info `json:"projects"`
	Count     int          `json:"count"`
	DraftsDir string       `json:"drafts_dir"`
}

// ProjectRef addresses an existing draft by path or name; path wins
// when both are set.
type ProjectRef struct {
	Path string
	Name string
}

type TrackSummary struct {
	Type     string `json:"type"`
	Segments int    `json:"segments"`
}

type VideoSummary struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	DurationUS int64  `json:"duration_us"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

type ProjectStructure struct {
	Name              string                 `json:"name"`
	Path              string                 `json:"path"`
	DurationUS        int64                  `json:"duration_us"`
	DurationFormatted string                 `json:"duration_formatted"`
	Canvas            *timeline.CanvasConfig `json:"canvas,omitempty"`
	Tracks            []TrackSummary         `json:"tracks"`
	Videos            []VideoSummary         `json:"videos"`
	TextCount         int                    `json:"text_count"`
}

type GenerateProjectRequest struct {
	FilePath      string
	Plan          *cutplan.Plan
	ProjectName   string // empty derives "<file stem> — SmartCut"
	AddSubtitles  bool
	SubtitleStyle string
	Transcript    *transcript.Transcript // needed for subtitles
}

type ProjectResult struct {
	ProjectPath      string        `json:"project_path"`
	DraftContentPath string        `json:"draft_content_path"`
	ProjectName      string        `json:"project_name"`
	SegmentsCount    int           `json:"segments_count"`
	SubtitleLines    int           `json:"subtitle_lines,omitempty"`
	Stats            cutplan.Stats `json:"stats"`
	Message          string        `json:"message"`
}

type AddSubtitlesRequest struct {
	Project    ProjectRef
	Transcript *transcript.Transcript // source-time words, remapped through the project's cuts
	SRTPath    string                 // SRT already in timeline time; wins over Transcript
	Style      string
	Language   string // for the transcribe-the-project fallback
}

type AddSubtitlesResult struct {
	ProjectPath  string `json:"project_path"`
	OriginalPath string `json:"original_path"`
	ProjectName  string `json:"project_name"`
	LinesAdded   int    `json:"lines_added"`
	Style        string `json:"style"`
	Message      string `json:"message"`
}

type SmartCutProjectRequest struct {
	Project          ProjectRef
	SilenceThreshold float64
	DetectDuplicates bool
	AddSubtitles     bool
	Language         string
}

type SmartCutProjectResult struct {
	ProjectPath   string        `json:"project_path"`
	OriginalPath  string        `json:"original_path"`
	ProjectName   string        `json:"project_name"`
	VideosCut     int           `json:"videos_cut"`
	SubtitleLines int           `json:"subtitle_lines"`
	Stats         cutplan.Stats `json:"stats"`
	Message       string        `json:"message"`
}

type ReportRequest struct {
	Plan       *cutplan.Plan
	Title      string
	OutputPath string
	Format     string // "markdown" or "docx"; empty sniffs the path extension
}

type ReportResult struct {
	ReportPath string `json:"report_path"`
	Format     string `json:"format"`
	Message    string `json:"message"`
}

type ExportVideoRequest struct {
	FilePath       string
	Plan           *cutplan.Plan
	OutputPath     string // empty derives "<stem>_cut.<ext>"
	PreserveFormat bool   // keep the source container instead of mp4
}

type ExportResult struct {
	OutputPath    string  `json:"output_path"`
	SegmentsCount int     `json:"segments_count"`
	DurationSec   float64 `json:"duration_sec"`
	Message       string  `json:"message"`
}

type EnhanceAudioRequest struct {
	FilePath   string
	PresetUUID string // empty uses the configured preset
	OutputPath string
}

type NormalizeAudioRequest struct {
	FilePath   string
	TargetLUFS float64 // zero means the configured default
	OutputPath string
}

type AudioResult struct {
	OutputPath string          `json:"output_path"`
	TargetLUFS float64         `json:"target_lufs,omitempty"`
	Input      *media.Loudness `json:"input,omitempty"`
	Message    string          `json:"message"`
}

type SmartCutRequest struct {
	FilePath         string
	Language         string
	SilenceThreshold float64
	DetectDuplicates bool
	OutputFormat     string // "capcut", "video" or "both"; empty means capcut
	ProjectName      string
	AddSubtitles     bool
	SubtitleStyle    string
}

type SmartCutResult struct {
	Stats   cutplan.Stats  `json:"stats"`
	CapCut  *ProjectResult `json:"capcut,omitempty"`
	Video   *ExportResult  `json:"video,omitempty"`
	Message string         `json:"message"`
}

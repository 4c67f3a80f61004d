package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/smartcut/internal/auphonic"
	"github.com/nguyentantai21042004/smartcut/internal/capability"
	"github.com/nguyentantai21042004/smartcut/internal/config"
	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/draft"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/history"
	"github.com/nguyentantai21042004/smartcut/internal/logger"
	"github.com/nguyentantai21042004/smartcut/internal/media"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

type exportCall struct {
	source, output string
	kept           []cutplan.Segment
}

type normCall struct {
	input, output string
	target        float64
}

type fakeMedia struct {
	info     *media.Info
	loudness *media.Loudness
	probeErr error

	extractCalls [][2]string
	exportCalls  []exportCall
	muxCalls     [][3]string
	normCalls    []normCall
}

func (f *fakeMedia) Available() error { return nil }

func (f *fakeMedia) Probe(ctx context.Context, path string) (*media.Info, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.info, nil
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	f.extractCalls = append(f.extractCalls, [2]string{videoPath, audioPath})
	return nil
}

func (f *fakeMedia) CutSegment(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	return nil
}

func (f *fakeMedia) Concat(ctx context.Context, segmentPaths []string, outputPath string) error {
	return nil
}

func (f *fakeMedia) ExportCut(ctx context.Context, sourcePath, outputPath string, kept []cutplan.Segment) error {
	f.exportCalls = append(f.exportCalls, exportCall{source: sourcePath, output: outputPath, kept: kept})
	return nil
}

func (f *fakeMedia) MeasureLoudness(ctx context.Context, path string) (*media.Loudness, error) {
	return f.loudness, nil
}

func (f *fakeMedia) Normalize(ctx context.Context, inputPath, outputPath string, targetLUFS float64) (*media.Loudness, error) {
	f.normCalls = append(f.normCalls, normCall{input: inputPath, output: outputPath, target: targetLUFS})
	return f.loudness, nil
}

func (f *fakeMedia) Mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	f.muxCalls = append(f.muxCalls, [3]string{videoPath, audioPath, outputPath})
	return nil
}

type fakeTranscriber struct {
	transcript *transcript.Transcript
	err        error
	calls      int
	languages  []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*transcript.Transcript, error) {
	f.calls++
	f.languages = append(f.languages, language)
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

type fakeAnalyst struct {
	groups      []transcript.DuplicateGroup
	accents     []string
	detectCalls int
	accentCalls int
}

func (f *fakeAnalyst) DetectDuplicates(ctx context.Context, paragraphs []transcript.Paragraph) []transcript.DuplicateGroup {
	f.detectCalls++
	return f.groups
}

func (f *fakeAnalyst) AccentWords(ctx context.Context, text string) []string {
	f.accentCalls++
	return f.accents
}

type fakeEnhancer struct {
	enhanceCalls [][3]string
}

func (f *fakeEnhancer) CreateProduction(ctx context.Context, audioPath, title, presetUUID string) (string, error) {
	return "prod-1", nil
}

func (f *fakeEnhancer) GetStatus(ctx context.Context, productionUUID string) (auphonic.Status, error) {
	return auphonic.Status{Code: auphonic.StatusDone}, nil
}

func (f *fakeEnhancer) PollUntilDone(ctx context.Context, productionUUID string) (auphonic.Status, error) {
	return auphonic.Status{Code: auphonic.StatusDone}, nil
}

func (f *fakeEnhancer) DownloadResult(ctx context.Context, productionUUID, outputPath string) error {
	return nil
}

func (f *fakeEnhancer) Enhance(ctx context.Context, audioPath, outputPath, presetUUID string) error {
	f.enhanceCalls = append(f.enhanceCalls, [3]string{audioPath, outputPath, presetUUID})
	return nil
}

type fixtures struct {
	pipeline  Pipeline
	media     *fakeMedia
	stt       *fakeTranscriber
	analyst   *fakeAnalyst
	enhancer  *fakeEnhancer
	drafts    draft.Store
	draftsDir string
}

func newFixtures(t *testing.T, gate capability.Target) *fixtures {
	return newFixturesWithHistory(t, gate, history.Disabled)
}

func newFixturesWithHistory(t *testing.T, gate capability.Target, historyPath string) *fixtures {
	t.Helper()

	cfg := &config.Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	log := logger.New("error")

	draftsDir := t.TempDir()
	drafts, err := draft.New(draftsDir, log)
	if err != nil {
		t.Fatalf("draft.New() error = %v", err)
	}
	t.Cleanup(func() { drafts.Close() })

	hist, err := history.New(historyPath)
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	f := &fixtures{
		media:     &fakeMedia{info: &media.Info{Duration: 10, Width: 1920, Height: 1080, Format: "mov"}},
		stt:       &fakeTranscriber{transcript: sampleTranscript()},
		analyst:   &fakeAnalyst{},
		enhancer:  &fakeEnhancer{},
		drafts:    drafts,
		draftsDir: draftsDir,
	}
	f.pipeline = New(cfg, gate, Deps{
		Media:       f.media,
		Transcriber: f.stt,
		Analyst:     f.analyst,
		Enhancer:    f.enhancer,
		Drafts:      drafts,
		History:     hist,
		Logger:      log,
	})
	return f
}

// sampleTranscript is a 10 second recording with two short phrases
// separated by a 6.5 second pause.
func sampleTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Language: "en",
		Duration: 10,
		Segments: []transcript.Segment{
			{ID: 0, Start: 0.5, End: 1.5, Text: "hello there", Words: []transcript.Word{
				{Word: "hello", Start: 0.5, End: 1.0},
				{Word: "there", Start: 1.0, End: 1.5},
			}},
			{ID: 1, Start: 8, End: 9, Text: "bye now", Words: []transcript.Word{
				{Word: "bye", Start: 8.0, End: 8.5},
				{Word: "now", Start: 8.5, End: 9.0},
			}},
		},
	}
}

// keptPlan keeps [0,4) and [6,10) of a 10 second source.
func keptPlan() *cutplan.Plan {
	return &cutplan.Plan{
		Segments: []cutplan.Segment{
			{Start: 0, End: 4, Kept: true, Reason: cutplan.ReasonKept},
			{Start: 4, End: 6, Kept: false, Reason: cutplan.ReasonPause},
			{Start: 6, End: 10, Kept: true, Reason: cutplan.ReasonKept},
		},
		Stats: cutplan.Stats{
			OriginalDuration: 10,
			KeptDuration:     8,
			RemovedDuration:  2,
			SilencesRemoved:  1,
		},
	}
}

func writeMediaFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not a real recording"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func seedProject(t *testing.T, drafts draft.Store, name, mediaPath string) string {
	t.Helper()
	project := timeline.NewProject(name, 1920, 1080)
	materialID, err := project.AddVideoMaterial(mediaPath, timeline.Micros(10), 1920, 1080)
	if err != nil {
		t.Fatalf("AddVideoMaterial() error = %v", err)
	}
	if _, err := project.AddVideoSegment(materialID, 0, 0, timeline.Micros(10)); err != nil {
		t.Fatalf("AddVideoSegment() error = %v", err)
	}
	dir, err := drafts.SaveNew(context.Background(), project)
	if err != nil {
		t.Fatalf("SaveNew() error = %v", err)
	}
	return dir
}

func TestTranscribeExtractsVideoAudio(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)
	src := writeMediaFile(t, "take.mov")

	tr, err := f.pipeline.Transcribe(context.Background(), TranscribeRequest{FilePath: src, Language: "ru"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if tr.Duration != 10 {
		t.Errorf("Duration = %v, want 10", tr.Duration)
	}
	if len(f.media.extractCalls) != 1 || f.media.extractCalls[0][0] != src {
		t.Fatalf("extractCalls = %v, want one call on %s", f.media.extractCalls, src)
	}
	if f.stt.languages[0] != "ru" {
		t.Errorf("language hint = %q, want ru", f.stt.languages[0])
	}

	if _, err := f.pipeline.Transcribe(context.Background(), TranscribeRequest{FilePath: writeMediaFile(t, "voice.wav")}); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(f.media.extractCalls) != 1 {
		t.Errorf("audio input went through extraction, extractCalls = %d, want 1", len(f.media.extractCalls))
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)

	_, err := f.pipeline.Transcribe(context.Background(), TranscribeRequest{FilePath: "/nonexistent/take.mov"})
	if !errdefs.IsIO(err) {
		t.Fatalf("Transcribe() error = %v, want io error", err)
	}
	if f.stt.calls != 0 {
		t.Errorf("transcriber called %d times, want 0", f.stt.calls)
	}
}

func TestAnalyzeDetectsDuplicates(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)
	f.analyst.groups = []transcript.DuplicateGroup{
		{BlockIDs: []int{0, 1}, Keep: 1, Remove: []int{0}, Reason: "repeated take"},
	}

	plan, err := f.pipeline.Analyze(context.Background(), AnalyzeRequest{
		Transcript:       sampleTranscript(),
		DetectDuplicates: true,
		SourceDuration:   10,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if f.analyst.detectCalls != 1 {
		t.Errorf("detectCalls = %d, want 1", f.analyst.detectCalls)
	}
	var duplicate bool
	for _, seg := range plan.RemovedSegments() {
		if seg.Reason == cutplan.ReasonDuplicate {
			duplicate = true
		}
	}
	if !duplicate {
		t.Error("plan has no duplicate segment, want the first take dropped")
	}
	if plan.Stats.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", plan.Stats.DuplicatesRemoved)
	}
	if plan.Paragraphs[1].Reason != "best_take" {
		t.Errorf("Paragraphs[1].Reason = %q, want best_take", plan.Paragraphs[1].Reason)
	}
}

func TestAnalyzeSkipsDetectionWhenDisabled(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)

	plan, err := f.pipeline.Analyze(context.Background(), AnalyzeRequest{
		Transcript:     sampleTranscript(),
		SourceDuration: 10,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if f.analyst.detectCalls != 0 {
		t.Errorf("detectCalls = %d, want 0", f.analyst.detectCalls)
	}
	if plan.Stats.OriginalDuration != 10 {
		t.Errorf("OriginalDuration = %v, want 10", plan.Stats.OriginalDuration)
	}
	if plan.Stats.RemovedDuration != 8 {
		t.Errorf("RemovedDuration = %v, want 8", plan.Stats.RemovedDuration)
	}
	if plan.Stats.SilencesRemoved != 3 {
		t.Errorf("SilencesRemoved = %d, want 3", plan.Stats.SilencesRemoved)
	}
}

func TestGenerateSubtitles(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)
	outPath := filepath.Join(t.TempDir(), "subs.srt")

	result, err := f.pipeline.GenerateSubtitles(context.Background(), GenerateSubtitlesRequest{
		Transcript: sampleTranscript(),
		Plan:       keptPlan(),
		Style:      "simple",
		OutputPath: outPath,
	})
	if err != nil {
		t.Fatalf("GenerateSubtitles() error = %v", err)
	}
	if result.LineCount != 1 {
		t.Fatalf("LineCount = %d, want 1", result.LineCount)
	}
	if result.Lines[0].Text != "hello there bye now" {
		t.Errorf("line text = %q, want %q", result.Lines[0].Text, "hello there bye now")
	}
	if f.analyst.accentCalls != 0 {
		t.Errorf("accentCalls = %d, want 0 for simple style", f.analyst.accentCalls)
	}
	if result.SRTPath != outPath {
		t.Errorf("SRTPath = %q, want %q", result.SRTPath, outPath)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "hello there bye now") {
		t.Errorf("SRT file missing line text: %q", data)
	}
}

func TestGenerateSubtitlesDynamicAccents(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)
	f.analyst.accents = []string{"hello"}

	result, err := f.pipeline.GenerateSubtitles(context.Background(), GenerateSubtitlesRequest{
		Transcript: sampleTranscript(),
		Plan:       keptPlan(),
		Style:      "dynamic",
	})
	if err != nil {
		t.Fatalf("GenerateSubtitles() error = %v", err)
	}
	if f.analyst.accentCalls != result.LineCount {
		t.Errorf("accentCalls = %d, want %d", f.analyst.accentCalls, result.LineCount)
	}
	if len(result.Lines[0].AccentWords) != 1 {
		t.Errorf("AccentWords = %v, want one accent pick", result.Lines[0].AccentWords)
	}
}

func TestGenerateProject(t *testing.T) {
	f := newFixtures(t, capability.TargetCapCut)
	src := writeMediaFile(t, "talk.mov")

	result, err := f.pipeline.GenerateProject(context.Background(), GenerateProjectRequest{
		FilePath:     src,
		Plan:         keptPlan(),
		AddSubtitles: true,
		Transcript:   sampleTranscript(),
	})
	if err != nil {
		t.Fatalf("GenerateProject() error = %v", err)
	}
	if result.ProjectName != "talk — SmartCut" {
		t.Errorf("ProjectName = %q, want %q", result.ProjectName, "talk — SmartCut")
	}
	if result.SegmentsCount != 2 {
		t.Errorf("SegmentsCount = %d, want 2", result.SegmentsCount)
	}
	if result.SubtitleLines != 1 {
		t.Errorf("SubtitleLines = %d, want 1", result.SubtitleLines)
	}
	if want := filepath.Join(result.ProjectPath, draft.ContentFile); result.DraftContentPath != want {
		t.Errorf("DraftContentPath = %q, want %q", result.DraftContentPath, want)
	}

	project, err := f.drafts.Load(context.Background(), result.ProjectPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	video := project.Content.VideoTrack()
	if video == nil || len(video.Segments) != 2 {
		t.Fatalf("video track = %+v, want 2 segments", video)
	}
	if video.Segments[0].TargetRange.Start != 0 || video.Segments[0].TargetRange.Duration != 4_000_000 {
		t.Errorf("segment 0 target = %+v, want [0, 4s)", video.Segments[0].TargetRange)
	}
	if video.Segments[1].TargetRange.Start != 4_000_000 || video.Segments[1].SourceRange.Start != 6_000_000 {
		t.Errorf("segment 1 target start = %d source start = %d, want 4000000 and 6000000",
			video.Segments[1].TargetRange.Start, video.Segments[1].SourceRange.Start)
	}
	if project.Content.Duration != 8_000_000 {
		t.Errorf("Duration = %d, want 8000000", project.Content.Duration)
	}
	text := project.Content.TextTrack()
	if text == nil || len(text.Segments) != 1 {
		t.Fatalf("text track = %+v, want 1 subtitle segment", text)
	}
}

func TestGenerateProjectRecordsHistory(t *testing.T) {
	f := newFixturesWithHistory(t, capability.TargetCapCut, filepath.Join(t.TempDir(), "history.sqlite"))
	src := writeMediaFile(t, "talk.mov")

	if _, err := f.pipeline.GenerateProject(context.Background(), GenerateProjectRequest{
		FilePath: src,
		Plan:     keptPlan(),
	}); err != nil {
		t.Fatalf("GenerateProject() error = %v", err)
	}

	entries, err := f.pipeline.EditHistory(context.Background(), 5)
	if err != nil {
		t.Fatalf("EditHistory() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("EditHistory() returned %d entries, want 1", len(entries))
	}
	if entries[0].Operation != "generate_capcut_project" {
		t.Errorf("Operation = %q, want generate_capcut_project", entries[0].Operation)
	}
	var stats cutplan.Stats
	if err := json.Unmarshal(entries[0].Stats, &stats); err != nil {
		t.Fatalf("Unmarshal(stats) error = %v", err)
	}
	if stats.RemovedDuration != 2 {
		t.Errorf("recorded RemovedDuration = %v, want 2", stats.RemovedDuration)
	}
}

func TestListProjects(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)
	src := writeMediaFile(t, "talk.mov")
	seedProject(t, f.drafts, "Complete", src)
	broken := seedProject(t, f.drafts, "Incomplete", src)
	if err := os.Remove(filepath.Join(broken, draft.ContentFile)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	result, err := f.pipeline.ListProjects(context.Background(), ListProjectsRequest{})
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if result.Count != 1 || result.Projects[0].Name != "Complete" {
		t.Fatalf("ListProjects() = %+v, want only the complete project", result.Projects)
	}
	if result.DraftsDir != f.draftsDir {
		t.Errorf("DraftsDir = %q, want %q", result.DraftsDir, f.draftsDir)
	}

	result, err = f.pipeline.ListProjects(context.Background(), ListProjectsRequest{IncludeIncomplete: true})
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if result.Count != 2 {
		t.Errorf("Count = %d, want 2 with incomplete drafts included", result.Count)
	}

	other := t.TempDir()
	result, err = f.pipeline.ListProjects(context.Background(), ListProjectsRequest{DraftsDir: other})
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if result.Count != 0 || result.DraftsDir != other {
		t.Errorf("override listing = %d projects in %q, want 0 in %q", result.Count, result.DraftsDir, other)
	}
}

func TestOpenProject(t *testing.T) {
	f := newFixtures(t, capability.TargetNone)
	src := writeMediaFile(t, "talk.mov")
	seedProject(t, f.drafts, "My Talk", src)
	seedProject(t, f.drafts, "Another Talk", src)

	structure, err := f.pipeline.OpenProject(context.Background(), ProjectRef{Name: "My Talk"})
	if err != nil {
		t.Fatalf("OpenProject() error = %v", err)
	}
	if structure.Name != "My Talk" {
		t.Errorf("Name = %q, want My Talk", structure.Name)
	}
	if structure.DurationUS != 10_000_000 {
		t.Errorf("DurationUS = %d, want 10000000", structure.DurationUS)
	}
	if len(structure.Tracks) != 1 || structure.Tracks[0].Type != timeline.TrackVideo || structure.Tracks[0].Segments != 1 {
		t.Errorf("Tracks = %+v, want one video track with one segment", structure.Tracks)
	}
	if len(structure.Videos) != 1 || structure.Videos[0].Path != src {
		t.Errorf("Videos = %+v, want the seeded material", structure.Videos)
	}

	structure, err = f.pipeline.OpenProject(context.Background(), ProjectRef{Name: "another"})
	if err != nil {
		t.Fatalf("OpenProject() error = %v", err)
	}
	if structure.Name != "Another Talk" {
		t.Errorf("substring match opened %q, want Another Talk", structure.Name)
	}

	if _, err := f.pipeline.OpenProject(context.Background(), ProjectRef{Name: "No Such"}); !errdefs.IsPlanning(err) {
		t.Errorf("OpenProject(missing name) error = %v, want planning error", err)
	}
	if _, err := f.pipeline.OpenProject(context.Background(), ProjectRef{}); !errdefs.IsPlanning(err) {
		t.Errorf("OpenProject(empty ref) error = %v, want planning error", err)
	}
}

func TestAddSubtitlesFromSRT(t *testing.T) {
	f := newFixtures(t, capability.TargetCapCut)
	src := writeMediaFile(t, "demo.mov")
	dir := seedProject(t, f.drafts, "Demo", src)

	srtPath := filepath.Join(t.TempDir(), "subs.srt")
	srt := "1\n00:00:00,000 --> 00:00:02,000\nHello\n\n2\n00:00:02,500 --> 00:00:04,000\nWorld\n"
	if err := os.WriteFile(srtPath, []byte(srt), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	result, err := f.pipeline.AddSubtitles(context.Background(), AddSubtitlesRequest{
		Project: ProjectRef{Path: dir},
		SRTPath: srtPath,
		Style:   "simple",
	})
	if err != nil {
		t.Fatalf("AddSubtitles() error = %v", err)
	}
	if result.LinesAdded != 2 {
		t.Errorf("LinesAdded = %d, want 2", result.LinesAdded)
	}
	if result.Style != "simple" {
		t.Errorf("Style = %q, want simple", result.Style)
	}
	if result.ProjectPath == dir {
		t.Error("subtitles landed in the original project, want a copy")
	}
	if f.stt.calls != 0 {
		t.Errorf("transcriber called %d times, want 0 with an SRT supplied", f.stt.calls)
	}

	project, err := f.drafts.Load(context.Background(), result.ProjectPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	text := project.Content.TextTrack()
	if text == nil || len(text.Segments) != 2 {
		t.Fatalf("text track = %+v, want 2 subtitle segments", text)
	}
	if text.Segments[0].TargetRange.Start != 0 || text.Segments[0].TargetRange.Duration != 2_000_000 {
		t.Errorf("subtitle 0 target = %+v, want [0, 2s)", text.Segments[0].TargetRange)
	}

	original, err := f.drafts.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if original.Content.TextTrack() != nil {
		t.Error("original project gained a text track")
	}
}

func TestSmartCutProject(t *testing.T) {
	f := newFixtures(t, capability.TargetCapCut)
	src := writeMediaFile(t, "raw.mov")
	dir := seedProject(t, f.drafts, "Raw Take", src)

	before, err := os.ReadFile(filepath.Join(dir, draft.ContentFile))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	result, err := f.pipeline.SmartCutProject(context.Background(), SmartCutProjectRequest{
		Project:      ProjectRef{Name: "Raw Take"},
		AddSubtitles: true,
	})
	if err != nil {
		t.Fatalf("SmartCutProject() error = %v", err)
	}
	if result.ProjectName != "Raw Take — SmartCut" {
		t.Errorf("ProjectName = %q, want %q", result.ProjectName, "Raw Take — SmartCut")
	}
	if result.ProjectPath == dir {
		t.Error("edit landed in the original project, want a copy")
	}
	if result.VideosCut != 1 {
		t.Errorf("VideosCut = %d, want 1", result.VideosCut)
	}
	if result.Stats.RemovedDuration != 8 {
		t.Errorf("RemovedDuration = %v, want 8", result.Stats.RemovedDuration)
	}
	if result.Stats.SilencesRemoved != 3 {
		t.Errorf("SilencesRemoved = %d, want 3", result.Stats.SilencesRemoved)
	}
	if result.SubtitleLines != 1 {
		t.Errorf("SubtitleLines = %d, want 1", result.SubtitleLines)
	}

	project, err := f.drafts.Load(context.Background(), result.ProjectPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	video := project.Content.VideoTrack()
	if video == nil || len(video.Segments) != 2 {
		t.Fatalf("video track = %+v, want 2 segments after the cut", video)
	}
	if video.Segments[0].SourceRange.Start != 500_000 || video.Segments[1].SourceRange.Start != 8_000_000 {
		t.Errorf("source starts = %d and %d, want 500000 and 8000000",
			video.Segments[0].SourceRange.Start, video.Segments[1].SourceRange.Start)
	}
	if video.Segments[1].TargetRange.Start != 1_000_000 {
		t.Errorf("segment 1 target start = %d, want 1000000", video.Segments[1].TargetRange.Start)
	}
	if project.Content.TextTrack() == nil {
		t.Error("copy has no subtitle track")
	}

	after, err := os.ReadFile(filepath.Join(dir, draft.ContentFile))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("original draft content changed, want it untouched")
	}
}

func TestSmartCutProjectGateDenied(t *testing.T) {
	f := newFixtures(t, capability.TargetSource)
	src := writeMediaFile(t, "raw.mov")
	seedProject(t, f.drafts, "Raw Take", src)

	_, err := f.pipeline.SmartCutProject(context.Background(), SmartCutProjectRequest{
		Project: ProjectRef{Name: "Raw Take"},
	})
	if !errdefs.IsPermission(err) {
		t.Fatalf("SmartCutProject() error = %v, want permission error", err)
	}

	entries, err := os.ReadDir(f.draftsDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("drafts dir has %d entries after denial, want 1", len(entries))
	}
}

func TestSmartCut(t *testing.T) {
	t.Run("video format needs the source gate", func(t *testing.T) {
		f := newFixtures(t, capability.TargetCapCut)
		_, err := f.pipeline.SmartCut(context.Background(), SmartCutRequest{
			FilePath:     writeMediaFile(t, "take.mov"),
			OutputFormat: "video",
		})
		if !errdefs.IsPermission(err) {
			t.Fatalf("SmartCut() error = %v, want permission error", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixtures(t, capability.TargetAll)
		_, err := f.pipeline.SmartCut(context.Background(), SmartCutRequest{
			FilePath:     writeMediaFile(t, "take.mov"),
			OutputFormat: "gif",
		})
		if !errdefs.IsPlanning(err) {
			t.Fatalf("SmartCut() error = %v, want planning error", err)
		}
	})

	t.Run("capcut only", func(t *testing.T) {
		f := newFixtures(t, capability.TargetCapCut)
		result, err := f.pipeline.SmartCut(context.Background(), SmartCutRequest{
			FilePath: writeMediaFile(t, "take.mov"),
		})
		if err != nil {
			t.Fatalf("SmartCut() error = %v", err)
		}
		if result.CapCut == nil {
			t.Fatal("CapCut result is nil, want a generated project")
		}
		if result.Video != nil {
			t.Errorf("Video result = %+v, want nil for the capcut format", result.Video)
		}
		if len(f.media.exportCalls) != 0 {
			t.Errorf("ExportCut called %d times, want 0", len(f.media.exportCalls))
		}
		if result.CapCut.SegmentsCount != 2 {
			t.Errorf("SegmentsCount = %d, want 2", result.CapCut.SegmentsCount)
		}
		if result.Stats.RemovedDuration != 8 {
			t.Errorf("RemovedDuration = %v, want 8", result.Stats.RemovedDuration)
		}
	})

	t.Run("both formats", func(t *testing.T) {
		f := newFixtures(t, capability.TargetAll)
		src := writeMediaFile(t, "take.mov")
		result, err := f.pipeline.SmartCut(context.Background(), SmartCutRequest{
			FilePath:     src,
			OutputFormat: "both",
		})
		if err != nil {
			t.Fatalf("SmartCut() error = %v", err)
		}
		if result.CapCut == nil || result.Video == nil {
			t.Fatalf("CapCut = %v, Video = %v, want both outputs", result.CapCut, result.Video)
		}
		want := filepath.Join(filepath.Dir(src), "take_cut.mov")
		if result.Video.OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", result.Video.OutputPath, want)
		}
		if len(f.media.exportCalls) != 1 {
			t.Errorf("ExportCut called %d times, want 1", len(f.media.exportCalls))
		}
	})
}

func TestExportVideoDefaultNaming(t *testing.T) {
	f := newFixtures(t, capability.TargetSource)
	src := writeMediaFile(t, "take.mov")

	result, err := f.pipeline.ExportVideo(context.Background(), ExportVideoRequest{
		FilePath:       src,
		Plan:           keptPlan(),
		PreserveFormat: true,
	})
	if err != nil {
		t.Fatalf("ExportVideo() error = %v", err)
	}
	want := filepath.Join(filepath.Dir(src), "take_cut.mov")
	if result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
	if result.SegmentsCount != 2 {
		t.Errorf("SegmentsCount = %d, want 2", result.SegmentsCount)
	}
	if result.DurationSec != 8 {
		t.Errorf("DurationSec = %v, want 8", result.DurationSec)
	}
	if len(f.media.exportCalls) != 1 || f.media.exportCalls[0].output != want {
		t.Errorf("exportCalls = %+v, want one call writing %s", f.media.exportCalls, want)
	}

	result, err = f.pipeline.ExportVideo(context.Background(), ExportVideoRequest{
		FilePath: src,
		Plan:     keptPlan(),
	})
	if err != nil {
		t.Fatalf("ExportVideo() error = %v", err)
	}
	if want := filepath.Join(filepath.Dir(src), "take_cut.mp4"); result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
}

func TestNormalizeAudioDefaults(t *testing.T) {
	f := newFixtures(t, capability.TargetSource)
	f.media.loudness = &media.Loudness{InputI: -23.5, InputTP: -5.1, InputLRA: 6.2, InputThresh: -33.9}
	src := writeMediaFile(t, "voice.wav")

	result, err := f.pipeline.NormalizeAudio(context.Background(), NormalizeAudioRequest{FilePath: src})
	if err != nil {
		t.Fatalf("NormalizeAudio() error = %v", err)
	}
	if result.TargetLUFS != -16 {
		t.Errorf("TargetLUFS = %v, want -16", result.TargetLUFS)
	}
	if len(f.media.normCalls) != 1 || f.media.normCalls[0].target != -16 {
		t.Fatalf("normCalls = %+v, want one call at -16 LUFS", f.media.normCalls)
	}
	if want := filepath.Join(filepath.Dir(src), "voice_normalized.wav"); result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
	if result.Input == nil || result.Input.InputI != -23.5 {
		t.Errorf("Input = %+v, want the first-pass measurement", result.Input)
	}
}

func TestEnhanceAudioVideoInput(t *testing.T) {
	f := newFixtures(t, capability.TargetSource)
	src := writeMediaFile(t, "take.mov")

	result, err := f.pipeline.EnhanceAudio(context.Background(), EnhanceAudioRequest{
		FilePath:   src,
		PresetUUID: "preset-7",
	})
	if err != nil {
		t.Fatalf("EnhanceAudio() error = %v", err)
	}
	if len(f.media.extractCalls) != 1 {
		t.Fatalf("extractCalls = %d, want 1", len(f.media.extractCalls))
	}
	if len(f.enhancer.enhanceCalls) != 1 {
		t.Fatalf("enhanceCalls = %d, want 1", len(f.enhancer.enhanceCalls))
	}
	if got := f.enhancer.enhanceCalls[0][2]; got != "preset-7" {
		t.Errorf("preset = %q, want preset-7", got)
	}
	if len(f.media.muxCalls) != 1 {
		t.Fatalf("muxCalls = %d, want 1", len(f.media.muxCalls))
	}
	want := filepath.Join(filepath.Dir(src), "take_enhanced.mov")
	if result.OutputPath != want || f.media.muxCalls[0][2] != want {
		t.Errorf("OutputPath = %q, muxed to %q, want %q", result.OutputPath, f.media.muxCalls[0][2], want)
	}
}

func TestEnhanceAudioDirect(t *testing.T) {
	f := newFixtures(t, capability.TargetSource)
	src := writeMediaFile(t, "voice.wav")

	result, err := f.pipeline.EnhanceAudio(context.Background(), EnhanceAudioRequest{FilePath: src})
	if err != nil {
		t.Fatalf("EnhanceAudio() error = %v", err)
	}
	if len(f.media.extractCalls) != 0 || len(f.media.muxCalls) != 0 {
		t.Errorf("audio input ran through extract/mux: extract = %d, mux = %d, want 0 and 0",
			len(f.media.extractCalls), len(f.media.muxCalls))
	}
	if len(f.enhancer.enhanceCalls) != 1 {
		t.Fatalf("enhanceCalls = %d, want 1", len(f.enhancer.enhanceCalls))
	}
	if f.enhancer.enhanceCalls[0][0] != src {
		t.Errorf("enhanced %q, want the source file directly", f.enhancer.enhanceCalls[0][0])
	}
	if want := filepath.Join(filepath.Dir(src), "voice_enhanced.wav"); result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
}

func TestExportReport(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		f := newFixtures(t, capability.TargetCapCut)
		out := filepath.Join(t.TempDir(), "report.md")
		result, err := f.pipeline.ExportReport(context.Background(), ReportRequest{
			Plan:       keptPlan(),
			Title:      "My Talk",
			OutputPath: out,
		})
		if err != nil {
			t.Fatalf("ExportReport() error = %v", err)
		}
		if result.Format != "markdown" {
			t.Errorf("Format = %q, want markdown", result.Format)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !strings.Contains(string(data), "# Cut Report — My Talk") {
			t.Errorf("report missing title header: %q", data)
		}
	})

	t.Run("docx by extension", func(t *testing.T) {
		f := newFixtures(t, capability.TargetCapCut)
		out := filepath.Join(t.TempDir(), "report.docx")
		result, err := f.pipeline.ExportReport(context.Background(), ReportRequest{
			Plan:       keptPlan(),
			OutputPath: out,
		})
		if err != nil {
			t.Fatalf("ExportReport() error = %v", err)
		}
		if result.Format != "docx" {
			t.Errorf("Format = %q, want docx", result.Format)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if len(data) < 4 || string(data[:2]) != "PK" {
			t.Error("output is not a zip container")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixtures(t, capability.TargetCapCut)
		_, err := f.pipeline.ExportReport(context.Background(), ReportRequest{
			Plan:       keptPlan(),
			OutputPath: filepath.Join(t.TempDir(), "report.pdf"),
			Format:     "pdf",
		})
		if !errdefs.IsPlanning(err) {
			t.Fatalf("ExportReport() error = %v, want planning error", err)
		}
	})

	t.Run("gated on the capcut target", func(t *testing.T) {
		f := newFixtures(t, capability.TargetSource)
		_, err := f.pipeline.ExportReport(context.Background(), ReportRequest{
			Plan:       keptPlan(),
			OutputPath: filepath.Join(t.TempDir(), "report.md"),
		})
		if !errdefs.IsPermission(err) {
			t.Fatalf("ExportReport() error = %v, want permission error", err)
		}
	})
}

func TestKeptFromTrackOrder(t *testing.T) {
	project := timeline.NewProject("Order", 1920, 1080)
	materialID, err := project.AddVideoMaterial("/media/take.mov", timeline.Micros(10), 1920, 1080)
	if err != nil {
		t.Fatalf("AddVideoMaterial() error = %v", err)
	}
	// Insert the later timeline slice first so insertion order and
	// timeline order disagree.
	if _, err := project.AddVideoSegment(materialID, timeline.Micros(5), timeline.Micros(8), timeline.Micros(1)); err != nil {
		t.Fatalf("AddVideoSegment() error = %v", err)
	}
	if _, err := project.AddVideoSegment(materialID, 0, timeline.Micros(2), timeline.Micros(3)); err != nil {
		t.Fatalf("AddVideoSegment() error = %v", err)
	}

	kept := keptFromTrack(project)
	if len(kept) != 2 {
		t.Fatalf("keptFromTrack() returned %d segments, want 2", len(kept))
	}
	if kept[0].Start != 2 || kept[0].End != 5 {
		t.Errorf("kept[0] = [%v, %v), want [2, 5)", kept[0].Start, kept[0].End)
	}
	if kept[1].Start != 8 || kept[1].End != 9 {
		t.Errorf("kept[1] = [%v, %v), want [8, 9)", kept[1].Start, kept[1].End)
	}
}

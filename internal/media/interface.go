// Package media drives ffmpeg and ffprobe for every frame-level
// operation: probing, audio extraction, segment cutting, lossless
// concatenation, loudness normalization and muxing. No media is
// decoded in-process; everything goes through pkg/executor so tests
// can substitute a recording fake.
package media

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
)

// Info describes a media file as reported by ffprobe.
type Info struct {
	Duration   float64 `json:"duration"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	SampleRate int     `json:"sample_rate"`
	Format     string  `json:"format"`
}

// Loudness holds the measurements of loudnorm's first pass.
type Loudness struct {
	InputI       float64 `json:"input_i"`
	InputTP      float64 `json:"input_tp"`
	InputLRA     float64 `json:"input_lra"`
	InputThresh  float64 `json:"input_thresh"`
	TargetOffset float64 `json:"target_offset"`
}

// Processor runs ffmpeg and ffprobe operations on local media files.
type Processor interface {
	// Available reports whether both ffmpeg and ffprobe are on PATH.
	Available() error
	Probe(ctx context.Context, path string) (*Info, error)
	// ExtractAudio writes the video's audio track as 16kHz mono PCM
	// WAV, the format Whisper transcribes best.
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
	// CutSegment stream-copies [start, end) seconds of the input.
	CutSegment(ctx context.Context, inputPath, outputPath string, start, end float64) error
	// Concat joins segments losslessly with the concat demuxer,
	// falling back to the re-encoding concat filter when the inputs
	// refuse to stream-copy.
	Concat(ctx context.Context, segmentPaths []string, outputPath string) error
	// ExportCut cuts every kept range of a plan out of the source and
	// concatenates the pieces into outputPath.
	ExportCut(ctx context.Context, sourcePath, outputPath string, kept []cutplan.Segment) error
	MeasureLoudness(ctx context.Context, path string) (*Loudness, error)
	// Normalize runs the two-pass loudnorm filter towards targetLUFS
	// and returns the first-pass measurement of the input.
	Normalize(ctx context.Context, inputPath, outputPath string, targetLUFS float64) (*Loudness, error)
	// Mux replaces the video's audio track with audioPath.
	Mux(ctx context.Context, videoPath, audioPath, outputPath string) error
}

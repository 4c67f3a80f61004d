package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractAudio pulls the audio track out of videoPath as 16kHz mono
// PCM WAV. Keeping the file uncompressed mono at 16kHz is what the
// transcription endpoint handles best and keeps uploads small.
func (p *implProcessor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn", // No video
		"-c:a", "pcm_s16le",
		"-ar", "16000", // 16kHz sample rate
		"-ac", "1", // Mono
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}

// MeasureLoudness runs loudnorm's measurement pass. The filter prints
// its JSON report on stderr while the null muxer discards the output.
func (p *implProcessor) MeasureLoudness(ctx context.Context, path string) (*Loudness, error) {
	args := []string{
		"-i", path,
		"-af", "loudnorm=print_format=json",
		"-f", "null",
		"-",
	}

	_, stderr, err := p.executor.ExecuteCapture(ctx, "ffmpeg", args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg measure loudness: %w", err)
	}

	return parseLoudness(stderr)
}

// parseLoudness extracts the last JSON object from loudnorm's stderr
// chatter. The filter reports every value as a string.
func parseLoudness(output string) (*Loudness, error) {
	start := strings.LastIndex(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("no loudness data in ffmpeg output")
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(output[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("parse loudness data: %w", err)
	}

	return &Loudness{
		InputI:       loudnessField(fields, "input_i", -24),
		InputTP:      loudnessField(fields, "input_tp", 0),
		InputLRA:     loudnessField(fields, "input_lra", 0),
		InputThresh:  loudnessField(fields, "input_thresh", -34),
		TargetOffset: loudnessField(fields, "target_offset", 0),
	}, nil
}

func loudnessField(fields map[string]string, key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(fields[key], 64)
	if err != nil {
		return fallback
	}
	return v
}

// Normalize applies the two-pass loudnorm filter towards targetLUFS.
// The first pass measures, the second applies in linear mode so the
// gain stays constant across the whole file. Returns the first-pass
// measurement so callers can report what the input was.
func (p *implProcessor) Normalize(ctx context.Context, inputPath, outputPath string, targetLUFS float64) (*Loudness, error) {
	loudness, err := p.MeasureLoudness(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Normalizing loudness %.1f -> %.1f LUFS: %s", loudness.InputI, targetLUFS, inputPath)

	filter := fmt.Sprintf("loudnorm=I=%g:TP=-1.5:LRA=11:measured_I=%g:measured_TP=%g:measured_LRA=%g:measured_thresh=%g:offset=%g:linear=true",
		targetLUFS, loudness.InputI, loudness.InputTP, loudness.InputLRA, loudness.InputThresh, loudness.TargetOffset)

	args := []string{
		"-i", inputPath,
		"-af", filter,
		"-c:v", "copy", // Keep any video stream untouched
		"-y",
		outputPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return nil, fmt.Errorf("ffmpeg normalize loudness: %w", err)
	}
	return loudness, nil
}

// Mux replaces the video's audio track with audioPath, stream-copying
// the video and encoding the audio to AAC.
func (p *implProcessor) Mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	p.logger.Info(ctx, "Muxing audio into video: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0", // Video from the first input
		"-map", "1:a:0", // Audio from the second
		"-y",
		outputPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg mux audio into video: %w", err)
	}
	return nil
}

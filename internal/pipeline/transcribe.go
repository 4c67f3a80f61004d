package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

// Transcribe produces a word-level transcript of the file, extracting
// the audio track first when the input is a video.
func (p *implPipeline) Transcribe(ctx context.Context, req TranscribeRequest) (*transcript.Transcript, error) {
	if err := requireFile(req.FilePath); err != nil {
		return nil, err
	}
	return p.transcribeFile(ctx, req.FilePath, req.Language)
}

func (p *implPipeline) transcribeFile(ctx context.Context, path, language string) (*transcript.Transcript, error) {
	audioPath := path
	if !isAudioFile(path) {
		tmpDir, err := os.MkdirTemp("", "smartcut-")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		audioPath = filepath.Join(tmpDir, "audio.wav")
		p.logger.Info(ctx, "Extracting audio from %s", path)
		if err := p.media.ExtractAudio(ctx, path, audioPath); err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
	}

	tr, err := p.transcriber.Transcribe(ctx, audioPath, language)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}

	p.logger.Info(ctx, "Transcribed %s: %d segments, %.1fs", filepath.Base(path), len(tr.Segments), tr.Duration)
	return tr, nil
}

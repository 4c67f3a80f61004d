package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// EnhanceAudio sends a file's audio through Auphonic and writes the
// enhanced result next to the source. Video inputs get their audio
// extracted first and the enhanced track muxed back over the original
// picture.
func (p *implPipeline) EnhanceAudio(ctx context.Context, req EnhanceAudioRequest) (*AudioResult, error) {
	if err := p.gate.RequireSource(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := requireFile(req.FilePath); err != nil {
		return nil, err
	}
	preset := req.PresetUUID
	if preset == "" {
		preset = p.cfg.Auphonic.PresetUUID
	}
	out := req.OutputPath
	if out == "" {
		ext := filepath.Ext(req.FilePath)
		out = filepath.Join(filepath.Dir(req.FilePath), stem(req.FilePath)+"_enhanced"+ext)
	}

	if isAudioFile(req.FilePath) {
		if err := p.enhancer.Enhance(ctx, req.FilePath, out, preset); err != nil {
			return nil, err
		}
	} else {
		tmpDir, err := os.MkdirTemp("", "smartcut-")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		extracted := filepath.Join(tmpDir, "audio.wav")
		if err := p.media.ExtractAudio(ctx, req.FilePath, extracted); err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		enhanced := filepath.Join(tmpDir, "enhanced.wav")
		if err := p.enhancer.Enhance(ctx, extracted, enhanced, preset); err != nil {
			return nil, err
		}
		if err := p.media.Mux(ctx, req.FilePath, enhanced, out); err != nil {
			return nil, fmt.Errorf("mux enhanced audio: %w", err)
		}
	}

	p.recordEdit(ctx, out, "enhance_audio", nil)

	return &AudioResult{
		OutputPath: out,
		Message:    fmt.Sprintf("Enhanced audio written to %s.", out),
	}, nil
}

// NormalizeAudio runs two-pass loudness normalization to the target
// LUFS and writes the result next to the source.
func (p *implPipeline) NormalizeAudio(ctx context.Context, req NormalizeAudioRequest) (*AudioResult, error) {
	if err := p.gate.RequireSource(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := requireFile(req.FilePath); err != nil {
		return nil, err
	}
	target := req.TargetLUFS
	if target == 0 {
		target = p.cfg.Audio.TargetLUFS
	}
	out := req.OutputPath
	if out == "" {
		ext := filepath.Ext(req.FilePath)
		out = filepath.Join(filepath.Dir(req.FilePath), stem(req.FilePath)+"_normalized"+ext)
	}

	loudness, err := p.media.Normalize(ctx, req.FilePath, out, target)
	if err != nil {
		return nil, err
	}

	p.recordEdit(ctx, out, "normalize_audio", map[string]float64{
		"input_lufs":  loudness.InputI,
		"target_lufs": target,
	})

	return &AudioResult{
		OutputPath: out,
		TargetLUFS: target,
		Input:      loudness,
		Message:    fmt.Sprintf("Normalized loudness from %.1f to %.1f LUFS: %s.", loudness.InputI, target, out),
	}, nil
}

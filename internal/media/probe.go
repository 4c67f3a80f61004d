package media

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

// Fallbacks for streams ffprobe reports incompletely.
const (
	defaultWidth      = 1920
	defaultHeight     = 1080
	defaultFPS        = 30.0
	defaultSampleRate = 44100
)

// Available reports whether ffmpeg and ffprobe can be found on PATH.
func (p *implProcessor) Available() error {
	var missing []string
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if !p.executor.Available(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errdefs.IO("%s not found in PATH, install it with: brew install ffmpeg (macOS) or winget install ffmpeg (Windows)",
			strings.Join(missing, " and "))
	}
	return nil
}

// ffprobe reports duration and sample_rate as JSON strings.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	SampleRate string `json:"sample_rate"`
}

// Probe inspects path with ffprobe and returns duration, resolution,
// frame rate, audio sample rate and container format. Missing stream
// details fall back to common defaults rather than failing the probe.
func (p *implProcessor) Probe(ctx context.Context, path string) (*Info, error) {
	out, err := p.executor.Execute(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var probed probeOutput
	if err := json.Unmarshal([]byte(out), &probed); err != nil {
		return nil, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}

	info := &Info{
		Width:      defaultWidth,
		Height:     defaultHeight,
		FPS:        defaultFPS,
		SampleRate: defaultSampleRate,
		Format:     strings.Split(probed.Format.FormatName, ",")[0],
	}
	if d, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
		info.Duration = d
	}

	for _, stream := range probed.Streams {
		switch stream.CodecType {
		case "video":
			if stream.Width > 0 {
				info.Width = stream.Width
			}
			if stream.Height > 0 {
				info.Height = stream.Height
			}
			if fps, ok := parseFrameRate(stream.RFrameRate); ok {
				info.FPS = fps
			}
		case "audio":
			if rate, err := strconv.Atoi(stream.SampleRate); err == nil && rate > 0 {
				info.SampleRate = rate
			}
		}
	}

	return info, nil
}

// parseFrameRate parses ffprobe's rational frame rate, e.g. "30/1" or
// "30000/1001".
func parseFrameRate(s string) (float64, bool) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// FileFormat returns the normalized container format for a path,
// derived from its extension. m4v is the one alias that needs
// renaming; everything else maps to itself.
func FileFormat(path string) string {
	suffix := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if suffix == "m4v" {
		return "mp4"
	}
	return suffix
}

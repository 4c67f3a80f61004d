package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/subtitle"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// audioExtensions are handed to the transcription and enhancement
// services as-is; anything else goes through an audio extraction pass.
var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".aac":  true,
}

func isAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// requireFile is the common existence check for caller-supplied paths.
func requireFile(path string) error {
	if path == "" {
		return errdefs.Planning("file_path is required")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errdefs.IO("file not found: %s", path)
		}
		return errdefs.Wrap(errdefs.KindIO, err, "stat %s", path)
	}
	return nil
}

// stem is the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// styleName normalizes a tool-facing subtitle style name; dynamic is
// the default.
func styleName(s string) string {
	if strings.EqualFold(s, "simple") {
		return "simple"
	}
	return "dynamic"
}

func textStyle(s string) timeline.TextStyle {
	if styleName(s) == "simple" {
		return timeline.DefaultTextStyle()
	}
	return timeline.DynamicTextStyle()
}

func toTextLines(lines []subtitle.Line) []timeline.TextLine {
	out := make([]timeline.TextLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, timeline.TextLine{Start: l.Start, End: l.End, Text: l.Text})
	}
	return out
}

// recordEdit appends to the edit history. History is advisory: a write
// failure is logged and the edit stands.
func (p *implPipeline) recordEdit(ctx context.Context, project, operation string, stats any) {
	if err := p.history.Append(ctx, project, operation, stats); err != nil {
		p.logger.Warn(ctx, "Failed to record %s in edit history: %v", operation, err)
	}
}

package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

// CutSegment stream-copies [start, end) seconds of inputPath. Seeking
// before the input is fast but snaps to the previous keyframe, the
// accepted tradeoff for lossless cutting.
func (p *implProcessor) CutSegment(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	args := []string{
		"-ss", formatSeconds(start), // Seek before the input (fast)
		"-i", inputPath,
		"-t", formatSeconds(end - start),
		"-c", "copy",
		"-y",
		outputPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg cut segment %.2f-%.2f: %w", start, end, err)
	}
	return nil
}

// formatSeconds renders a time offset the way ffmpeg expects, without
// exponent notation for very small values.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// Concat joins the segments into outputPath. A single segment is
// plainly copied. Multiple segments go through the concat demuxer
// (stream copy); when the demuxer refuses the inputs the re-encoding
// concat filter is tried before giving up.
func (p *implProcessor) Concat(ctx context.Context, segmentPaths []string, outputPath string) error {
	if len(segmentPaths) == 0 {
		return errdefs.Apply("no segments to concatenate")
	}
	if len(segmentPaths) == 1 {
		return copyFile(segmentPaths[0], outputPath)
	}

	listPath, err := writeConcatList(segmentPaths)
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err == nil {
		return nil
	}

	p.logger.Warn(ctx, "Concat demuxer failed, re-encoding with the concat filter: %s", outputPath)

	if err := p.concatFilter(ctx, segmentPaths, outputPath); err != nil {
		return fmt.Errorf("ffmpeg concat segments: %w", err)
	}
	return nil
}

// writeConcatList writes the demuxer's list file. Single quotes in
// paths are escaped the ffmpeg way: close quote, escaped quote, open
// quote.
func writeConcatList(segmentPaths []string) (string, error) {
	f, err := os.CreateTemp("", "smartcut-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}

	var list strings.Builder
	for _, path := range segmentPaths {
		escaped := strings.ReplaceAll(path, "'", `'\''`)
		fmt.Fprintf(&list, "file '%s'\n", escaped)
	}

	if _, err := f.WriteString(list.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write concat list: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close concat list: %w", err)
	}
	return f.Name(), nil
}

// concatFilter re-encodes the segments through the concat filter,
// which tolerates mismatched stream parameters.
func (p *implProcessor) concatFilter(ctx context.Context, segmentPaths []string, outputPath string) error {
	var args []string
	var filter strings.Builder
	for i, path := range segmentPaths {
		args = append(args, "-i", path)
		fmt.Fprintf(&filter, "[%d:v][%d:a]", i, i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=1[outv][outa]", len(segmentPaths))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[outv]",
		"-map", "[outa]",
		"-y",
		outputPath,
	)

	_, err := p.executor.Execute(ctx, "ffmpeg", args...)
	return err
}

// ExportCut cuts every kept range out of sourcePath and joins the
// pieces into outputPath. Cuts run in parallel, bounded by the
// processor's concurrency limit; segment files live in a throwaway
// directory so a failed export leaves nothing behind.
func (p *implProcessor) ExportCut(ctx context.Context, sourcePath, outputPath string, kept []cutplan.Segment) error {
	if len(kept) == 0 {
		return errdefs.Apply("cut plan has no kept segments to export")
	}

	tempDir, err := os.MkdirTemp("", "smartcut-export-*")
	if err != nil {
		return fmt.Errorf("create export temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	p.logger.Info(ctx, "Exporting %d kept segments from %s", len(kept), sourcePath)

	suffix := filepath.Ext(sourcePath)
	segmentPaths := make([]string, len(kept))
	for i := range kept {
		segmentPaths[i] = filepath.Join(tempDir, fmt.Sprintf("segment_%04d%s", i, suffix))
	}

	sem := make(chan struct{}, p.maxConcurrent)
	errs := make([]error, len(kept))
	var wg sync.WaitGroup
	for i, seg := range kept {
		wg.Add(1)
		go func(i int, seg cutplan.Segment) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }() // Release slot
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			errs[i] = p.CutSegment(ctx, sourcePath, segmentPaths[i], seg.Start, seg.End)
		}(i, seg)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("cut kept segment: %w", err)
		}
	}

	if err := p.Concat(ctx, segmentPaths, outputPath); err != nil {
		return err
	}

	p.logger.Info(ctx, "Export finished: %s", outputPath)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

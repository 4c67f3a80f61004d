// Package subtitle turns word-level transcripts into subtitle lines and
// SRT documents. Timestamps can be remapped through a cut plan first so
// lines land on the edited timeline rather than the raw recording's.
package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

const (
	// DefaultMaxWords caps words per subtitle line.
	DefaultMaxWords = 8
	// DefaultMaxChars caps characters per subtitle line, counted in
	// runes so accented scripts aren't cut short.
	DefaultMaxChars = 45
)

// Line is one subtitle with its place on the timeline, in seconds.
// AccentWords carries emphasis picks for styled rendering; it stays
// empty for plain subtitles.
type Line struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Text        string   `json:"text"`
	AccentWords []string `json:"accent_words,omitempty"`
}

// MapWords shifts word timestamps from source time onto the edited
// timeline described by the kept segments, in order. A word belongs to
// the kept segment containing its start; its end is clamped to the
// segment so a word trailing over a cut doesn't bleed into the next
// line. Words inside removed ranges are dropped.
func MapWords(words []transcript.Word, kept []cutplan.Segment) []transcript.Word {
	var out []transcript.Word
	var offset float64

	for _, seg := range kept {
		length := seg.End - seg.Start
		for _, w := range words {
			if w.Start < seg.Start || w.Start >= seg.End {
				continue
			}
			relStart := w.Start - seg.Start
			relEnd := math.Min(w.End-seg.Start, length)
			out = append(out, transcript.Word{
				Word:  w.Word,
				Start: offset + relStart,
				End:   offset + relEnd,
			})
		}
		offset += length
	}

	return out
}

// Group packs words into lines, breaking before a word would push the
// line past maxWords or maxChars. Zero or negative limits fall back to
// the defaults.
func Group(words []transcript.Word, maxWords, maxChars int) []Line {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if len(words) == 0 {
		return nil
	}

	var lines []Line
	var current []transcript.Word
	var text string

	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, Line{
			Start: current[0].Start,
			End:   current[len(current)-1].End,
			Text:  text,
		})
		current = nil
		text = ""
	}

	for _, w := range words {
		wordText := strings.TrimSpace(w.Word)
		candidate := strings.TrimSpace(text + " " + wordText)
		if len(current) > 0 &&
			(len(current) >= maxWords || utf8.RuneCountInString(candidate) > maxChars) {
			flush()
			candidate = wordText
		}
		current = append(current, w)
		text = candidate
	}
	flush()

	return lines
}

// Build maps words through the kept segments and groups the result.
func Build(words []transcript.Word, kept []cutplan.Segment, maxWords, maxChars int) []Line {
	return Group(MapWords(words, kept), maxWords, maxChars)
}

// FormatTimestamp renders seconds as an SRT timestamp, HH:MM:SS,mmm.
// Components truncate rather than round.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds / 3600)
	m := int(math.Mod(seconds, 3600) / 60)
	s := int(math.Mod(seconds, 60))
	ms := int(math.Mod(seconds, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp parses an SRT timestamp, HH:MM:SS,mmm. A dot decimal
// separator is accepted too.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}
	sec, err := strconv.ParseFloat(strings.Replace(parts[2], ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}
	return float64(h)*3600 + float64(m)*60 + sec, nil
}

// ParseSRT reads subtitle lines back out of an SRT document. Cue
// numbers are ignored, multi-line cue text joins with spaces, and
// malformed blocks are skipped rather than failing the whole file.
func ParseSRT(data string) []Line {
	var lines []Line

	normalized := strings.ReplaceAll(data, "\r\n", "\n")
	for _, block := range strings.Split(normalized, "\n\n") {
		rows := strings.Split(strings.TrimSpace(block), "\n")
		if len(rows) < 3 {
			continue
		}
		startRaw, endRaw, ok := strings.Cut(rows[1], " --> ")
		if !ok {
			continue
		}
		start, err := ParseTimestamp(startRaw)
		if err != nil {
			continue
		}
		end, err := ParseTimestamp(endRaw)
		if err != nil {
			continue
		}
		lines = append(lines, Line{
			Start: start,
			End:   end,
			Text:  strings.Join(rows[2:], " "),
		})
	}

	return lines
}

// RenderSRT produces the full SRT document for the lines, cues numbered
// from 1 and separated by blank lines.
func RenderSRT(lines []Line) string {
	var parts []string
	for i, line := range lines {
		parts = append(parts,
			fmt.Sprintf("%d", i+1),
			FormatTimestamp(line.Start)+" --> "+FormatTimestamp(line.End),
			line.Text,
			"")
	}
	return strings.Join(parts, "\n")
}

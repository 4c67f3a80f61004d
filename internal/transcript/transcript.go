// Package transcript holds the normalized word/segment representation of
// spoken content with timestamps, as produced by the transcription
// service.
package transcript

import "strings"

// Word is a single spoken word with source timestamps in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a phrase-level piece of transcription, usually a sentence.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// Transcript is a complete transcription result.
type Transcript struct {
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// AllWords returns a flat list of all words across all segments.
func (t *Transcript) AllWords() []Word {
	var words []Word
	for _, seg := range t.Segments {
		words = append(words, seg.Words...)
	}
	return words
}

// FullText joins all segment texts into one string.
func (t *Transcript) FullText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// Paragraph is a maximal run of transcript segments with no internal
// gap of at least the silence threshold.
type Paragraph struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Paragraphs partitions the transcript's segments into paragraphs.
// A gap of silenceThreshold seconds or more between consecutive
// segments starts a new paragraph.
func (t *Transcript) Paragraphs(silenceThreshold float64) []Paragraph {
	if len(t.Segments) == 0 {
		return nil
	}

	var paragraphs []Paragraph
	var texts []string
	start := t.Segments[0].Start
	end := t.Segments[0].End

	flush := func() {
		paragraphs = append(paragraphs, Paragraph{
			ID:    len(paragraphs),
			Start: start,
			End:   end,
			Text:  strings.Join(texts, " "),
		})
		texts = nil
	}

	for i, seg := range t.Segments {
		if i > 0 && seg.Start-end >= silenceThreshold {
			flush()
			start = seg.Start
		}
		texts = append(texts, seg.Text)
		end = seg.End
	}
	flush()

	return paragraphs
}

// DuplicateGroup is a set of paragraphs judged to be takes of the same
// content. Block IDs are paragraph indices; Keep and Remove carry the
// classifier's own suggestion, though the plan builder re-derives the
// kept take as the temporally last member.
type DuplicateGroup struct {
	BlockIDs []int  `json:"block_ids"`
	Keep     int    `json:"keep"`
	Remove   []int  `json:"remove"`
	Reason   string `json:"reason"`
}

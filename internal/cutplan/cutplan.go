// Package cutplan derives an ordered plan of source time ranges to keep
// or drop from a transcript plus duplicate-take hints. The resulting
// plan partitions the full source duration: dropped ranges are
// represented alongside kept ones so every cut decision stays
// auditable.
package cutplan

import (
	"fmt"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

const (
	DefaultSilenceThreshold   = 3.0
	DefaultMinSegmentDuration = 0.5
)

// Reason explains why a plan segment is kept or dropped.
type Reason string

const (
	ReasonKept      Reason = "kept"
	ReasonPause     Reason = "pause"
	ReasonDuplicate Reason = "duplicate"
)

// Segment is one interval of the source recording. Segments of a plan
// are ordered, non-overlapping and cover the source duration without
// gaps.
type Segment struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Kept      bool    `json:"kept"`
	Reason    Reason  `json:"reason"`
	StartWord string  `json:"start_word,omitempty"`
	EndWord   string  `json:"end_word,omitempty"`
}

func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Stats summarizes a plan.
type Stats struct {
	OriginalDuration  float64 `json:"original_duration"`
	KeptDuration      float64 `json:"kept_duration"`
	RemovedDuration   float64 `json:"removed_duration"`
	DuplicatesRemoved int     `json:"duplicates_removed"`
	SilencesRemoved   int     `json:"silences_removed"`
}

func (s Stats) OriginalDurationFormatted() string {
	return FormatDuration(s.OriginalDuration)
}

func (s Stats) KeptDurationFormatted() string {
	return FormatDuration(s.KeptDuration)
}

func (s Stats) TimeSavedFormatted() string {
	return FormatDuration(s.RemovedDuration)
}

// FormatDuration renders seconds as M:SS.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

const (
	ActionKeep   = "keep"
	ActionRemove = "remove"
)

// Paragraph is a transcript paragraph annotated with the cut decision
// taken for it. GroupID is the id of the kept take when the paragraph
// belongs to a duplicate group, -1 otherwise.
type Paragraph struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Action  string  `json:"action"`
	Reason  string  `json:"reason"`
	GroupID int     `json:"group_id"`
}

// Plan is the full cut decision for one source recording.
type Plan struct {
	Paragraphs []Paragraph `json:"paragraphs"`
	Segments   []Segment   `json:"segments"`
	Stats      Stats       `json:"stats"`
}

// KeptSegments returns the kept intervals in order.
func (p *Plan) KeptSegments() []Segment {
	var kept []Segment
	for _, s := range p.Segments {
		if s.Kept {
			kept = append(kept, s)
		}
	}
	return kept
}

// RemovedSegments returns the dropped intervals in order.
func (p *Plan) RemovedSegments() []Segment {
	var removed []Segment
	for _, s := range p.Segments {
		if !s.Kept {
			removed = append(removed, s)
		}
	}
	return removed
}

type Options struct {
	SilenceThreshold   float64
	MinSegmentDuration float64
	// SourceDuration is the probed duration of the source file. When
	// zero the transcript's own duration is used. The plan always spans
	// the full source so trailing silence past the last word is dropped
	// too.
	SourceDuration float64
}

// Build derives a cut plan from the transcript and duplicate groups.
//
// Paragraphs are split on silences of at least the threshold. Every
// inter-paragraph gap becomes a dropped pause segment; leading and
// trailing silence is dropped regardless of length. In each duplicate
// group all takes except the temporally last are dropped. Kept
// intervals shorter than the minimum segment duration are merged into
// an adjacent contiguous kept interval when possible, otherwise
// dropped.
func Build(t *transcript.Transcript, groups []transcript.DuplicateGroup, opts Options) (*Plan, error) {
	if len(t.Segments) == 0 {
		return nil, errdefs.Planning("transcript has no segments")
	}
	if opts.SilenceThreshold <= 0 {
		opts.SilenceThreshold = DefaultSilenceThreshold
	}
	if opts.MinSegmentDuration <= 0 {
		opts.MinSegmentDuration = DefaultMinSegmentDuration
	}

	for i := 1; i < len(t.Segments); i++ {
		if t.Segments[i].Start < t.Segments[i-1].End {
			return nil, errdefs.Planning("transcript segments are not ordered: segment %d starts at %.2fs before segment %d ends at %.2fs",
				t.Segments[i].ID, t.Segments[i].Start, t.Segments[i-1].ID, t.Segments[i-1].End)
		}
	}

	paragraphs := t.Paragraphs(opts.SilenceThreshold)

	annotated, err := annotate(paragraphs, groups)
	if err != nil {
		return nil, err
	}

	duration := opts.SourceDuration
	if duration <= 0 {
		duration = t.Duration
	}
	if last := paragraphs[len(paragraphs)-1].End; duration < last {
		duration = last
	}

	intervals := assemble(annotated, duration)
	intervals = enforceMinDuration(intervals, opts.MinSegmentDuration)

	words := t.AllWords()
	segments := make([]Segment, 0, len(intervals))
	stats := Stats{OriginalDuration: duration}

	for _, iv := range intervals {
		seg := Segment{Start: iv.start, End: iv.end, Kept: iv.kept, Reason: iv.reason}
		if iv.kept {
			seg.StartWord, seg.EndWord = boundaryWords(words, iv.start, iv.end)
			stats.KeptDuration += seg.Duration()
		} else {
			stats.RemovedDuration += seg.Duration()
			switch iv.reason {
			case ReasonDuplicate:
				stats.DuplicatesRemoved++
			case ReasonPause:
				stats.SilencesRemoved++
			}
		}
		segments = append(segments, seg)
	}

	return &Plan{
		Paragraphs: annotated,
		Segments:   segments,
		Stats:      stats,
	}, nil
}

type interval struct {
	start, end float64
	kept       bool
	reason     Reason
}

// assemble turns annotated paragraphs into a gap-free interval sequence
// spanning [0, duration).
func assemble(paragraphs []Paragraph, duration float64) []interval {
	var intervals []interval
	add := func(iv interval) {
		if iv.end > iv.start {
			intervals = append(intervals, iv)
		}
	}

	cursor := 0.0
	for _, p := range paragraphs {
		add(interval{start: cursor, end: p.Start, kept: false, reason: ReasonPause})
		if p.Action == ActionKeep {
			add(interval{start: p.Start, end: p.End, kept: true, reason: ReasonKept})
		} else {
			add(interval{start: p.Start, end: p.End, kept: false, reason: ReasonDuplicate})
		}
		cursor = p.End
	}
	add(interval{start: cursor, end: duration, kept: false, reason: ReasonPause})

	return intervals
}

// enforceMinDuration merges kept intervals shorter than min into an
// adjacent contiguous kept interval, or demotes them to dropped pauses.
func enforceMinDuration(intervals []interval, min float64) []interval {
	out := make([]interval, 0, len(intervals))
	for i := 0; i < len(intervals); i++ {
		iv := intervals[i]
		if iv.kept && iv.end-iv.start < min {
			if n := len(out); n > 0 && out[n-1].kept && out[n-1].end == iv.start {
				out[n-1].end = iv.end
				continue
			}
			if i+1 < len(intervals) && intervals[i+1].kept && intervals[i+1].start == iv.end {
				intervals[i+1].start = iv.start
				continue
			}
			iv.kept = false
			iv.reason = ReasonPause
		}
		out = append(out, iv)
	}
	return out
}

// annotate marks each paragraph keep or remove based on the duplicate
// groups. Within a group the temporally last take wins; a tie on start
// time keeps the paragraph with the higher index.
func annotate(paragraphs []transcript.Paragraph, groups []transcript.DuplicateGroup) ([]Paragraph, error) {
	out := make([]Paragraph, len(paragraphs))
	for i, p := range paragraphs {
		out[i] = Paragraph{
			ID:      p.ID,
			Start:   p.Start,
			End:     p.End,
			Text:    p.Text,
			Action:  ActionKeep,
			GroupID: -1,
		}
	}

	grouped := make(map[int]bool)
	for gi, g := range groups {
		if len(g.BlockIDs) < 2 {
			return nil, errdefs.Planning("duplicate group %d has %d members, need at least 2", gi, len(g.BlockIDs))
		}

		keep := -1
		for _, id := range g.BlockIDs {
			if id < 0 || id >= len(paragraphs) {
				return nil, errdefs.Planning("duplicate group %d references paragraph %d, transcript has %d paragraphs", gi, id, len(paragraphs))
			}
			if grouped[id] {
				return nil, errdefs.Planning("paragraph %d appears in more than one duplicate group", id)
			}
			grouped[id] = true
			if keep == -1 || laterTake(paragraphs[id], paragraphs[keep]) {
				keep = id
			}
		}

		for _, id := range g.BlockIDs {
			out[id].GroupID = keep
			if id == keep {
				out[id].Reason = "best_take"
				continue
			}
			out[id].Action = ActionRemove
			out[id].Reason = "duplicate_take"
			if g.Reason != "" {
				out[id].Reason = "duplicate_take: " + g.Reason
			}
		}
	}

	return out, nil
}

func laterTake(a, b transcript.Paragraph) bool {
	if a.Start != b.Start {
		return a.Start > b.Start
	}
	return a.ID > b.ID
}

// boundaryWords returns the first and last word spoken inside the
// interval, for human inspection of the plan.
func boundaryWords(words []transcript.Word, start, end float64) (string, string) {
	first, last := "", ""
	for _, w := range words {
		if w.Start < start || w.Start > end {
			continue
		}
		if first == "" {
			first = w.Word
		}
		last = w.Word
	}
	return first, last
}

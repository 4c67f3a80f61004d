package timeline

import (
	"math"
	"sort"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

// applyTolerance bounds how far a plan's source coverage may drift from
// the material's recorded duration before apply refuses to proceed, in
// seconds. Probed media durations and transcript durations disagree by
// a frame or two; half a second means the plan was built for different
// footage.
const applyTolerance = 0.5

// ApplyCutPlan rewrites every track that references materialID so it
// plays only the plan's kept ranges, back to back. Each existing
// segment is intersected with the kept ranges in source time; every
// non-empty intersection becomes one new segment placed at a running
// target cursor, so the rewritten track is contiguous and ordered by
// construction. Segments whose source range is cut away entirely are
// dropped from the track; their material stays in the pool untouched.
// Tracks that never reference materialID, text tracks included, are
// left as they are.
func (p *Project) ApplyCutPlan(plan *cutplan.Plan, materialID string) error {
	if p.Content == nil || p.Content.Materials == nil {
		return errdefs.Apply("project has no materials")
	}
	material := p.Content.Materials.FindVideo(materialID)
	if material == nil {
		return errdefs.Apply("material %q not found in project", materialID)
	}
	if len(plan.Segments) == 0 {
		return errdefs.Apply("cut plan has no segments")
	}

	coverage := plan.Segments[len(plan.Segments)-1].End
	materialSec := Seconds(material.Duration)
	if math.Abs(coverage-materialSec) > applyTolerance {
		return errdefs.Apply("cut plan covers %.2fs of source but material %q lasts %.2fs",
			coverage, materialID, materialSec)
	}

	kept := make([]TimeRange, 0, len(plan.Segments))
	for _, s := range plan.KeptSegments() {
		start := Micros(s.Start)
		end := Micros(s.End)
		if end <= start {
			continue
		}
		kept = append(kept, TimeRange{Start: start, Duration: end - start})
	}

	for _, track := range p.Content.Tracks {
		if !track.References(materialID) {
			continue
		}
		if err := retimeTrack(track, materialID, kept); err != nil {
			return err
		}
	}

	p.RecomputeDuration()
	return nil
}

// retimeTrack rebuilds one track's segment list against the kept
// ranges. Segments referencing other materials on the same track ride
// the ripple: they keep their full source range but are repacked at
// the cursor so the track stays gap-free.
func retimeTrack(track *Track, materialID string, kept []TimeRange) error {
	segments := make([]*Segment, len(track.Segments))
	copy(segments, track.Segments)
	sort.SliceStable(segments, func(i, j int) bool {
		var a, b int64
		if segments[i].TargetRange != nil {
			a = segments[i].TargetRange.Start
		}
		if segments[j].TargetRange != nil {
			b = segments[j].TargetRange.Start
		}
		return a < b
	})

	var cursor int64
	if len(segments) > 0 && segments[0].TargetRange != nil {
		cursor = segments[0].TargetRange.Start
	}

	out := make([]*Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.SourceRange == nil || seg.TargetRange == nil {
			return errdefs.Apply("segment %q on track %q is missing a time range", seg.ID, track.ID)
		}

		if seg.MaterialID != materialID {
			seg.TargetRange = NewTimeRange(cursor, seg.TargetRange.Duration)
			cursor += seg.TargetRange.Duration
			out = append(out, seg)
			continue
		}

		for _, keep := range kept {
			start := max(seg.SourceRange.Start, keep.Start)
			end := min(seg.SourceRange.End(), keep.End())
			if end <= start {
				continue
			}
			clone, err := seg.Clone()
			if err != nil {
				return errdefs.Wrap(errdefs.KindApply, err, "clone segment %q", seg.ID)
			}
			clone.ID = NewToken()
			clone.SourceRange = NewTimeRange(start, end-start)
			clone.TargetRange = NewTimeRange(cursor, end-start)
			cursor += end - start
			out = append(out, clone)
		}
	}

	track.Segments = out
	return nil
}

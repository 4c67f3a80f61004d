package timeline

import "fmt"

// Violation kinds reported by Validate.
const (
	ViolationDuplicateID         = "duplicate_id"
	ViolationUnresolvedReference = "unresolved_reference"
	ViolationMissingRange        = "missing_range"
	ViolationNegativeRange       = "negative_range"
	ViolationTargetOverlap       = "target_overlap"
	ViolationSourceOutOfBounds   = "source_out_of_bounds"
)

// Violation is a structural problem found in a project document.
// Violations are findings, not errors: a draft that CapCut itself
// mangled should still load for inspection, and callers decide which
// kinds they can tolerate.
type Violation struct {
	Kind    string
	Entity  string // id of the offending material, segment or track
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s]: %s", v.Kind, v.Entity, v.Message)
}

// Validate checks the invariants the cut applier depends on: unique
// ids, resolvable material references on video and text tracks, well
// formed time ranges, and per-track target ranges that are ordered and
// non-overlapping. Segments on track types the engine does not model
// reference opaque material kinds, so their references are not checked.
func (c *Content) Validate() []Violation {
	var out []Violation

	videos := map[string]*VideoMaterial{}
	texts := map[string]*TextMaterial{}
	seen := map[string]bool{}

	if c.Materials != nil {
		for _, m := range c.Materials.Videos {
			if seen[m.ID] {
				out = append(out, Violation{
					Kind:    ViolationDuplicateID,
					Entity:  m.ID,
					Message: "material id used more than once",
				})
			}
			seen[m.ID] = true
			videos[m.ID] = m
			if m.Duration < 0 {
				out = append(out, Violation{
					Kind:    ViolationNegativeRange,
					Entity:  m.ID,
					Message: fmt.Sprintf("video material has negative duration %d", m.Duration),
				})
			}
		}
		for _, m := range c.Materials.Texts {
			if seen[m.ID] {
				out = append(out, Violation{
					Kind:    ViolationDuplicateID,
					Entity:  m.ID,
					Message: "material id used more than once",
				})
			}
			seen[m.ID] = true
			texts[m.ID] = m
		}
	}

	for _, track := range c.Tracks {
		if seen[track.ID] {
			out = append(out, Violation{
				Kind:    ViolationDuplicateID,
				Entity:  track.ID,
				Message: "track id used more than once",
			})
		}
		seen[track.ID] = true

		modeled := track.Type == TrackVideo || track.Type == TrackText

		var prevEnd int64
		var prevID string
		for i, seg := range track.Segments {
			if seen[seg.ID] {
				out = append(out, Violation{
					Kind:    ViolationDuplicateID,
					Entity:  seg.ID,
					Message: "segment id used more than once",
				})
			}
			seen[seg.ID] = true

			if modeled {
				_, isVideo := videos[seg.MaterialID]
				_, isText := texts[seg.MaterialID]
				if !isVideo && !isText {
					out = append(out, Violation{
						Kind:    ViolationUnresolvedReference,
						Entity:  seg.ID,
						Message: fmt.Sprintf("segment references unknown material %q", seg.MaterialID),
					})
				}
			}

			if seg.SourceRange == nil || seg.TargetRange == nil {
				out = append(out, Violation{
					Kind:    ViolationMissingRange,
					Entity:  seg.ID,
					Message: "segment is missing a source or target range",
				})
				continue
			}
			if seg.SourceRange.Start < 0 || seg.SourceRange.Duration <= 0 ||
				seg.TargetRange.Start < 0 || seg.TargetRange.Duration <= 0 {
				out = append(out, Violation{
					Kind:    ViolationNegativeRange,
					Entity:  seg.ID,
					Message: "segment has a negative start or non-positive duration",
				})
				continue
			}

			if m, ok := videos[seg.MaterialID]; ok && m.Duration > 0 {
				if seg.SourceRange.End() > m.Duration {
					out = append(out, Violation{
						Kind:   ViolationSourceOutOfBounds,
						Entity: seg.ID,
						Message: fmt.Sprintf("source range ends at %d, past material %q duration %d",
							seg.SourceRange.End(), seg.MaterialID, m.Duration),
					})
				}
			}

			if i > 0 && seg.TargetRange.Start < prevEnd {
				out = append(out, Violation{
					Kind:   ViolationTargetOverlap,
					Entity: seg.ID,
					Message: fmt.Sprintf("target range starts at %d, before segment %q ends at %d",
						seg.TargetRange.Start, prevID, prevEnd),
				})
			}
			prevEnd = seg.TargetRange.End()
			prevID = seg.ID
		}
	}

	return out
}

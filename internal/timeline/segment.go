package timeline

import "encoding/json"

// Segment places a time slice of a material onto a track. The clip
// geometry, render flags and the rest of CapCut's per-segment record
// stay opaque; the applier only rewrites identity and time ranges.
type Segment struct {
	ID          string     `json:"id"`
	MaterialID  string     `json:"material_id"`
	SourceRange *TimeRange `json:"source_timerange"`
	TargetRange *TimeRange `json:"target_timerange"`

	extra map[string]json.RawMessage
}

var segmentKnown = []string{"id", "material_id", "source_timerange", "target_timerange"}

func (s *Segment) UnmarshalJSON(data []byte) error {
	type plain Segment
	var p plain
	raw, err := extractKnown(data, &p, segmentKnown)
	if err != nil {
		return err
	}
	*s = Segment(p)
	s.extra = raw
	return nil
}

func (s *Segment) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"id":          s.ID,
		"material_id": s.MaterialID,
	}
	if s.SourceRange != nil {
		known["source_timerange"] = s.SourceRange
	}
	if s.TargetRange != nil {
		known["target_timerange"] = s.TargetRange
	}
	out, err := mergeKnown(s.extra, known)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// Clone deep-copies the segment, opaque fields included. Used when an
// existing segment serves as the template for cut output segments so
// clip geometry and render settings carry over.
func (s *Segment) Clone() (*Segment, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var c Segment
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

package timeline

import "encoding/json"

const (
	TrackVideo = "video"
	TrackAudio = "audio"
	TrackText  = "text"
)

// Track is an ordered lane of segments of one kind.
type Track struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Segments []*Segment `json:"segments"`

	extra map[string]json.RawMessage
}

var trackKnown = []string{"id", "type", "segments"}

func (t *Track) UnmarshalJSON(data []byte) error {
	type plain Track
	var p plain
	raw, err := extractKnown(data, &p, trackKnown)
	if err != nil {
		return err
	}
	*t = Track(p)
	t.extra = raw
	return nil
}

func (t *Track) MarshalJSON() ([]byte, error) {
	segments := t.Segments
	if segments == nil {
		segments = []*Segment{}
	}
	out, err := mergeKnown(t.extra, map[string]any{
		"id":       t.ID,
		"type":     t.Type,
		"segments": segments,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// newTrack builds an empty track with CapCut's default flags.
func newTrack(kind string) *Track {
	return &Track{
		ID:   NewToken(),
		Type: kind,
		extra: map[string]json.RawMessage{
			"attribute":       json.RawMessage("0"),
			"flag":            json.RawMessage("0"),
			"is_default_name": json.RawMessage("true"),
			"name":            json.RawMessage(`""`),
		},
	}
}

// MaxTargetEnd returns the largest target end time on the track.
func (t *Track) MaxTargetEnd() int64 {
	var max int64
	for _, s := range t.Segments {
		if s.TargetRange == nil {
			continue
		}
		if end := s.TargetRange.End(); end > max {
			max = end
		}
	}
	return max
}

// References reports whether any segment on the track uses the
// material.
func (t *Track) References(materialID string) bool {
	for _, s := range t.Segments {
		if s.MaterialID == materialID {
			return true
		}
	}
	return false
}

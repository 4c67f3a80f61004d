package timeline

import (
	"bytes"
	"encoding/json"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

// CanvasConfig is the project's output geometry.
type CanvasConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ratio  string `json:"ratio"`
}

// Content is the draft content document: the full editing state of one
// project. All time fields are integer microseconds.
type Content struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Duration     int64         `json:"duration"`
	CreateTime   int64         `json:"create_time"`
	UpdateTime   int64         `json:"update_time"`
	CanvasConfig *CanvasConfig `json:"canvas_config"`
	Materials    *Materials    `json:"materials"`
	Tracks       []*Track      `json:"tracks"`

	extra map[string]json.RawMessage
}

var contentKnown = []string{
	"id", "name", "duration", "create_time", "update_time",
	"canvas_config", "materials", "tracks",
}

func (c *Content) UnmarshalJSON(data []byte) error {
	type plain Content
	var p plain
	raw, err := extractKnown(data, &p, contentKnown)
	if err != nil {
		return err
	}
	*c = Content(p)
	c.extra = raw
	return nil
}

func (c *Content) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"id":       c.ID,
		"name":     c.Name,
		"duration": c.Duration,
	}
	if c.CreateTime != 0 {
		known["create_time"] = c.CreateTime
	}
	if c.UpdateTime != 0 {
		known["update_time"] = c.UpdateTime
	}
	if c.CanvasConfig != nil {
		known["canvas_config"] = c.CanvasConfig
	}
	if c.Materials != nil {
		known["materials"] = c.Materials
	}
	if c.Tracks != nil {
		known["tracks"] = c.Tracks
	}
	out, err := mergeKnown(c.extra, known)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// ParseContent decodes a draft content document.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errdefs.Wrap(errdefs.KindFormat, err, "parse content document")
	}
	return &c, nil
}

// Serialize encodes the document with the formatting CapCut itself
// uses: two-space indent, unescaped non-ASCII.
func (c *Content) Serialize() ([]byte, error) {
	return serializeDocument(c)
}

func serializeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errdefs.Wrap(errdefs.KindFormat, err, "serialize document")
	}
	return buf.Bytes(), nil
}

// FirstTrack returns the first track of the given kind, or nil.
func (c *Content) FirstTrack(kind string) *Track {
	for _, t := range c.Tracks {
		if t.Type == kind {
			return t
		}
	}
	return nil
}

func (c *Content) VideoTrack() *Track {
	return c.FirstTrack(TrackVideo)
}

func (c *Content) TextTrack() *Track {
	return c.FirstTrack(TrackText)
}

// MaxTargetEnd returns the largest target end time across all tracks,
// which is the timeline duration.
func (c *Content) MaxTargetEnd() int64 {
	var max int64
	for _, t := range c.Tracks {
		if end := t.MaxTargetEnd(); end > max {
			max = end
		}
	}
	return max
}

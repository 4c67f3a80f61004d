package timeline

import "encoding/json"

// VideoMaterial is a video (or image) asset referenced by segments.
// Only the fields the engine reads are typed; the rest of CapCut's
// material record rides along opaquely.
type VideoMaterial struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Duration int64  `json:"duration"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`

	extra map[string]json.RawMessage
}

var videoMaterialKnown = []string{"id", "path", "duration", "width", "height"}

func (m *VideoMaterial) UnmarshalJSON(data []byte) error {
	type plain VideoMaterial
	var p plain
	raw, err := extractKnown(data, &p, videoMaterialKnown)
	if err != nil {
		return err
	}
	*m = VideoMaterial(p)
	m.extra = raw
	return nil
}

func (m *VideoMaterial) MarshalJSON() ([]byte, error) {
	out, err := mergeKnown(m.extra, map[string]any{
		"id":       m.ID,
		"path":     m.Path,
		"duration": m.Duration,
		"width":    m.Width,
		"height":   m.Height,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// TextMaterial is a text asset. Content is CapCut's nested JSON string
// carrying the rendered text and per-range styling.
type TextMaterial struct {
	ID      string `json:"id"`
	Content string `json:"content"`

	extra map[string]json.RawMessage
}

var textMaterialKnown = []string{"id", "content"}

func (m *TextMaterial) UnmarshalJSON(data []byte) error {
	type plain TextMaterial
	var p plain
	raw, err := extractKnown(data, &p, textMaterialKnown)
	if err != nil {
		return err
	}
	*m = TextMaterial(p)
	m.extra = raw
	return nil
}

func (m *TextMaterial) MarshalJSON() ([]byte, error) {
	out, err := mergeKnown(m.extra, map[string]any{
		"id":      m.ID,
		"content": m.Content,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// Text extracts the plain text from the material's content blob.
// Returns the empty string when the blob cannot be parsed.
func (m *TextMaterial) Text() string {
	var content struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(m.Content), &content); err != nil {
		return ""
	}
	return content.Text
}

// Materials is the project's asset store, keyed by kind. CapCut keeps
// some forty collections here; only videos and texts are typed.
type Materials struct {
	Videos []*VideoMaterial `json:"videos"`
	Texts  []*TextMaterial  `json:"texts"`

	extra map[string]json.RawMessage
}

var materialsKnown = []string{"videos", "texts"}

func (m *Materials) UnmarshalJSON(data []byte) error {
	type plain Materials
	var p plain
	raw, err := extractKnown(data, &p, materialsKnown)
	if err != nil {
		return err
	}
	*m = Materials(p)
	m.extra = raw
	return nil
}

func (m *Materials) MarshalJSON() ([]byte, error) {
	known := map[string]any{}
	if m.Videos != nil {
		known["videos"] = m.Videos
	}
	if m.Texts != nil {
		known["texts"] = m.Texts
	}
	out, err := mergeKnown(m.extra, known)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// FindVideo resolves a video material by id. Segment material
// references are weak: a nil result is a validation finding, not a
// crash.
func (m *Materials) FindVideo(id string) *VideoMaterial {
	for _, v := range m.Videos {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// FindVideoByPath resolves a video material by its source file path.
func (m *Materials) FindVideoByPath(path string) *VideoMaterial {
	for _, v := range m.Videos {
		if v.Path == path {
			return v
		}
	}
	return nil
}

// FindText resolves a text material by id.
func (m *Materials) FindText(id string) *TextMaterial {
	for _, t := range m.Texts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

package timeline

import (
	"encoding/json"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
)

// Meta is the draft metadata document: display name, timestamps and
// the duration CapCut shows in its project list.
type Meta struct {
	DraftID       string `json:"draft_id"`
	DraftName     string `json:"draft_name"`
	DraftRootPath string `json:"draft_root_path"`
	CreateTime    int64  `json:"tm_draft_create"`
	ModifiedTime  int64  `json:"tm_draft_modified"`
	Duration      int64  `json:"tm_duration"`

	extra map[string]json.RawMessage
}

var metaKnown = []string{
	"draft_id", "draft_name", "draft_root_path",
	"tm_draft_create", "tm_draft_modified", "tm_duration",
}

func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	var p plain
	raw, err := extractKnown(data, &p, metaKnown)
	if err != nil {
		return err
	}
	*m = Meta(p)
	m.extra = raw
	return nil
}

func (m *Meta) MarshalJSON() ([]byte, error) {
	out, err := mergeKnown(m.extra, map[string]any{
		"draft_id":          m.DraftID,
		"draft_name":        m.DraftName,
		"draft_root_path":   m.DraftRootPath,
		"tm_draft_create":   m.CreateTime,
		"tm_draft_modified": m.ModifiedTime,
		"tm_duration":       m.Duration,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// ParseMeta decodes a draft metadata document.
func ParseMeta(data []byte) (*Meta, error) {
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errdefs.Wrap(errdefs.KindFormat, err, "parse metadata document")
	}
	return &m, nil
}

func (m *Meta) Serialize() ([]byte, error) {
	return serializeDocument(m)
}

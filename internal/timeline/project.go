package timeline

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"time"
)

// Project pairs the two documents that make up a draft on disk. Meta
// may be nil while building a fresh project before first save.
type Project struct {
	Content *Content
	Meta    *Meta
}

// contentDefaults is every top-level field CapCut writes into a fresh
// draft besides the ones the engine types explicitly. Values are kept
// as raw JSON so literals like fps 30.0 survive exactly.
var contentDefaults = map[string]string{
	"color_space":                "0",
	"config":                     `{"adjust_max_index":1,"attachment_info":[],"combination_max_index":1,"export_range":null,"extract_audio_last_index":1,"lyrics_recognition_id":"","lyrics_sync":true,"lyrics_taskinfo":[],"maintrack_adsorb":true,"material_save_mode":0,"multi_language_current":"none","multi_language_list":[],"multi_language_main":"none","multi_language_mode":"none","original_sound_last_index":1,"record_audio_last_index":1,"sticker_max_index":1,"subtitle_keywords_config":null,"subtitle_recognition_id":"","subtitle_sync":true,"subtitle_taskinfo":[],"system_font_list":[],"text_animation_last_index":1,"text_to_audio_ids":[],"video_mute":false,"zoom_info_params":null}`,
	"cover":                      `""`,
	"extra_info":                 `""`,
	"fps":                        "30.0",
	"free_render_index_mode_on":  "false",
	"group_container":            "null",
	"keyframe_graph_list":        "[]",
	"keyframes":                  `{"adjusts":[],"audios":[],"effects":[],"filters":[],"handwrites":[],"stickers":[],"texts":[],"videos":[]}`,
	"last_modified_platform":     `{"app_id":0,"app_source":"","app_version":"","device_id":"","hard_disk_id":"","mac_address":"","os":"mac","os_version":""}`,
	"mutable_config":             "null",
	"new_version":                `"113.0.0"`,
	"platform":                   `{"app_id":0,"app_source":"","app_version":"","device_id":"","hard_disk_id":"","mac_address":"","os":"mac","os_version":""}`,
	"relationships":              "[]",
	"render_index_track_mode_on": "false",
	"retouch_cover":              "null",
	"source":                     `"default"`,
	"static_cover_image_path":    `""`,
	"version":                    "360000",
}

// emptyMaterialKinds lists the material collections a fresh draft
// carries as empty arrays, besides videos and texts.
var emptyMaterialKinds = []string{
	"adjusts", "audio_balances", "audio_effects", "audio_fades",
	"audio_track_indexes", "audios", "beats", "canvases", "chromas",
	"color_curves", "digital_humans", "drafts", "effects", "flowers",
	"green_screens", "handwrites", "hsl", "images", "log_color_wheels",
	"loudnesses", "manual_deformations", "masks", "material_animations",
	"material_colors", "multi_language_refs", "placeholders",
	"plugin_effects", "primary_color_wheels", "realtime_denoises",
	"shapes", "smart_crops", "smart_relights", "sound_channel_mappings",
	"speeds", "stickers", "tail_leaders", "text_templates", "time_marks",
	"transitions", "video_effects", "video_trackings", "vocal_beautifys",
	"vocal_separations",
}

var metaDefaults = map[string]string{
	"draft_cloud_capcut_purchase_info":   `""`,
	"draft_cloud_last_action_download":   "false",
	"draft_cloud_materials":              "[]",
	"draft_cloud_purchase_info":          `""`,
	"draft_cloud_template_id":            `""`,
	"draft_cloud_tutorial_info":          `""`,
	"draft_cloud_videocut_purchase_info": `""`,
	"draft_cover":                        `""`,
	"draft_deeplink_url":                 `""`,
	"draft_enterprise_info":              "{}",
	"draft_fold_path":                    `""`,
	"draft_is_ai_shorts":                 "false",
	"draft_is_article_video_draft":       "false",
	"draft_is_from_deeplink":             `""`,
	"draft_is_invisible":                 "false",
	"draft_materials_copied":             "false",
	"draft_new_version":                  `""`,
	"draft_removable_storage_device":     `""`,
	"draft_segment_extra_info":           `""`,
	"draft_timeline_materials_size_":     "0",
	"tm_draft_cloud_completed":           "0",
	"tm_draft_cloud_modified":            "0",
}

// videoSegmentDefaults is the per-segment record CapCut expects beyond
// identity and time ranges.
const videoSegmentDefaults = `{"cartoon":false,"clip":{"alpha":1.0,"flip":{"horizontal":false,"vertical":false},"rotation":0.0,"scale":{"x":1.0,"y":1.0},"transform":{"x":0.0,"y":0.0}},"common_keyframes":[],"enable_adjust":true,"enable_color_correct_adjust":false,"enable_color_curves":true,"enable_color_match_adjust":false,"enable_color_wheels":true,"enable_hsl":false,"enable_lut":false,"extra_material_refs":[],"group_id":"","hdr_settings":{"intensity":1.0,"mode":1,"nits":1000},"intensifies_audio":false,"is_placeholder":false,"is_tone_modify":false,"keyframe_refs":[],"last_nonzero_volume":1.0,"render_index":0,"responsive_layout":{"enable":false,"horizontal_pos_layout":0,"size_layout":0,"target_follow":"","vertical_pos_layout":0},"reverse":false,"speed":1.0,"template_id":"","template_scene":"default","track_attribute":0,"track_render_index":0,"uniform_scale":{"on":true,"value":1.0},"visible":true,"volume":1.0}`

// videoMaterialDefaults is the static part of a video material record;
// timestamps, ids and the roughcut range are filled per material.
const videoMaterialDefaults = `{"category_id":"","category_name":"local","extra_info":"","media_path":"","metetype":"video","sub_time_range":{"duration":-1,"start":-1},"type":"video"}`

func rawDefaults(src map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(src))
	for k, v := range src {
		out[k] = json.RawMessage(v)
	}
	return out
}

func parseDefaults(src string) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(src), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// rawJSON marshals a value for an opaque field. Only called with
// values that cannot fail to marshal.
func rawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func newMaterials() *Materials {
	extra := make(map[string]json.RawMessage, len(emptyMaterialKinds))
	for _, k := range emptyMaterialKinds {
		extra[k] = json.RawMessage("[]")
	}
	return &Materials{
		Videos: []*VideoMaterial{},
		Texts:  []*TextMaterial{},
		extra:  extra,
	}
}

// NewProject builds a fresh draft with one empty video track, ready for
// AddVideoMaterial/AddVideoSegment.
func NewProject(name string, canvasWidth, canvasHeight int) *Project {
	now := time.Now().Unix()
	id := NewToken()

	content := &Content{
		ID:         id,
		Name:       name,
		CreateTime: now,
		UpdateTime: now,
		CanvasConfig: &CanvasConfig{
			Width:  canvasWidth,
			Height: canvasHeight,
			Ratio:  "original",
		},
		Materials: newMaterials(),
		Tracks:    []*Track{newTrack(TrackVideo)},
		extra:     rawDefaults(contentDefaults),
	}

	meta := &Meta{
		DraftID:      id,
		DraftName:    name,
		CreateTime:   now,
		ModifiedTime: now,
		extra:        rawDefaults(metaDefaults),
	}

	return &Project{Content: content, Meta: meta}
}

// AddVideoMaterial registers a video file as a material and returns its
// id.
func (p *Project) AddVideoMaterial(path string, durationUS int64, width, height int) (string, error) {
	extra, err := parseDefaults(videoMaterialDefaults)
	if err != nil {
		return "", err
	}

	now := time.Now()
	id := NewToken()
	extra["create_time"] = json.RawMessage(strconv.FormatInt(now.Unix(), 10))
	extra["import_time"] = json.RawMessage(strconv.FormatInt(now.Unix(), 10))
	extra["import_time_ms"] = json.RawMessage(strconv.FormatInt(now.UnixMilli(), 10))
	extra["local_material_id"] = rawJSON(NewNumericID())
	extra["material_id"] = rawJSON(id)
	extra["material_name"] = rawJSON(filepath.Base(path))
	extra["roughcut_time_range"] = rawJSON(TimeRange{Start: 0, Duration: durationUS})

	m := &VideoMaterial{
		ID:       id,
		Path:     path,
		Duration: durationUS,
		Width:    width,
		Height:   height,
		extra:    extra,
	}
	p.Content.Materials.Videos = append(p.Content.Materials.Videos, m)
	return id, nil
}

// AddVideoSegment places a slice of the material on the video track and
// returns the segment id. The track is created if missing.
func (p *Project) AddVideoSegment(materialID string, targetStartUS, sourceStartUS, durationUS int64) (string, error) {
	extra, err := parseDefaults(videoSegmentDefaults)
	if err != nil {
		return "", err
	}

	s := &Segment{
		ID:          NewToken(),
		MaterialID:  materialID,
		SourceRange: NewTimeRange(sourceStartUS, durationUS),
		TargetRange: NewTimeRange(targetStartUS, durationUS),
		extra:       extra,
	}

	track := p.Content.VideoTrack()
	if track == nil {
		track = newTrack(TrackVideo)
		p.Content.Tracks = append(p.Content.Tracks, track)
	}
	track.Segments = append(track.Segments, s)

	p.RecomputeDuration()
	return s.ID, nil
}

// RecomputeDuration sets the project duration to the maximum target end
// across all tracks, in both documents.
func (p *Project) RecomputeDuration() {
	d := p.Content.MaxTargetEnd()
	p.Content.Duration = d
	if p.Meta != nil {
		p.Meta.Duration = d
	}
}

// Touch stamps the modification time on both documents, as CapCut does
// on every save.
func (p *Project) Touch(now time.Time) {
	p.Content.UpdateTime = now.Unix()
	if p.Meta != nil {
		p.Meta.ModifiedTime = now.Unix()
	}
}

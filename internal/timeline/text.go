package timeline

import (
	"encoding/json"
	"unicode/utf8"
)

// TextStyle configures rendered subtitle text.
type TextStyle struct {
	FontSize        int
	FontColor       string
	BackgroundColor string // empty disables the background box
	BackgroundAlpha float64
	PositionY       float64 // 0.0 = top, 1.0 = bottom
	Alternate       bool    // mirror every other line to the opposite edge
	Bold            bool
	FontPath        string
}

// DefaultTextStyle is white text on a translucent black box at the
// bottom of the frame.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontSize:        8,
		FontColor:       "#FFFFFF",
		BackgroundColor: "#000000",
		BackgroundAlpha: 0.6,
		PositionY:       0.8,
	}
}

// DynamicTextStyle is bare white text that bounces between the bottom
// and top of the frame on consecutive lines.
func DynamicTextStyle() TextStyle {
	return TextStyle{
		FontSize:  8,
		FontColor: "#FFFFFF",
		PositionY: 0.8,
		Alternate: true,
	}
}

// TextLine is one subtitle with its placement on the edited timeline,
// in seconds. Times are in the post-cut coordinate space, not the
// original source's.
type TextLine struct {
	Start float64
	End   float64
	Text  string
}

// AddTextTrack appends a new text track carrying one segment per line,
// each referencing a freshly created text material. Alternating styles
// mirror every other line to the opposite edge of the frame so
// consecutive subtitles don't mask each other.
func (p *Project) AddTextTrack(lines []TextLine, style TextStyle) error {
	if len(lines) == 0 {
		return nil
	}

	if p.Content.Materials == nil {
		p.Content.Materials = newMaterials()
	}
	if p.Content.Materials.Texts == nil {
		p.Content.Materials.Texts = []*TextMaterial{}
	}

	track := newTrack(TrackText)
	toggle := false

	for _, line := range lines {
		startUS := Micros(line.Start)
		durationUS := Micros(line.End) - startUS

		positionY := style.PositionY
		if style.Alternate {
			if toggle {
				positionY = 0.2
			}
			toggle = !toggle
		}

		material, err := newTextMaterial(line.Text, style)
		if err != nil {
			return err
		}
		segment, err := newTextSegment(material.ID, startUS, durationUS, positionY)
		if err != nil {
			return err
		}

		p.Content.Materials.Texts = append(p.Content.Materials.Texts, material)
		track.Segments = append(track.Segments, segment)
	}

	p.Content.Tracks = append(p.Content.Tracks, track)
	p.RecomputeDuration()
	return nil
}

// textMaterialDefaults is the static part of a text material record;
// style-dependent fields are filled per material.
const textMaterialDefaults = `{"add_type":0,"alignment":1,"background_height":0.14,"background_horizontal_offset":0.0,"background_round_radius":0.0,"background_vertical_offset":0.0,"background_width":0.14,"border_alpha":1.0,"border_color":"","border_width":0.08,"caption_template_info":{"category_id":"","category_name":"","effect_id":"","is_new":false,"path":"","request_id":"","resource_id":"","resource_name":"","source_platform":0},"check_flag":7,"combo_info":{"text_templates":[]},"fixed_height":-1.0,"fixed_width":-1.0,"font_category_id":"","font_category_name":"","font_id":"","font_name":"","font_resource_id":"","font_source_platform":0,"font_team_id":"","font_title":"","font_url":"","fonts":[],"force_apply_line_max_width":false,"global_alpha":1.0,"group_id":"","has_shadow":false,"initial_scale":1.0,"inner_padding":-1.0,"is_rich_text":false,"italic_degree":0,"ktv_color":"","language":"","layer_weight":1,"letter_spacing":0.0,"line_feed":1,"line_max_width":0.82,"line_spacing":0.02,"multi_language_current":"none","name":"","original_size":[],"preset_category":"","preset_category_id":"","preset_has_set_alignment":false,"preset_id":"","preset_index":0,"preset_name":"","recognize_task_id":"","recognize_type":0,"relevance_segment":[],"shadow_alpha":0.9,"shadow_angle":-45.0,"shadow_color":"","shadow_distance":5.0,"shadow_point":{"x":0.6363961030678928,"y":-0.6363961030678928},"shadow_smoothing":0.45,"shape_clip_x":false,"shape_clip_y":false,"source_from":"","style_name":"","sub_type":0,"subtitle_keywords":null,"text_alpha":1.0,"text_curve":null,"text_preset_resource_id":"","text_to_audio_ids":[],"tts_auto_update":false,"type":"text","typesetting":0,"underline":false,"underline_offset":0.22,"underline_width":0.05,"use_effect_default_color":true,"words":{"end_time":[],"start_time":[],"text":[]}}`

// textSegmentDefaults mirrors videoSegmentDefaults for text segments:
// no color adjustments, subtitle render layer. The clip block is filled
// per segment because it carries the vertical position.
const textSegmentDefaults = `{"cartoon":false,"common_keyframes":[],"enable_adjust":false,"enable_color_correct_adjust":false,"enable_color_curves":true,"enable_color_match_adjust":false,"enable_color_wheels":true,"enable_hsl":false,"enable_lut":false,"extra_material_refs":[],"group_id":"","hdr_settings":{"intensity":1.0,"mode":1,"nits":1000},"intensifies_audio":false,"is_placeholder":false,"is_tone_modify":false,"keyframe_refs":[],"last_nonzero_volume":1.0,"render_index":11000,"responsive_layout":{"enable":false,"horizontal_pos_layout":0,"size_layout":0,"target_follow":"","vertical_pos_layout":0},"reverse":false,"speed":1.0,"template_id":"","template_scene":"default","track_attribute":0,"track_render_index":0,"uniform_scale":{"on":true,"value":1.0},"visible":true,"volume":1.0}`

type textSolid struct {
	Color []float64 `json:"color"`
}

type textFillContent struct {
	RenderType string    `json:"render_type"`
	Solid      textSolid `json:"solid"`
}

type textFill struct {
	Alpha   float64         `json:"alpha"`
	Content textFillContent `json:"content"`
}

type textFont struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type textRunStyle struct {
	Fill  textFill `json:"fill"`
	Font  textFont `json:"font"`
	Range []int    `json:"range"`
	Size  int      `json:"size"`
}

type textContent struct {
	Styles []textRunStyle `json:"styles"`
	Text   string         `json:"text"`
}

// textContentJSON builds the nested content blob CapCut stores as a
// JSON string inside the material.
func textContentJSON(text string, style TextStyle) (string, error) {
	content := textContent{
		Styles: []textRunStyle{{
			Fill: textFill{
				Alpha: 1.0,
				Content: textFillContent{
					RenderType: "solid",
					Solid:      textSolid{Color: []float64{1.0, 1.0, 1.0}},
				},
			},
			Font:  textFont{Path: style.FontPath},
			Range: []int{0, utf8.RuneCountInString(text)},
			Size:  style.FontSize,
		}},
		Text: text,
	}
	b, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newTextMaterial(text string, style TextStyle) (*TextMaterial, error) {
	extra, err := parseDefaults(textMaterialDefaults)
	if err != nil {
		return nil, err
	}
	content, err := textContentJSON(text, style)
	if err != nil {
		return nil, err
	}

	backgroundStyle := 0
	if style.BackgroundColor != "" {
		backgroundStyle = 1
	}
	boldWidth := 0.0
	if style.Bold {
		boldWidth = 1.0
	}

	extra["background_alpha"] = rawJSON(style.BackgroundAlpha)
	extra["background_color"] = rawJSON(style.BackgroundColor)
	extra["background_style"] = rawJSON(backgroundStyle)
	extra["bold_width"] = rawJSON(boldWidth)
	extra["font_path"] = rawJSON(style.FontPath)
	extra["font_size"] = rawJSON(style.FontSize)
	extra["text_color"] = rawJSON(style.FontColor)
	extra["text_size"] = rawJSON(style.FontSize)

	return &TextMaterial{
		ID:      NewToken(),
		Content: content,
		extra:   extra,
	}, nil
}

func newTextSegment(materialID string, startUS, durationUS int64, positionY float64) (*Segment, error) {
	extra, err := parseDefaults(textSegmentDefaults)
	if err != nil {
		return nil, err
	}

	clip := map[string]any{
		"alpha":     1.0,
		"flip":      map[string]any{"horizontal": false, "vertical": false},
		"rotation":  0.0,
		"scale":     map[string]any{"x": 1.0, "y": 1.0},
		"transform": map[string]any{"x": 0.0, "y": positionY - 0.5},
	}
	extra["clip"] = rawJSON(clip)

	return &Segment{
		ID:          NewToken(),
		MaterialID:  materialID,
		SourceRange: NewTimeRange(0, durationUS),
		TargetRange: NewTimeRange(startUS, durationUS),
		extra:       extra,
	}, nil
}

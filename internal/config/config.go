package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Auphonic    AuphonicConfig    `yaml:"auphonic"`
	CapCut      CapCutConfig      `yaml:"capcut"`
	Cutting     CuttingConfig     `yaml:"cutting"`
	Subtitles   SubtitlesConfig   `yaml:"subtitles"`
	Audio       AudioConfig       `yaml:"audio"`
	Logging     LoggingConfig     `yaml:"logging"`
	History     HistoryConfig     `yaml:"history"`
	Performance PerformanceConfig `yaml:"performance"`

	// AllowedTargets gates the mutating tools: "capcut", "source", "all",
	// or empty for read-only operation.
	AllowedTargets string `yaml:"allowed_targets"`
}

type OpenAIConfig struct {
	APIKey       string `yaml:"api_key"`
	WhisperModel string `yaml:"whisper_model"`
	BaseURL      string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type AuphonicConfig struct {
	APIKey     string `yaml:"api_key"`
	PresetUUID string `yaml:"preset_uuid"`
	BaseURL    string `yaml:"base_url"`
}

type CapCutConfig struct {
	// DraftsDir is the CapCut drafts directory. Empty means auto-detect
	// for the current platform.
	DraftsDir string `yaml:"drafts_dir"`
}

type CuttingConfig struct {
	SilenceThresholdSec   float64 `yaml:"silence_threshold_sec"`
	MinSegmentDurationSec float64 `yaml:"min_segment_duration_sec"`
}

type SubtitlesConfig struct {
	MaxWords int `yaml:"max_words"`
	MaxChars int `yaml:"max_chars"`
}

type AudioConfig struct {
	TargetLUFS float64 `yaml:"target_lufs"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type HistoryConfig struct {
	// Path is the SQLite edit-history database. Empty means the default
	// location under the user home directory, "off" disables history.
	Path string `yaml:"path"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads the optional YAML config at path, overlays environment
// variables on top and validates the result. A missing file is not an
// error: everything can be configured through the environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKeys = []string{v}
	}
	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		c.Gemini.APIKeys = splitKeys(v)
	}
	if v := os.Getenv("AUPHONIC_API_KEY"); v != "" {
		c.Auphonic.APIKey = v
	}
	if v := os.Getenv("AUPHONIC_PRESET_UUID"); v != "" {
		c.Auphonic.PresetUUID = v
	}
	if v := os.Getenv("CAPCUT_DRAFTS_DIR"); v != "" {
		c.CapCut.DraftsDir = v
	}
	if v := os.Getenv("SMARTCUT_ALLOWED_TARGETS"); v != "" {
		c.AllowedTargets = v
	}
	if v := os.Getenv("SMARTCUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SMARTCUT_HISTORY_DB"); v != "" {
		c.History.Path = v
	}
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.AllowedTargets) {
	case "", "capcut", "source", "all":
		c.AllowedTargets = strings.ToLower(c.AllowedTargets)
	default:
		return fmt.Errorf("allowed_targets must be capcut, source or all, got %q", c.AllowedTargets)
	}

	if c.OpenAI.WhisperModel == "" {
		c.OpenAI.WhisperModel = "whisper-1"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Auphonic.BaseURL == "" {
		c.Auphonic.BaseURL = "https://auphonic.com"
	}
	if c.Cutting.SilenceThresholdSec == 0 {
		c.Cutting.SilenceThresholdSec = 3.0
	}
	if c.Cutting.MinSegmentDurationSec == 0 {
		c.Cutting.MinSegmentDurationSec = 0.5
	}
	if c.Cutting.SilenceThresholdSec < 0 {
		return fmt.Errorf("cutting.silence_threshold_sec must be positive, got %v", c.Cutting.SilenceThresholdSec)
	}
	if c.Cutting.MinSegmentDurationSec < 0 {
		return fmt.Errorf("cutting.min_segment_duration_sec must be positive, got %v", c.Cutting.MinSegmentDurationSec)
	}
	if c.Subtitles.MaxWords == 0 {
		c.Subtitles.MaxWords = 8
	}
	if c.Subtitles.MaxChars == 0 {
		c.Subtitles.MaxChars = 45
	}
	if c.Audio.TargetLUFS == 0 {
		c.Audio.TargetLUFS = -16.0
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

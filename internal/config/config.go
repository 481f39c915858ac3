package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	History  HistoryConfig  `yaml:"history"`
	Playback PlaybackConfig `yaml:"playback"`
	Effects  EffectsConfig  `yaml:"effects"`
	Library  LibraryConfig  `yaml:"library"`
	Server   ServerConfig   `yaml:"server"`
	Media    MediaConfig    `yaml:"media"`
}

// EditorConfig controls defaults applied by timeline mutations
type EditorConfig struct {
	DefaultClipLength float64 `yaml:"default_clip_length"`
	DefaultVolume     int     `yaml:"default_volume"`
	AudioTrackVolume  int     `yaml:"audio_track_volume"`
	MinCropSize       float64 `yaml:"min_crop_size"`
	MaxNameLength     int     `yaml:"max_name_length"`
	ContainerWidth    float64 `yaml:"container_width"`
	ContainerHeight   float64 `yaml:"container_height"`
}

type HistoryConfig struct {
	Limit    int           `yaml:"limit"`
	Debounce time.Duration `yaml:"debounce"`
}

type PlaybackConfig struct {
	LoopBackDelay       time.Duration `yaml:"loop_back_delay"`
	AudioDriftTolerance float64       `yaml:"audio_drift_tolerance"`
	GuardLoopBack       bool          `yaml:"guard_loop_back"`
	TickInterval        time.Duration `yaml:"tick_interval"`
}

type EffectsConfig struct {
	ActivationBuffer float64 `yaml:"activation_buffer"`
}

type LibraryConfig struct {
	Path       string `yaml:"path"`
	StorageKey string `yaml:"storage_key"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SLOPEDITOR_ADDR"`
	Workers         int           `yaml:"workers"`
	ExportStep      time.Duration `yaml:"export_step"`
	ExportIncrement int           `yaml:"export_increment"`
}

type MediaConfig struct {
	FFmpegPath      string `yaml:"ffmpeg_path"`
	FFprobePath     string `yaml:"ffprobe_path"`
	ThumbnailWidth  uint   `yaml:"thumbnail_width"`
	ThumbnailHeight uint   `yaml:"thumbnail_height"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides file settings with environment variables
func (c *Config) ApplyEnv() {
	if addr := os.Getenv("SLOPEDITOR_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("SLOPEDITOR_LIBRARY"); path != "" {
		c.Library.Path = path
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			DefaultClipLength: 5,
			DefaultVolume:     80,
			AudioTrackVolume:  80,
			MinCropSize:       10,
			MaxNameLength:     20,
			ContainerWidth:    800,
			ContainerHeight:   450,
		},
		History: HistoryConfig{
			Limit:    20,
			Debounce: 500 * time.Millisecond,
		},
		Playback: PlaybackConfig{
			LoopBackDelay:       500 * time.Millisecond,
			AudioDriftTolerance: 0.1,
			GuardLoopBack:       true,
			TickInterval:        250 * time.Millisecond,
		},
		Effects: EffectsConfig{
			ActivationBuffer: 0.01,
		},
		Library: LibraryConfig{
			Path:       "./data/library.json",
			StorageKey: "trendAll_videos",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			Workers:         32,
			ExportStep:      200 * time.Millisecond,
			ExportIncrement: 5,
		},
		Media: MediaConfig{
			FFmpegPath:      "ffmpeg",
			FFprobePath:     "ffprobe",
			ThumbnailWidth:  320,
			ThumbnailHeight: 180,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".slopeditor", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"go-space-shooter/internal/constants"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	World   WorldConfig   `toml:"world"`
	Frame   FrameConfig   `toml:"frame"`
	Assets  AssetsConfig  `toml:"assets"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	MSAA   int    `toml:"msaa"`
	VSync  bool   `toml:"vsync"`
}

// WorldConfig is the fixed logical play area in pixels. The window is letterboxed to it.
type WorldConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type FrameConfig struct {
	MinFrameTime time.Duration `toml:"min_frame_time"`
	MaxFrameTime time.Duration `toml:"max_frame_time"`
}

type AssetsConfig struct {
	Dir     string `toml:"dir"`
	Sprites string `toml:"sprites"` // sprite table, relative to Dir
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
	// Sounds maps a cue name to a WAV file relative to the assets dir.
	Sounds map[string]string `toml:"sounds"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	ShaderLogs bool `toml:"shader_logs"`
	DumpSheets bool `toml:"dump_sheets"`
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file overrides a value.
func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  constants.DefaultWindowedWidth,
			Height: constants.DefaultWindowedHeight,
			Title:  "Space Shooter",
			MSAA:   constants.MSAASamples,
			VSync:  true,
		},
		World: WorldConfig{
			Width:  320,
			Height: 180,
		},
		Frame: FrameConfig{
			MinFrameTime: constants.MinFrameTime,
			MaxFrameTime: constants.MaxFrameTime,
		},
		Assets: AssetsConfig{
			Dir:     "assets",
			Sprites: "sprites.yaml",
		},
		Audio: AudioConfig{
			Enabled: true,
			Sounds: map[string]string{
				"shot":      "shot.wav",
				"explosion": "explosion.wav",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			ShaderLogs: true,
		},
	}
}

func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Frame.MinFrameTime > c.Frame.MaxFrameTime {
		return fmt.Errorf("min_frame_time %v exceeds max_frame_time %v", c.Frame.MinFrameTime, c.Frame.MaxFrameTime)
	}
	return nil
}

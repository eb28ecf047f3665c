// Package config loads viewer and layout settings from TOML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"hyperflow/pkg/style"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Window   Window   `toml:"window"`
	Fonts    Fonts    `toml:"fonts"`
	Colors   Colors   `toml:"colors"`
	Behavior Behavior `toml:"behavior"`
	Log      Log      `toml:"log"`
}

type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Margin int `toml:"margin"`
}

type Fonts struct {
	Face     string `toml:"face"`
	BaseSize int    `toml:"base_size"` // 1-based HTML size
}

// Colors are names or hex triplets as accepted by style.ParseColor.
type Colors struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Link       string `toml:"link"`
	Selection  string `toml:"selection"`
}

type Behavior struct {
	// UseAlt shows the alt text of images that fail to load instead of a
	// placeholder.
	UseAlt  bool `toml:"use_alt"`
	Quiet   bool `toml:"quiet"`
	Scripts bool `toml:"scripts"`
	// Outline draws the region of every box.
	Outline bool `toml:"outline"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Window: Window{Width: 800, Height: 600, Margin: 8},
		Fonts:  Fonts{Face: "helvetica", BaseSize: style.DefaultSize + 1},
		Colors: Colors{
			Foreground: "#000000",
			Background: "#ffffff",
			Link:       "#0000ee",
			Selection:  "#ff0000",
		},
		Behavior: Behavior{UseAlt: true, Scripts: true},
		Log:      Log{Level: "info"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %s", ErrInvalid, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.Margin < 0 || 2*c.Window.Margin >= c.Window.Width {
		return fmt.Errorf("%w: margin %d", ErrInvalid, c.Window.Margin)
	}
	if c.Fonts.BaseSize < style.MinSize+1 || c.Fonts.BaseSize > style.MaxSize+1 {
		return fmt.Errorf("%w: base size %d outside 1..7", ErrInvalid, c.Fonts.BaseSize)
	}
	if strings.TrimSpace(c.Fonts.Face) == "" {
		return fmt.Errorf("%w: empty font face", ErrInvalid)
	}
	for name, v := range map[string]string{
		"foreground": c.Colors.Foreground,
		"background": c.Colors.Background,
		"link":       c.Colors.Link,
		"selection":  c.Colors.Selection,
	} {
		if _, ok := style.ParseColor(v); !ok {
			return fmt.Errorf("%w: %s color %q", ErrInvalid, name, v)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Color returns the parsed value of one of the Colors fields. Invalid
// values give opaque black; Validate reports them.
func Color(s string) color.RGBA {
	c, ok := style.ParseColor(s)
	if !ok {
		return color.RGBA{A: 0xff}
	}
	return c
}

// Level returns the configured log level, Info when unset or invalid.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

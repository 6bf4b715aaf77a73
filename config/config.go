// Package config loads editor settings from an optional TOML file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/rawedit/input"
	"github.com/lixenwraith/rawedit/render"
	"github.com/lixenwraith/rawedit/terminal"
)

// Duration decodes TOML strings such as "100ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Log controls the debug log file
type Log struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// Config is the full editor configuration
type Config struct {
	InputTimeout  Duration `toml:"input_timeout"`
	QuitKey       string   `toml:"quit_key"`
	RowMarker     string   `toml:"row_marker"`
	MaxFrameBytes int      `toml:"max_frame_bytes"`
	Log           Log      `toml:"log"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		InputTimeout:  Duration{terminal.DefaultReadTimeout},
		QuitKey:       "ctrl_q",
		RowMarker:     string(render.DefaultRowMarker),
		MaxFrameBytes: render.DefaultMaxFrameBytes,
		Log: Log{
			Debug: false,
			Dir:   "logs",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rawedit/config.toml (or the OS equivalent)
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rawedit", "config.toml")
}

// Load reads path over the defaults
// A missing file at the default location is not an error; an explicit path must exist
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "read config")
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML data into cfg, rejecting unknown keys
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return errors.Errorf("unknown key %q", undec[0].String())
	}
	return nil
}

// Validate checks value ranges and key names
func (c Config) Validate() error {
	if c.InputTimeout.Duration < 0 {
		return errors.New("input_timeout must not be negative")
	}
	if c.InputTimeout.Duration > 25500*time.Millisecond {
		return errors.New("input_timeout exceeds 25.5s (VTIME limit)")
	}
	if _, ok := input.KeyByName(c.QuitKey); !ok {
		return errors.Errorf("unknown quit_key %q", c.QuitKey)
	}
	if len(c.RowMarker) != 1 || c.RowMarker[0] < 0x20 || c.RowMarker[0] >= 0x7f {
		return errors.Errorf("row_marker must be one printable ASCII character, got %q", c.RowMarker)
	}
	if c.MaxFrameBytes < 0 {
		return errors.New("max_frame_bytes must not be negative")
	}
	if c.MaxFrameBytes > 0 && c.MaxFrameBytes < render.MinFrameBytes {
		return errors.Errorf("max_frame_bytes must be 0 (no cap) or at least %d", render.MinFrameBytes)
	}
	return nil
}

// Quit returns the resolved quit key
func (c Config) Quit() input.Key {
	k, ok := input.KeyByName(c.QuitKey)
	if !ok {
		return input.CtrlKey('q')
	}
	return k
}

// Marker returns the row marker byte
func (c Config) Marker() byte {
	if c.RowMarker == "" {
		return render.DefaultRowMarker
	}
	return c.RowMarker[0]
}

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// rawConfig mirrors the YAML file. Pointer fields distinguish "absent" from
// zero values so defaults only fill real gaps.
type rawConfig struct {
	FocusMarker *string     `yaml:"focus_marker"`
	Overlay     *rawOverlay `yaml:"overlay"`
	X11         *rawX11     `yaml:"x11"`
	Logging     *rawLogging `yaml:"logging"`
	Socket      *string     `yaml:"socket"`
}

type rawOverlay struct {
	BorderWidth  *int    `yaml:"border_width"`
	BorderColor  *string `yaml:"border_color"`
	TransitionMS *int    `yaml:"transition_ms"`
	Animated     *bool   `yaml:"animated"`
}

type rawX11 struct {
	MarkerProperty *string `yaml:"marker_property"`
}

type rawLogging struct {
	File *string `yaml:"file"`
}

// DefaultConfigPath returns ~/.config/navcursor/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "navcursor", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the configuration at path. A missing file
// yields the defaults bound to that path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var raw rawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := applyRaw(cfg, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyRaw(cfg *Config, raw rawConfig) error {
	if raw.FocusMarker != nil {
		cfg.FocusMarker = *raw.FocusMarker
	}
	if raw.Overlay != nil {
		if raw.Overlay.BorderWidth != nil {
			cfg.Overlay.BorderWidth = *raw.Overlay.BorderWidth
		}
		if raw.Overlay.BorderColor != nil {
			color, err := ParseColor(*raw.Overlay.BorderColor)
			if err != nil {
				return &ValidationError{Path: "overlay.border_color", Err: err}
			}
			cfg.Overlay.BorderColor = color
		}
		if raw.Overlay.TransitionMS != nil {
			cfg.Overlay.TransitionMS = *raw.Overlay.TransitionMS
		}
		if raw.Overlay.Animated != nil {
			cfg.Overlay.Animated = *raw.Overlay.Animated
		}
	}
	if raw.X11 != nil && raw.X11.MarkerProperty != nil {
		cfg.X11.MarkerProperty = *raw.X11.MarkerProperty
	}
	if raw.Logging != nil && raw.Logging.File != nil {
		cfg.Logging.File = *raw.Logging.File
	}
	if raw.Socket != nil {
		cfg.Socket = *raw.Socket
	}
	return nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

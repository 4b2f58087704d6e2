// Package config loads and validates the navcursor configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied for absent fields.
const (
	DefaultFocusMarker    = "nav-focused"
	DefaultBorderWidth    = 4
	DefaultBorderColor    = 0x3498db
	DefaultTransitionMS   = 150
	DefaultMarkerProperty = "_NAVCURSOR_FOCUS"
)

// OverlayConfig controls the cursor overlay's appearance and animation.
type OverlayConfig struct {
	// BorderWidth is the overlay border thickness in pixels.
	BorderWidth int
	// BorderColor is the border color as 0xRRGGBB.
	BorderColor uint32
	// TransitionMS is the movement transition duration in milliseconds.
	TransitionMS int
	// Animated enables the movement transition for steady-state tracking.
	Animated bool
}

// X11Config controls the X11 host adapter.
type X11Config struct {
	// MarkerProperty is the window property whose presence marks the
	// focused window.
	MarkerProperty string
}

// LoggingConfig controls daemon logging.
type LoggingConfig struct {
	File string
}

// Config is the effective navcursor configuration.
type Config struct {
	// FocusMarker is the class-style identifier the engine tracks.
	FocusMarker string
	Overlay     OverlayConfig
	X11         X11Config
	Logging     LoggingConfig
	// Socket overrides the control-socket path; empty means the runtime
	// default.
	Socket string

	path string // file this config was loaded from, for Save
}

// ValidationError reports an invalid config value with its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		FocusMarker: DefaultFocusMarker,
		Overlay: OverlayConfig{
			BorderWidth:  DefaultBorderWidth,
			BorderColor:  DefaultBorderColor,
			TransitionMS: DefaultTransitionMS,
			Animated:     true,
		},
		X11: X11Config{
			MarkerProperty: DefaultMarkerProperty,
		},
	}
}

// Validate checks the effective config.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FocusMarker) == "" {
		return &ValidationError{Path: "focus_marker", Err: fmt.Errorf("focus_marker must not be empty")}
	}
	if c.Overlay.BorderWidth < 0 {
		return &ValidationError{Path: "overlay.border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if c.Overlay.TransitionMS < 0 {
		return &ValidationError{Path: "overlay.transition_ms", Err: fmt.Errorf("transition_ms must be >= 0")}
	}
	if strings.TrimSpace(c.X11.MarkerProperty) == "" {
		return &ValidationError{Path: "x11.marker_property", Err: fmt.Errorf("marker_property must not be empty")}
	}
	return nil
}

// Save writes the config back to the file it was loaded from, or to the
// default path for configs that never touched disk.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c.toRaw())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.path = path
	return nil
}

func (c *Config) toRaw() rawConfig {
	color := fmt.Sprintf("#%06x", c.Overlay.BorderColor)
	return rawConfig{
		FocusMarker: &c.FocusMarker,
		Overlay: &rawOverlay{
			BorderWidth:  &c.Overlay.BorderWidth,
			BorderColor:  &color,
			TransitionMS: &c.Overlay.TransitionMS,
			Animated:     &c.Overlay.Animated,
		},
		X11: &rawX11{
			MarkerProperty: &c.X11.MarkerProperty,
		},
		Logging: &rawLogging{
			File: &c.Logging.File,
		},
		Socket: &c.Socket,
	}
}

// ParseColor accepts "#rrggbb", "0xrrggbb", or bare hex.
func ParseColor(s string) (uint32, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "0x")
	if len(trimmed) != 6 {
		return 0, fmt.Errorf("expected 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}

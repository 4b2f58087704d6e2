package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.FocusMarker != DefaultFocusMarker {
		t.Fatalf("focus_marker = %q, want default %q", cfg.FocusMarker, DefaultFocusMarker)
	}
	if cfg.Overlay.BorderWidth != DefaultBorderWidth {
		t.Fatalf("border_width = %d, want %d", cfg.Overlay.BorderWidth, DefaultBorderWidth)
	}
	if !cfg.Overlay.Animated {
		t.Fatal("animated must default to true")
	}
}

func TestLoadPartialFileFillsGapsWithDefaults(t *testing.T) {
	path := writeConfig(t, `
focus_marker: tv-focus
overlay:
  border_width: 2
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.FocusMarker != "tv-focus" {
		t.Fatalf("focus_marker = %q, want tv-focus", cfg.FocusMarker)
	}
	if cfg.Overlay.BorderWidth != 2 {
		t.Fatalf("border_width = %d, want 2", cfg.Overlay.BorderWidth)
	}
	if cfg.Overlay.TransitionMS != DefaultTransitionMS {
		t.Fatalf("transition_ms = %d, want default %d", cfg.Overlay.TransitionMS, DefaultTransitionMS)
	}
	if cfg.X11.MarkerProperty != DefaultMarkerProperty {
		t.Fatalf("marker_property = %q, want default", cfg.X11.MarkerProperty)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "focus_marker: a\nnot_a_field: 1\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected strict decoding to reject unknown fields")
	}
}

func TestLoadParsesColors(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"'#27ae60'", 0x27ae60},
		{"'0x7f8c8d'", 0x7f8c8d},
		{"'f5f7fa'", 0xf5f7fa},
	}
	for _, tt := range tests {
		path := writeConfig(t, "overlay:\n  border_color: "+tt.in+"\n")
		cfg, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("LoadFromPath(%s): %v", tt.in, err)
		}
		if cfg.Overlay.BorderColor != tt.want {
			t.Fatalf("border_color(%s) = %#x, want %#x", tt.in, cfg.Overlay.BorderColor, tt.want)
		}
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := writeConfig(t, "overlay:\n  border_color: 'red'\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected invalid color to fail")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "overlay.border_color" {
		t.Fatalf("error path = %q, want overlay.border_color", verr.Path)
	}
}

func TestValidateRejectsEmptyMarker(t *testing.T) {
	cfg := Default()
	cfg.FocusMarker = "  "

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "focus_marker") {
		t.Fatalf("expected focus_marker validation error, got %v", err)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	cfg.FocusMarker = "custom"
	cfg.Overlay.BorderColor = 0x27ae60
	cfg.Overlay.Animated = false
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.FocusMarker != "custom" {
		t.Fatalf("focus_marker = %q, want custom", loaded.FocusMarker)
	}
	if loaded.Overlay.BorderColor != 0x27ae60 {
		t.Fatalf("border_color = %#x, want 0x27ae60", loaded.Overlay.BorderColor)
	}
	if loaded.Overlay.Animated {
		t.Fatal("animated = true, want false")
	}
}

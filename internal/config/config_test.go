package config

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
display:
  screen_width: 640
camera:
  fov_degrees: 60
graphics:
  shading: linear
  linear_range: 12
assets:
  map: assets/maps/level1.map
  textures:
    - material: 1
      path: assets/textures/brick.png
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.GetScreenWidth() != 640 {
		t.Errorf("width = %d, want 640", cfg.GetScreenWidth())
	}
	if cfg.GetScreenHeight() != 600 {
		t.Errorf("unset height should keep the default, got %d", cfg.GetScreenHeight())
	}
	if math.Abs(cfg.GetFOV()-math.Pi/3) > 1e-12 {
		t.Errorf("fov = %v, want pi/3", cfg.GetFOV())
	}
	if cfg.Graphics.Shading != "linear" || cfg.Graphics.LinearRange != 12 {
		t.Errorf("graphics = %+v", cfg.Graphics)
	}
	if cfg.Movement.VelocityDamping != 0.85 || cfg.Movement.RotationDamping != 0.7 {
		t.Errorf("movement defaults lost: %+v", cfg.Movement)
	}
	if len(cfg.Assets.Textures) != 1 || cfg.Assets.Textures[0] != (TextureConfig{Material: 1, Path: "assets/textures/brick.png"}) {
		t.Errorf("textures = %+v", cfg.Assets.Textures)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		want string
	}{
		{"shading", "graphics: {shading: sepia}", "sepia"},
		{"linear range", "graphics: {shading: linear, linear_range: 0}", "linear_range"},
		{"fov", "camera: {fov_degrees: 200}", "fov_degrees"},
		{"texture material", "assets: {textures: [{material: 0, path: a.png}]}", "material 0"},
		{"texture path", "assets: {textures: [{material: 2}]}", "empty path"},
		{"damping", "movement: {velocity_damping: 1.5}", "damping"},
		{"syntax", "display: [", "parse config"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestGettersNormaliseZeroValues(t *testing.T) {
	var cfg Config
	if cfg.GetScreenWidth() != 960 || cfg.GetScreenHeight() != 600 {
		t.Error("screen size fallback")
	}
	if cfg.GetRayCount() != 960 {
		t.Errorf("ray count should default to the screen width, got %d", cfg.GetRayCount())
	}
	if cfg.GetFOV() != math.Pi/2 {
		t.Errorf("fov fallback = %v", cfg.GetFOV())
	}
	if cfg.GetRenderDistance() != 20 || cfg.GetEpsilon() != 1e-4 || cfg.GetPlaceholderSize() != 64 || cfg.GetLoadConcurrency() != 1 {
		t.Error("numeric fallbacks")
	}

	cfg.Graphics.CeilingColor = [3]int{300, -5, 128}
	if got := cfg.GetCeilingColor(); got != (color.RGBA{255, 0, 128, 255}) {
		t.Errorf("ceiling colour = %v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("chaser: {speed: 0.75}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Chaser.Speed != 0.75 || !cfg.Chaser.Enabled {
		t.Errorf("chaser = %+v", cfg.Chaser)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustLoadConfig should panic on a missing file")
		}
	}()
	MustLoadConfig(filepath.Join(dir, "missing.yaml"))
}

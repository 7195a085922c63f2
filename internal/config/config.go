package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all renderer and session configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Movement MovementConfig `yaml:"movement"`
	Assets   AssetsConfig   `yaml:"assets"`
	Minimap  MinimapConfig  `yaml:"minimap"`
	Chaser   ChaserConfig   `yaml:"chaser"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type CameraConfig struct {
	FOVDegrees     float64 `yaml:"fov_degrees"`
	RayCount       int     `yaml:"ray_count"`
	RenderDistance int     `yaml:"render_distance"`
	// Start pose, used when the map has no start marker
	StartX        float64 `yaml:"start_x"`
	StartZ        float64 `yaml:"start_z"`
	StartRotation float64 `yaml:"start_rotation"`
}

type GraphicsConfig struct {
	Shading             string  `yaml:"shading"` // inverse_square, linear or none
	FogConstant         float64 `yaml:"fog_constant"`
	LinearRange         float64 `yaml:"linear_range"`
	Epsilon             float64 `yaml:"epsilon"`
	CeilingColor        [3]int  `yaml:"ceiling_color"`
	FloorColor          [3]int  `yaml:"floor_color"`
	PlaceholderTextures bool    `yaml:"placeholder_textures"`
	PlaceholderSize     int     `yaml:"placeholder_size"`
	ParallelRaycast     bool    `yaml:"parallel_raycast"`
	Workers             int     `yaml:"workers"` // 0 = one per CPU
}

type MovementConfig struct {
	MoveSpeed       float64 `yaml:"move_speed"`
	RotationSpeed   float64 `yaml:"rotation_speed"`
	VelocityDamping float64 `yaml:"velocity_damping"`
	RotationDamping float64 `yaml:"rotation_damping"`
}

type AssetsConfig struct {
	Map             string          `yaml:"map"`
	Textures        []TextureConfig `yaml:"textures"`
	LoadConcurrency int             `yaml:"load_concurrency"`
}

type TextureConfig struct {
	Material int    `yaml:"material"`
	Path     string `yaml:"path"`
}

type MinimapConfig struct {
	Enabled bool    `yaml:"enabled"`
	Scale   float64 `yaml:"scale"`
	Margin  float64 `yaml:"margin"`
}

type ChaserConfig struct {
	Enabled bool    `yaml:"enabled"`
	Speed   float64 `yaml:"speed"`
}

// Default returns the built-in configuration. LoadConfig overlays the file
// on top of it, so a config file only needs the values it changes.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  960,
			ScreenHeight: 600,
			WindowTitle:  "castlight",
			Resizable:    true,
		},
		Camera: CameraConfig{
			FOVDegrees:     90,
			RayCount:       480,
			RenderDistance: 20,
			StartX:         1.5,
			StartZ:         1.5,
		},
		Graphics: GraphicsConfig{
			Shading:             "inverse_square",
			FogConstant:         10,
			LinearRange:         10,
			Epsilon:             1e-4,
			CeilingColor:        [3]int{40, 40, 52},
			FloorColor:          [3]int{70, 64, 56},
			PlaceholderTextures: true,
			PlaceholderSize:     64,
			ParallelRaycast:     true,
		},
		Movement: MovementConfig{
			MoveSpeed:       0.45,
			RotationSpeed:   0.85,
			VelocityDamping: 0.85,
			RotationDamping: 0.7,
		},
		Assets: AssetsConfig{
			LoadConcurrency: 4,
		},
		Minimap: MinimapConfig{
			Enabled: true,
			Scale:   6,
			Margin:  8,
		},
		Chaser: ChaserConfig{
			Enabled: true,
			Speed:   0.5,
		},
	}
}

// LoadConfig loads the configuration from a yaml file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse decodes yaml over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate reports every value that cannot be normalised by a getter.
func (c *Config) Validate() error {
	var errs []error
	if c.Display.ScreenWidth < 0 || c.Display.ScreenHeight < 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d is negative", c.Display.ScreenWidth, c.Display.ScreenHeight))
	}
	if c.Camera.FOVDegrees < 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov_degrees %v outside [0, 180)", c.Camera.FOVDegrees))
	}
	switch c.Graphics.Shading {
	case "", "inverse_square", "none":
	case "linear":
		if c.Graphics.LinearRange <= 0 {
			errs = append(errs, errors.New("graphics linear_range must be positive for linear shading"))
		}
	default:
		errs = append(errs, fmt.Errorf("graphics shading %q is not one of inverse_square, linear, none", c.Graphics.Shading))
	}
	for i, tex := range c.Assets.Textures {
		if tex.Material < 1 {
			errs = append(errs, fmt.Errorf("assets textures[%d]: material %d must be >= 1", i, tex.Material))
		}
		if tex.Path == "" {
			errs = append(errs, fmt.Errorf("assets textures[%d]: empty path", i))
		}
	}
	for _, damping := range []float64{c.Movement.VelocityDamping, c.Movement.RotationDamping} {
		if damping < 0 || damping > 1 {
			errs = append(errs, fmt.Errorf("movement damping %v outside [0, 1]", damping))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	if c.Display.ScreenWidth <= 0 {
		return 960
	}
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	if c.Display.ScreenHeight <= 0 {
		return 600
	}
	return c.Display.ScreenHeight
}

// GetFOV returns the field of view in radians.
func (c *Config) GetFOV() float64 {
	if c.Camera.FOVDegrees <= 0 {
		return math.Pi / 2
	}
	return c.Camera.FOVDegrees * math.Pi / 180
}

// GetRayCount defaults to one ray per screen column.
func (c *Config) GetRayCount() int {
	if c.Camera.RayCount <= 0 {
		return c.GetScreenWidth()
	}
	return c.Camera.RayCount
}

func (c *Config) GetRenderDistance() int {
	if c.Camera.RenderDistance <= 0 {
		return 20
	}
	return c.Camera.RenderDistance
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Movement.RotationSpeed
}

func (c *Config) GetEpsilon() float64 {
	if c.Graphics.Epsilon <= 0 {
		return 1e-4
	}
	return c.Graphics.Epsilon
}

func (c *Config) GetCeilingColor() color.RGBA {
	return rgb(c.Graphics.CeilingColor)
}

func (c *Config) GetFloorColor() color.RGBA {
	return rgb(c.Graphics.FloorColor)
}

func (c *Config) GetPlaceholderSize() int {
	if c.Graphics.PlaceholderSize < 8 {
		return 64
	}
	return c.Graphics.PlaceholderSize
}

func (c *Config) GetLoadConcurrency() int {
	if c.Assets.LoadConcurrency <= 0 {
		return 1
	}
	return c.Assets.LoadConcurrency
}

func rgb(c [3]int) color.RGBA {
	channel := func(v int) uint8 {
		return uint8(max(0, min(255, v)))
	}
	return color.RGBA{channel(c[0]), channel(c[1]), channel(c[2]), 255}
}
